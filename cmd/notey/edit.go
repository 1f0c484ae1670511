package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notey"
	"github.com/aretw0/notey/pkg/core"
)

var (
	editType    string
	editTitle   string
	editContent string
	editHTML    string
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a note",
	Long: `Edit a note's doc type, body and title, in that order.
A txt or md body sets the title to its first line unless --title is given.
Changing the doc type never rewrites the content.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		nb, err := openNotebook()
		if err != nil {
			fatal("Failed to open notebook", err)
		}
		defer nb.Close()

		ctx := context.Background()
		if err := nb.Select(ctx, args[0]); err != nil {
			fatal("Failed to select note", err)
		}

		if editType != "" {
			dt, err := core.ParseDocType(editType)
			if err != nil {
				fatal("Invalid --type", err)
			}
			if err := nb.ChangeDocType(ctx, dt); err != nil {
				fatal("Failed to change doc type", err)
			}
		}

		if err := applyEdits(ctx, nb, cmd, editContent, editHTML, editTitle); err != nil {
			fatal("Failed to edit note", err)
		}

		settle(nb)
		fmt.Printf("Note '%s' saved.\n", args[0])
	},
}

// applyEdits routes body and title flags to the active note's surface.
func applyEdits(ctx context.Context, nb *notey.Notebook, cmd *cobra.Command, body, html, title string) error {
	if cmd.Flags().Changed("content") {
		if err := nb.EditBody(ctx, body); err != nil {
			return fmt.Errorf("--content: %w (use --html for formatted notes)", err)
		}
	}
	if cmd.Flags().Changed("html") {
		if err := nb.EditRich(ctx, html); err != nil {
			return fmt.Errorf("--html: %w (use --content for txt and md notes)", err)
		}
	}
	if cmd.Flags().Changed("title") {
		if err := nb.EditTitle(ctx, title); err != nil {
			return fmt.Errorf("--title: %w", err)
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVarP(&editType, "type", "t", "", "New document type: txt, md or formatted")
	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVar(&editContent, "content", "", "New body of a txt or md note")
	editCmd.Flags().StringVar(&editHTML, "html", "", "New body of a formatted note, as HTML")
}
