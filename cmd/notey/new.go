package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notey/pkg/core"
)

var (
	newType    string
	newTitle   string
	newContent string
	newHTML    string
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a note and print its id",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		var dt core.DocType
		if newType != "" {
			parsed, err := core.ParseDocType(newType)
			if err != nil {
				fatal("Invalid --type", err)
			}
			dt = parsed
		}

		nb, err := openNotebook()
		if err != nil {
			fatal("Failed to open notebook", err)
		}
		defer nb.Close()

		ctx := context.Background()
		n, err := nb.NewNote(ctx, dt)
		if err != nil {
			fatal("Failed to create note", err)
		}

		if err := applyEdits(ctx, nb, cmd, newContent, newHTML, newTitle); err != nil {
			fatal("Failed to edit note", err)
		}

		settle(nb)
		fmt.Println(n.ID)
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVarP(&newType, "type", "t", "", "Document type: txt, md or formatted")
	newCmd.Flags().StringVar(&newTitle, "title", "", "Note title")
	newCmd.Flags().StringVar(&newContent, "content", "", "Body of a txt or md note")
	newCmd.Flags().StringVar(&newHTML, "html", "", "Body of a formatted note, as HTML")
}
