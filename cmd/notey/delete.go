package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a note permanently",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		nb, err := openNotebook()
		if err != nil {
			fatal("Failed to open notebook", err)
		}
		defer nb.Close()

		if err := nb.Delete(context.Background(), args[0]); err != nil {
			fatal("Failed to delete note", err)
		}

		settle(nb)
		fmt.Printf("Note '%s' deleted.\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
