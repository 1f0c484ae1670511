package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/notey"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Save a note's raw content as {title}.{docType}",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		nb, err := openNotebook(notey.WithExportDir(exportOut))
		if err != nil {
			fatal("Failed to open notebook", err)
		}
		defer nb.Close()

		name, err := nb.ExportNote(context.Background(), args[0])
		if err != nil {
			fatal("Failed to export note", err)
		}
		fmt.Println(filepath.Join(exportOut, name))
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", ".", "Directory to write the export into")
}
