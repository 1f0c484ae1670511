package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/notey"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of notey",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("notey version %s\n", strings.TrimSpace(notey.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
