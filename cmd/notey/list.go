package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/notey/pkg/content"
)

var (
	listJSON  bool
	listMatch string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, most recently modified first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		nb, err := openNotebook()
		if err != nil {
			fatal("Failed to open notebook", err)
		}
		defer nb.Close()

		matched, err := nb.Match(listMatch)
		if err != nil {
			fatal("Invalid --match pattern", err)
		}

		now := time.Now()
		summaries := make([]content.Summary, 0, len(matched))
		for _, n := range matched {
			summaries = append(summaries, content.Summarize(n, now))
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(summaries); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		active, _ := nb.Active()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, s := range summaries {
			marker := " "
			if s.ID == active.ID {
				marker = "*"
			}
			fmt.Fprintf(w, "%s %s\t%s\t%s\t%s\t%d words\t%s\n", marker, s.ID, s.Label, s.Title, s.When, s.Words, s.Display())
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listMatch, "match", "", "Only notes whose title matches this glob (case-insensitive)")
}
