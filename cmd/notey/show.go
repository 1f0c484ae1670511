package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/aretw0/notey/pkg/content"
)

var (
	showHTML bool
	showWrap int
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a note",
	Long: `Print a note in the terminal. Markdown and formatted notes are rendered
with glamour; plain text notes are printed literally. With --html the
sanitized HTML projection is printed instead.`,
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
		n, _ := nb.Active()
		caps := content.CapabilitiesFor(n.DocType)

		if showHTML {
			var out string
			if caps.Surface == content.SurfaceRich {
				p, err := nb.Projection()
				if err != nil {
					fatal("Failed to render note", err)
				}
				out = p.HTML
			} else {
				out, err = nb.Preview(ctx)
				if err != nil {
					fatal("Failed to render note", err)
				}
			}
			fmt.Println(out)
			return
		}

		fmt.Printf("%s  [%s]\n\n", n.Title, caps.Label)
		if caps.Preview == content.PreviewLiteral {
			fmt.Println(n.Content)
			return
		}

		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(showWrap),
		)
		if err != nil {
			fatal("Failed to create terminal renderer", err)
		}
		out, err := r.Render(n.Content)
		if err != nil {
			fatal("Failed to render note", err)
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showHTML, "html", false, "Print the sanitized HTML projection")
	showCmd.Flags().IntVar(&showWrap, "wrap", 80, "Word wrap width for terminal rendering")
}
