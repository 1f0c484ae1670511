package main

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/aretw0/notey"
	"github.com/aretw0/notey/pkg/adapters/fs"
	lcadapter "github.com/aretw0/notey/pkg/adapters/lifecycle"
	"github.com/aretw0/notey/pkg/content"
	"github.com/aretw0/notey/pkg/core"
	"github.com/aretw0/notey/pkg/persist"
)

var (
	previewOut   string
	previewWatch bool
)

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
<article>
%s
</article>
</body>
</html>
`

var previewCmd = &cobra.Command{
	Use:   "preview <id>",
	Short: "Write a note's HTML preview to a file",
	Long: `Write the sanitized HTML projection of a note to a standalone page.
With --watch the page is rewritten whenever the stored collection changes
(fs adapter only) until interrupted.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := args[0]

		nb, err := openNotebook()
		if err != nil {
			fatal("Failed to open notebook", err)
		}
		defer nb.Close()

		pipeline := nb.Pipeline()

		n, ok := nb.Get(id)
		if !ok {
			fatal("Failed to find note", fmt.Errorf("%w: %s", core.ErrNoteNotFound, id))
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := writePreview(ctx, pipeline, n); err != nil {
			fatal("Failed to write preview", err)
		}
		fmt.Printf("Preview written to %s\n", previewOut)

		if !previewWatch {
			return
		}
		if err := watchPreview(ctx, nb, pipeline, id); err != nil && !errors.Is(err, context.Canceled) {
			fatal("Watch failed", err)
		}
	},
}

// renderNote renders any doc type, formatted notes included, for a standalone page.
func renderNote(ctx context.Context, pipeline *content.Pipeline, n core.Note) (string, error) {
	if content.CapabilitiesFor(n.DocType).Preview == content.PreviewLiteral {
		return content.LiteralHTML(n.Content), nil
	}
	return pipeline.Render(ctx, n.Content)
}

func writePreview(ctx context.Context, pipeline *content.Pipeline, n core.Note) error {
	body, err := renderNote(ctx, pipeline, n)
	if err != nil {
		return err
	}
	page := fmt.Sprintf(pageTemplate, html.EscapeString(n.Title), body)
	return fs.WriteFileAtomic(previewOut, []byte(page), 0644)
}

func watchPreview(ctx context.Context, nb *notey.Notebook, pipeline *content.Pipeline, id string) error {
	watchable, ok := nb.Store.(core.Watchable)
	if !ok {
		return fmt.Errorf("adapter %q does not support watching", nb.Adapter)
	}

	events, err := watchable.Watch(ctx, persist.NotesKey)
	if err != nil {
		return err
	}

	loader := persist.NewAdapter[[]core.Note](nb.Store, nb.Codec, slog.Default())
	src := lcadapter.NewSource(events, core.EventModify)
	if err := src.Start(ctx); err != nil {
		return err
	}
	slog.Info("watching for changes", "note", id)

	for ev := range src.Events() {
		collection := loader.Load(ctx, persist.NotesKey, nil)
		n, found := findNote(collection, id)
		if !found {
			slog.Warn("note no longer exists", "note", id)
			continue
		}
		if err := writePreview(ctx, pipeline, n); err != nil {
			slog.Error("failed to refresh preview", "note", id, "error", err)
			continue
		}
		slog.Info("preview refreshed", "note", id, "event", ev.String())
	}
	return ctx.Err()
}

func findNote(collection []core.Note, id string) (core.Note, bool) {
	for _, n := range collection {
		if n.ID == id {
			return n, true
		}
	}
	return core.Note{}, false
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().StringVarP(&previewOut, "out", "o", "", "HTML file to write")
	previewCmd.Flags().BoolVarP(&previewWatch, "watch", "w", false, "Rewrite the file whenever the notebook changes")
	previewCmd.MarkFlagRequired("out")
}
