package export_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notey/pkg/core"
	"github.com/aretw0/notey/pkg/export"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		name string
		note core.Note
		want string
	}{
		{"Plain", core.Note{Title: "Groceries", DocType: core.DocTypeText}, "Groceries.txt"},
		{"Markdown", core.Note{Title: "Plan", DocType: core.DocTypeMarkdown}, "Plan.md"},
		{"Formatted Uses Literal Tag", core.Note{Title: "Report", DocType: core.DocTypeFormatted}, "Report.formatted"},
		{"Empty Title", core.Note{DocType: core.DocTypeMarkdown}, "Untitled.md"},
		{"Separators", core.Note{Title: "a/b\\c", DocType: core.DocTypeText}, "a_b_c.txt"},
		{"Control Characters", core.Note{Title: "line\nbreak\t", DocType: core.DocTypeText}, "line_break_.txt"},
		{"Unicode Kept", core.Note{Title: "Café ☕", DocType: core.DocTypeText}, "Café ☕.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, export.Filename(tt.note))
		})
	}
}

func TestDirDownloader(t *testing.T) {
	ctx := context.Background()

	t.Run("Writes Raw Content", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "out")
		d := export.NewDirDownloader(dir, nil)

		require.NoError(t, d.Download(ctx, "Plan.md", "# Plan\n"))

		data, err := os.ReadFile(filepath.Join(dir, "Plan.md"))
		require.NoError(t, err)
		assert.Equal(t, "# Plan\n", string(data))
	})

	t.Run("Overwrites Existing Export", func(t *testing.T) {
		dir := t.TempDir()
		d := export.NewDirDownloader(dir, nil)

		require.NoError(t, d.Download(ctx, "a.txt", "one"))
		require.NoError(t, d.Download(ctx, "a.txt", "two"))

		data, err := os.ReadFile(filepath.Join(dir, "a.txt"))
		require.NoError(t, err)
		assert.Equal(t, "two", string(data))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1, "no temp files left behind")
	})

	t.Run("Refuses To Escape Directory", func(t *testing.T) {
		d := export.NewDirDownloader(t.TempDir(), nil)
		for _, name := range []string{"", "..", "../x.txt", "sub/x.txt"} {
			err := d.Download(ctx, name, "x")
			require.ErrorIs(t, err, export.ErrInvalidFilename, name)
		}
	})
}
