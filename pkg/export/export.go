// Package export saves a note's raw content under a file name derived from
// its title and doc type.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/aretw0/notey/pkg/adapters/fs"
	"github.com/aretw0/notey/pkg/core"
)

// ErrInvalidFilename is returned for names that would leave the target directory.
var ErrInvalidFilename = errors.New("invalid export filename")

// Downloader hands raw content to the user under a file name.
type Downloader interface {
	Download(ctx context.Context, filename, content string) error
}

// Filename builds "{title}.{docType}". Path separators and control
// characters become "_" and an empty title becomes "Untitled".
func Filename(n core.Note) string {
	title := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || unicode.IsControl(r) {
			return '_'
		}
		return r
	}, n.Title)

	if strings.TrimSpace(title) == "" {
		title = "Untitled"
	}
	return title + "." + n.DocType.Extension()
}

// DirDownloader writes exports into a directory.
type DirDownloader struct {
	Dir    string
	Logger *slog.Logger
}

// NewDirDownloader creates a downloader writing into dir.
func NewDirDownloader(dir string, logger *slog.Logger) *DirDownloader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &DirDownloader{Dir: dir, Logger: logger}
}

// Download implements Downloader. Existing files are replaced atomically.
func (d *DirDownloader) Download(ctx context.Context, filename, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := d.Path(filename)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := fs.WriteFileAtomic(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to export %s: %w", filename, err)
	}

	d.Logger.Info("note exported", "path", path, "bytes", len(content))
	return nil
}

// Path resolves filename inside the target directory.
func (d *DirDownloader) Path(filename string) (string, error) {
	if filename == "" || filename == "." || filename == ".." ||
		strings.ContainsAny(filename, `/\`) || filepath.Base(filename) != filename {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}
	return filepath.Join(d.Dir, filename), nil
}

var _ Downloader = (*DirDownloader)(nil)
