package notey

import (
	"log/slog"
	"time"

	"github.com/aretw0/notey/internal/platform"
	"github.com/aretw0/notey/pkg/content"
	"github.com/aretw0/notey/pkg/core"
	"github.com/aretw0/notey/pkg/session"
)

// --- Types ---

// Note is a public alias for the domain note.
type Note = core.Note

// DocType is a public alias for the document type tag.
type DocType = core.DocType

// Notebook is an opened note collection with its editing session.
type Notebook = platform.Notebook

// Status is the save status of a notebook.
type Status = session.Status

// Policy is the HTML sanitization allow-list.
type Policy = content.Policy

// Document types.
const (
	DocTypeText      = core.DocTypeText
	DocTypeMarkdown  = core.DocTypeMarkdown
	DocTypeFormatted = core.DocTypeFormatted
)

// --- Configuration ---

// Option defines a functional option for configuring Notey.
type Option = platform.Option

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStore injects a custom storage backend.
func WithStore(store core.Store) Option {
	return platform.WithStore(store)
}

// WithAdapter selects the storage backend by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithCodec selects the stored encoding ("json" or "yaml").
func WithCodec(name string) Option {
	return platform.WithCodec(name)
}

// WithConfigFile reads settings from a YAML file.
func WithConfigFile(path string) Option {
	return platform.WithConfigFile(path)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithMustExist requires the store directory to exist already.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly rejects every write.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithDevSafety controls the `go run` sandbox.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithStatusDelay sets how long a mutation shows as saving.
func WithStatusDelay(d time.Duration) Option {
	return platform.WithStatusDelay(d)
}

// WithCooldown sets the rich editor suppression window.
func WithCooldown(d time.Duration) Option {
	return platform.WithCooldown(d)
}

// WithDefaultDocType sets the doc type of notes created without one.
func WithDefaultDocType(dt DocType) Option {
	return platform.WithDefaultDocType(dt)
}

// WithSanitizePolicy sets the HTML allow-list.
func WithSanitizePolicy(p Policy) Option {
	return platform.WithSanitizePolicy(p)
}

// WithExportDir sets the directory exports are written to.
func WithExportDir(dir string) Option {
	return platform.WithExportDir(dir)
}

// --- Factory ---

// New opens the notebook at path and starts an editing session.
func New(path string, opts ...Option) (*Notebook, error) {
	return platform.New(path, opts...)
}

// --- Safety & Utils ---

// ResolveStorePath determines the actual store path based on safety rules.
func ResolveStorePath(userPath string, forceTemp bool) string {
	return platform.ResolveStorePath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot looks upwards from startDir for a notebook.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// DefaultStorePath is the notebook found from the working directory, or
// $HOME/.notey.
func DefaultStorePath() string {
	return platform.DefaultStorePath()
}
