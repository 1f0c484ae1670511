package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/notey/pkg/content"
	"github.com/aretw0/notey/pkg/core"
)

// Adapter names.
const (
	AdapterFS     = "fs"
	AdapterSQLite = "sqlite"
	AdapterMemory = "memory"
)

// options holds the internal configuration for a notebook.
type options struct {
	store      core.Store
	logger     *slog.Logger
	adapter    string
	codec      string
	configFile string
	clock      core.Clock
	newID      core.IDGenerator
	config     map[string]interface{}
}

// Option defines a functional option for configuring Notey.
type Option func(*options)

// defaultOptions returns the default configuration. Adapter and codec stay
// empty so a config file can fill them.
func defaultOptions() *options {
	return &options{
		config: make(map[string]interface{}),
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStore injects a custom storage backend. The adapter setting is then ignored.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithAdapter selects the storage backend by name: "fs" (default), "sqlite" or "memory".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithCodec selects the stored encoding: "json" (default) or "yaml".
func WithCodec(name string) Option {
	return func(o *options) {
		o.codec = name
	}
}

// WithConfigFile reads settings from a YAML file. Without it, "notey.yaml"
// inside the store directory is used when present.
func WithConfigFile(path string) Option {
	return func(o *options) {
		o.configFile = path
	}
}

// WithClock overrides the time source.
func WithClock(clock core.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithIDGenerator overrides the note id source.
func WithIDGenerator(gen core.IDGenerator) Option {
	return func(o *options) {
		o.newID = gen
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithMustExist requires the store directory to exist already.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithReadOnly rejects every write with core.ErrReadOnly. Read-only stores
// bypass the dev sandbox because they cannot damage anything.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithDevSafety controls the sandbox used under `go run` and `go test`.
// By default (true) the store is redirected into a temporary directory.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}

// WithWatcherErrorHandler receives runtime failures of filesystem watches.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}

// WithStatusDelay sets how long a mutation shows as saving.
func WithStatusDelay(d time.Duration) Option {
	return func(o *options) {
		o.config["status_delay"] = d
	}
}

// WithCooldown sets the rich editor suppression window.
func WithCooldown(d time.Duration) Option {
	return func(o *options) {
		o.config["cooldown"] = d
	}
}

// WithDefaultDocType sets the doc type of notes created without one.
func WithDefaultDocType(dt core.DocType) Option {
	return func(o *options) {
		o.config["default_doc_type"] = dt
	}
}

// WithSanitizePolicy sets the HTML allow-list for rendered projections.
func WithSanitizePolicy(p content.Policy) Option {
	return func(o *options) {
		o.config["sanitize"] = p
	}
}

// WithExportDir sets the directory exports are written to.
func WithExportDir(dir string) Option {
	return func(o *options) {
		o.config["export_dir"] = dir
	}
}

// WithPreviewHidden starts sessions with the preview hidden.
func WithPreviewHidden() Option {
	return func(o *options) {
		o.config["preview_hidden"] = true
	}
}
