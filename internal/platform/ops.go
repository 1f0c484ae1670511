package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/notey/pkg/adapters/fs"
	"github.com/aretw0/notey/pkg/adapters/memory"
	"github.com/aretw0/notey/pkg/adapters/sqlite"
	"github.com/aretw0/notey/pkg/core"
	"github.com/aretw0/notey/pkg/persist"
)

// SQLiteFileName is the database file inside the store directory.
const SQLiteFileName = "notes.db"

// resolved is the outcome of option and config file processing.
type resolved struct {
	opts  *options
	path  string
	codec persist.Codec
}

// resolve applies sandbox rules to uri, merges the config file and picks
// the adapter and codec.
func resolve(uri string, opts []Option) (*resolved, error) {
	o := applyOptions(opts)

	tempDir, _ := o.config["temp_dir"].(bool)
	isReadOnly, _ := o.config["read_only"].(bool)
	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}

	// Read-only stores cannot damage anything, so they skip the sandbox.
	bypassSafety := isReadOnly || !devSafety
	useTemp := tempDir || (IsDevRun() && !bypassSafety)
	path := ResolveStorePath(uri, useTemp)

	if o.logger != nil && IsDevRun() {
		switch {
		case isReadOnly:
			o.logger.Debug("running in READ-ONLY mode (bypassing dev sandbox)", "path", path)
		case bypassSafety:
			o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", path)
		default:
			o.logger.Debug("running in SAFE mode (dev sandbox enabled)", "path", path)
		}
	}
	if o.logger != nil && useTemp && path != filepath.Clean(uri) {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", uri, "resolved_path", path)
	}

	cfgPath, required := configPath(o, path)
	if cfgPath != "" {
		cfg, err := LoadConfig(cfgPath, required)
		if err != nil {
			return nil, err
		}
		cfg.merge(o)
	}

	if o.adapter == "" {
		o.adapter = AdapterFS
	}
	o.adapter = strings.ToLower(o.adapter)

	codec, err := persist.CodecFor(o.codec)
	if err != nil {
		return nil, err
	}

	return &resolved{opts: o, path: path, codec: codec}, nil
}

// OpenStore creates the storage backend for uri. The returned close function
// releases it and is never nil.
func OpenStore(uri string, opts ...Option) (core.Store, func() error, error) {
	r, err := resolve(uri, opts)
	if err != nil {
		return nil, nil, err
	}
	return openStore(context.Background(), r)
}

func openStore(ctx context.Context, r *resolved) (core.Store, func() error, error) {
	noop := func() error { return nil }
	o := r.opts

	if o.store != nil {
		return o.store, noop, nil
	}

	mustExist, _ := o.config["must_exist"].(bool)
	isReadOnly, _ := o.config["read_only"].(bool)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	switch o.adapter {
	case AdapterFS:
		store := fs.NewStore(fs.Config{
			Path:         r.path,
			MustExist:    mustExist,
			ReadOnly:     isReadOnly,
			Extension:    r.codec.Extension(),
			Logger:       o.logger,
			ErrorHandler: errorHandler,
		})
		if err := store.Initialize(ctx); err != nil {
			return nil, nil, err
		}
		return store, noop, nil

	case AdapterSQLite:
		if mustExist || isReadOnly {
			if _, err := os.Stat(r.path); err != nil {
				return nil, nil, fmt.Errorf("store path does not exist: %s", r.path)
			}
		} else if err := os.MkdirAll(r.path, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create store directory: %w", err)
		}
		store, err := sqlite.Open(ctx, sqlite.Config{
			DSN:      filepath.Join(r.path, SQLiteFileName),
			ReadOnly: isReadOnly,
			Logger:   o.logger,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	case AdapterMemory:
		return memory.NewStore(), noop, nil

	default:
		return nil, nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}
