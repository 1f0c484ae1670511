// Package persist is the durable store adapter: it loads and saves whole
// typed values through a core.Store and never lets persistence failures
// escape to the caller.
package persist

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/notey/pkg/core"
)

// NotesKey is the store key holding the note collection.
const NotesKey = "notes"

// Adapter serializes values of type T into a core.Store.
//
// Load falls back to a caller-supplied default on absence or corruption.
// Save logs and swallows write failures: the in-memory value stays
// authoritative for the session even if it could not be persisted.
type Adapter[T any] struct {
	store  core.Store
	codec  Codec
	logger *slog.Logger

	mu      sync.Mutex
	lastErr error
}

// NewAdapter creates an adapter. A nil codec means indented JSON and a nil
// logger discards output.
func NewAdapter[T any](store core.Store, codec Codec, logger *slog.Logger) *Adapter[T] {
	if codec == nil {
		codec = NewJSONCodec(true)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Adapter[T]{store: store, codec: codec, logger: logger}
}

// Load returns the value stored under key, or def when it is absent or unreadable.
func (a *Adapter[T]) Load(ctx context.Context, key string, def T) T {
	data, err := a.store.Get(ctx, key)
	if errors.Is(err, core.ErrKeyNotFound) {
		a.logger.Debug("no stored value, using default", "key", key)
		return def
	}
	if err != nil {
		a.logger.Warn("error reading from store, using default", "key", key, "error", err)
		return def
	}

	var v T
	if err := a.codec.Unmarshal(data, &v); err != nil {
		a.logger.Warn("stored value is corrupt, using default", "key", key, "codec", a.codec.Name(), "error", err)
		return def
	}
	return v
}

// Save writes v under key and reports whether it was persisted.
func (a *Adapter[T]) Save(ctx context.Context, key string, v T) bool {
	err := a.save(ctx, key, v)

	a.mu.Lock()
	a.lastErr = err
	a.mu.Unlock()

	if err != nil {
		a.logger.Error("error writing to store", "key", key, "error", err)
		return false
	}
	return true
}

func (a *Adapter[T]) save(ctx context.Context, key string, v T) error {
	data, err := a.codec.Marshal(v)
	if err != nil {
		return err
	}
	return a.store.Set(ctx, key, data)
}

// LastError returns the error of the most recent Save, or nil.
func (a *Adapter[T]) LastError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// Codec returns the codec in use.
func (a *Adapter[T]) Codec() Codec {
	return a.codec
}
