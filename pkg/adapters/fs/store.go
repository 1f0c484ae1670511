// Package fs implements core.Store on the local filesystem: one file per key
// inside a directory, replaced atomically on every write.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/notey/pkg/core"
)

// DefaultExtension is appended to keys to form file names.
const DefaultExtension = ".json"

// Config holds the configuration for the filesystem store.
type Config struct {
	Path      string
	MustExist bool
	ReadOnly  bool
	Extension string // e.g. ".json" or ".yaml"
	Logger    *slog.Logger
	// ErrorHandler receives runtime watcher failures. When nil they are only logged.
	ErrorHandler func(error)
}

// Store implements core.Store using the filesystem.
type Store struct {
	Path   string
	config Config

	mu            sync.RWMutex
	watcherActive bool
	lastWrite     *time.Time
	writes        int
}

// NewStore creates a filesystem-backed store. It performs no I/O until
// Initialize or the first operation.
func NewStore(config Config) *Store {
	if config.Extension == "" {
		config.Extension = DefaultExtension
	}
	if !strings.HasPrefix(config.Extension, ".") {
		config.Extension = "." + config.Extension
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		Path:   config.Path,
		config: config,
	}
}

// Initialize ensures the store directory exists.
func (s *Store) Initialize(ctx context.Context) error {
	if s.config.MustExist || s.config.ReadOnly {
		info, err := os.Stat(s.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("store path does not exist: %s", s.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat store path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("store path is not a directory: %s", s.Path)
		}
		return nil
	}

	if err := os.MkdirAll(s.Path, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	return nil
}

// PathFor returns the file backing key.
func (s *Store) PathFor(key string) (string, error) {
	name, err := s.filename(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.Path, name), nil
}

func (s *Store) filename(key string) (string, error) {
	if key == "" {
		return "", errors.New("store key cannot be empty")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." || strings.HasPrefix(key, TempFilePrefix) {
		return "", fmt.Errorf("invalid store key %q", key)
	}
	return key + s.config.Extension, nil
}

// Get reads the whole value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.PathFor(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", core.ErrKeyNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// Set replaces the value under key with an atomic temp-file rename.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.PathFor(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.Path, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	s.config.Logger.Debug("writing value", "key", key, "path", path, "bytes", len(value))
	if err := WriteFileAtomic(path, value, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	s.recordWrite()
	return nil
}

// Delete removes the file backing key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.PathFor(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) recordWrite() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.lastWrite = &now
	s.writes++
}

func (s *Store) setWatcherActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcherActive = active
}

var _ core.Store = (*Store)(nil)
var _ core.Watchable = (*Store)(nil)
