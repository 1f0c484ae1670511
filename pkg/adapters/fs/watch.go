package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/notey/pkg/core"
)

// watchDebounce collapses the burst of events an atomic rename produces.
const watchDebounce = 50 * time.Millisecond

// Watch reports changes to the file backing key, including writes made by
// other processes. The channel is closed when ctx is cancelled.
//
// The directory is watched rather than the file: atomic writes replace the
// file's inode, which would silently detach a file-level watch.
func (s *Store) Watch(ctx context.Context, key string) (<-chan core.Event, error) {
	name, err := s.filename(key)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(s.Path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", s.Path, err)
	}

	events := make(chan core.Event, 16)
	w := &watchWorker{
		store:     s,
		key:       key,
		name:      name,
		watcher:   watcher,
		events:    events,
		debouncer: newDebouncer(watchDebounce),
	}

	s.setWatcherActive(true)
	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		w.reportError(fmt.Errorf("watcher panic: %w", err))
	}))

	return events, nil
}

type watchWorker struct {
	store     *Store
	key       string
	name      string
	watcher   *fsnotify.Watcher
	events    chan core.Event
	debouncer *debouncer
}

// run is the main event loop of the watcher.
func (w *watchWorker) run(ctx context.Context) error {
	defer close(w.events)
	defer w.store.setWatcherActive(false)
	defer w.watcher.Close()

	err := w.loop(ctx)

	// In-flight debounce timers may still send; wait for them before the
	// deferred close of the events channel.
	w.debouncer.stopAndWait(5 * time.Second)
	return err
}

func (w *watchWorker) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.handle(ctx, event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.reportError(err)
		}
	}
}

func (w *watchWorker) handle(ctx context.Context, event fsnotify.Event) {
	if isTempFile(event.Name) || filepath.Base(event.Name) != w.name {
		return
	}

	var eType core.EventType
	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		eType = core.EventDelete
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		eType = core.EventModify
	default:
		return
	}

	w.store.config.Logger.Debug("store change observed", "key", w.key, "op", event.Op.String())

	w.debouncer.add(core.Event{
		Type:      eType,
		Key:       w.key,
		Timestamp: time.Now().Unix(),
	}, func(e core.Event) {
		defer func() {
			// The channel may already be closed if stopAndWait timed out.
			_ = recover()
		}()
		select {
		case w.events <- e:
		case <-ctx.Done():
		}
	})
}

func (w *watchWorker) reportError(err error) {
	w.store.config.Logger.Error("store watcher error", "key", w.key, "error", err)
	if w.store.config.ErrorHandler != nil {
		w.store.config.ErrorHandler(err)
	}
}
