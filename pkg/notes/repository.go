// Package notes owns the canonical in-memory note collection and the active
// selection. Every mutation is persisted as a whole through the durable
// store adapter.
package notes

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/aretw0/notey/pkg/core"
	"github.com/aretw0/notey/pkg/persist"
)

const (
	// DefaultTitle is given to notes created by the user.
	DefaultTitle = "New Note"

	WelcomeTitle   = "Welcome to Notey!"
	WelcomeContent = "# Welcome to Notey!\n\nThis is your first note. Feel free to edit it or create a new one."
	WelcomeDocType = core.DocTypeMarkdown
)

// maxIDAttempts bounds retries when a generated id collides with an existing one.
const maxIDAttempts = 8

// Repository is the single owner of the note collection.
//
// Notes are kept in stored order (newest creation first). Listing order is
// derived at read time from LastModified and never persisted.
type Repository struct {
	store  *persist.Adapter[[]core.Note]
	clock  core.Clock
	newID  core.IDGenerator
	logger *slog.Logger

	mu       sync.RWMutex
	notes    []core.Note
	activeID string
	loaded   bool
	saves    int
	lastSave bool
}

// NewRepository creates an empty repository persisting through store.
// Call Load before use.
func NewRepository(store *persist.Adapter[[]core.Note], opts ...Option) *Repository {
	r := &Repository{
		store:    store,
		clock:    defaultClock,
		newID:    core.NewID,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		lastSave: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load reads the collection from the store and runs the bootstrap policy:
// an empty collection gets a welcome note, selected. It reports whether the
// welcome note was created. Only the first call per Repository has effect.
func (r *Repository) Load(ctx context.Context) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded {
		return false
	}
	r.loaded = true

	stored := r.store.Load(ctx, persist.NotesKey, []core.Note{})
	r.notes = r.repair(stored)

	if len(r.notes) == 0 {
		welcome, err := r.newNoteLocked(WelcomeDocType)
		if err != nil {
			r.logger.Error("failed to create welcome note", "error", err)
			return false
		}
		welcome.Title = WelcomeTitle
		welcome.Content = WelcomeContent

		r.notes = []core.Note{welcome}
		r.activeID = welcome.ID
		r.saveLocked(ctx)
		r.logger.Info("bootstrapped empty collection", "id", welcome.ID)
		return true
	}

	if r.activeID == "" {
		r.activeID = r.sortedLocked()[0].ID
	}
	r.logger.Debug("collection loaded", "notes", len(r.notes), "active", r.activeID)
	return false
}

// repair drops records that would break collection invariants.
func (r *Repository) repair(stored []core.Note) []core.Note {
	out := make([]core.Note, 0, len(stored))
	seen := make(map[string]bool, len(stored))

	for _, n := range stored {
		if n.ID == "" {
			id, err := r.uniqueIDLocked(seen)
			if err != nil {
				r.logger.Warn("dropping note without id", "error", err)
				continue
			}
			r.logger.Warn("assigned id to stored note", "id", id)
			n.ID = id
		}
		if seen[n.ID] {
			r.logger.Warn("dropping duplicate stored note", "id", n.ID)
			continue
		}
		if !n.DocType.Valid() {
			r.logger.Warn("unknown stored doc type, treating as plain text", "id", n.ID, "doc_type", string(n.DocType))
			n.DocType = core.DocTypeText
		}
		seen[n.ID] = true
		out = append(out, n)
	}
	return out
}

// CreateNote inserts an empty note of the given type at the head of the
// collection and makes it active.
func (r *Repository) CreateNote(ctx context.Context, dt core.DocType) (core.Note, error) {
	if !dt.Valid() {
		return core.Note{}, fmt.Errorf("%w: %q", core.ErrUnknownDocType, string(dt))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	n, err := r.newNoteLocked(dt)
	if err != nil {
		return core.Note{}, err
	}

	r.notes = append([]core.Note{n}, r.notes...)
	r.activeID = n.ID
	r.saveLocked(ctx)

	r.logger.Debug("note created", "id", n.ID, "doc_type", string(dt))
	return n, nil
}

func (r *Repository) newNoteLocked(dt core.DocType) (core.Note, error) {
	seen := make(map[string]bool, len(r.notes))
	var newest int64
	for _, n := range r.notes {
		seen[n.ID] = true
		newest = max(newest, n.LastModified)
	}
	id, err := r.uniqueIDLocked(seen)
	if err != nil {
		return core.Note{}, err
	}
	// A new note lists first even if the clock stepped back.
	return core.Note{
		ID:           id,
		Title:        DefaultTitle,
		DocType:      dt,
		LastModified: r.stamp(newest),
	}, nil
}

func (r *Repository) uniqueIDLocked(taken map[string]bool) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id, err := r.newID()
		if err != nil {
			return "", fmt.Errorf("generate id: %w", err)
		}
		if id != "" && !taken[id] {
			return id, nil
		}
	}
	return "", fmt.Errorf("generate id: no unique id after %d attempts", maxIDAttempts)
}

// UpdateNote merges patch into the note with the given id and stamps
// LastModified. It reports false, changing nothing, when the id is unknown.
func (r *Repository) UpdateNote(ctx context.Context, id string, patch core.Patch) bool {
	if patch.DocType != nil && !patch.DocType.Valid() {
		r.logger.Warn("ignoring update with unknown doc type", "id", id, "doc_type", string(*patch.DocType))
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(id)
	if i < 0 {
		r.logger.Debug("update of unknown note ignored", "id", id)
		return false
	}

	prev := r.notes[i]
	next := patch.Apply(prev)
	next.LastModified = r.stamp(prev.LastModified)
	r.notes[i] = next
	r.saveLocked(ctx)
	return true
}

// stamp returns now in epoch milliseconds, never earlier than prev.
func (r *Repository) stamp(prev int64) int64 {
	now := core.Millis(r.clock())
	if now < prev {
		return prev
	}
	return now
}

// DeleteNote removes a note permanently. When it was active, the most
// recently modified remaining note becomes active, or none if the collection
// is now empty. It reports false when the id is unknown.
func (r *Repository) DeleteNote(ctx context.Context, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(id)
	if i < 0 {
		r.logger.Debug("delete of unknown note ignored", "id", id)
		return false
	}

	r.notes = append(r.notes[:i:i], r.notes[i+1:]...)

	if r.activeID == id {
		r.activeID = ""
		if len(r.notes) > 0 {
			r.activeID = r.sortedLocked()[0].ID
		}
	}

	r.saveLocked(ctx)
	r.logger.Debug("note deleted", "id", id, "active", r.activeID)
	return true
}

// SelectNote makes id the active note. An empty id clears the selection.
// Unknown ids are ignored and reported as false.
func (r *Repository) SelectNote(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id != "" && r.indexLocked(id) < 0 {
		r.logger.Debug("select of unknown note ignored", "id", id)
		return false
	}
	r.activeID = id
	return true
}

// ListNotes returns the notes sorted by LastModified, most recent first.
// Ties keep stored order, so a newer creation lists before an older one.
func (r *Repository) ListNotes() []core.Note {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked()
}

func (r *Repository) sortedLocked() []core.Note {
	out := make([]core.Note, len(r.notes))
	copy(out, r.notes)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastModified > out[j].LastModified
	})
	return out
}

// Snapshot returns a copy of the collection in stored order.
func (r *Repository) Snapshot() []core.Note {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.Note, len(r.notes))
	copy(out, r.notes)
	return out
}

// Get returns the note with the given id.
func (r *Repository) Get(id string) (core.Note, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexLocked(id); i >= 0 {
		return r.notes[i], true
	}
	return core.Note{}, false
}

// ActiveID returns the selected note id, or "" when nothing is selected.
func (r *Repository) ActiveID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.activeID
}

// ActiveNote resolves the active id against the collection. A dangling id
// resolves to nothing selected.
func (r *Repository) ActiveNote() (core.Note, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.activeID == "" {
		return core.Note{}, false
	}
	if i := r.indexLocked(r.activeID); i >= 0 {
		return r.notes[i], true
	}
	return core.Note{}, false
}

// Len returns the number of notes.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.notes)
}

// LastSaveOK reports whether the most recent persistence attempt succeeded.
func (r *Repository) LastSaveOK() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastSave
}

func (r *Repository) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i := range r.notes {
		if r.notes[i].ID == id {
			return i
		}
	}
	return -1
}

// saveLocked writes the full collection in stored order.
func (r *Repository) saveLocked(ctx context.Context) {
	snapshot := make([]core.Note, len(r.notes))
	copy(snapshot, r.notes)
	r.lastSave = r.store.Save(ctx, persist.NotesKey, snapshot)
	r.saves++
}
