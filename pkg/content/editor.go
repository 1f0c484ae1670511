package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/notey/pkg/core"
)

// DefaultCooldown is how long re-renders of the edited note are suppressed
// after a local edit.
const DefaultCooldown = 100 * time.Millisecond

// ErrNoNoteOpen is returned when the rich editor is used before Open.
var ErrNoNoteOpen = errors.New("no note open in rich editor")

// NoteWriter is the part of the repository the rich editor writes through.
type NoteWriter interface {
	UpdateNote(ctx context.Context, id string, patch core.Patch) bool
}

type editorState int

const (
	stateIdle editorState = iota
	stateSuppressed
)

func (s editorState) String() string {
	if s == stateSuppressed {
		return "suppressed"
	}
	return "idle"
}

// renderToken identifies one render request.
type renderToken struct {
	noteID     string
	generation uint64
}

// RichEditor owns the HTML projection of the note open in the rich surface.
//
// After a local edit it enters the suppressed state for the edited note.
// While suppressed, Sync does not re-render from the content that edit just
// wrote. Open of any note, or the cooldown expiring, returns it to idle.
// Every render is tagged with a token and its result is dropped when a newer
// Open, Edit or render has happened since.
type RichEditor struct {
	pipeline *Pipeline
	writer   NoteWriter
	clock    core.Clock
	cooldown time.Duration
	logger   *slog.Logger

	editMu sync.Mutex

	mu         sync.Mutex
	noteID     string
	projection Projection
	generation uint64
	state      editorState
	expiry     time.Time
	renders    int
	dropped    int
	reported   map[string]struct{}
}

// EditorOption configures a RichEditor.
type EditorOption func(*RichEditor)

// WithCooldown sets the suppression window. Non-positive values keep the default.
func WithCooldown(d time.Duration) EditorOption {
	return func(e *RichEditor) {
		if d > 0 {
			e.cooldown = d
		}
	}
}

// WithEditorClock overrides the time source for suppression expiry.
func WithEditorClock(clock core.Clock) EditorOption {
	return func(e *RichEditor) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithEditorLogger sets the logger.
func WithEditorLogger(logger *slog.Logger) EditorOption {
	return func(e *RichEditor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewRichEditor creates an editor that renders through pipeline and writes
// converted Markdown through writer.
func NewRichEditor(pipeline *Pipeline, writer NoteWriter, opts ...EditorOption) *RichEditor {
	e := &RichEditor{
		pipeline: pipeline,
		writer:   writer,
		clock:    time.Now,
		cooldown: DefaultCooldown,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		reported: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Open shows n in the editor, bypassing any suppression, and renders its
// canonical content. Use it on a note switch and when a note re-enters the
// formatted doc type.
func (e *RichEditor) Open(ctx context.Context, n core.Note) error {
	token := e.begin(n.ID)
	return e.render(ctx, token, n.Content, false)
}

// OpenAsync switches to n immediately and renders in the background. The
// returned channel receives the render outcome and is then closed.
func (e *RichEditor) OpenAsync(ctx context.Context, n core.Note) <-chan error {
	token := e.begin(n.ID)
	done := make(chan error, 1)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(done)
		done <- e.render(ctx, token, n.Content, false)
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		e.logger.Error("rich editor render panicked", "note", n.ID, "error", err)
	}))

	return done
}

func (e *RichEditor) begin(noteID string) renderToken {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.noteID != noteID {
		e.projection = NewProjection(noteID, "")
	}
	e.noteID = noteID
	e.state = stateIdle
	e.expiry = time.Time{}
	e.generation++
	return renderToken{noteID: noteID, generation: e.generation}
}

// Sync tells the editor that the canonical content of n changed. It reports
// whether the projection was replaced. Changes to a note that is not open
// are ignored, as are changes to the open note inside the suppression window.
func (e *RichEditor) Sync(ctx context.Context, n core.Note) (bool, error) {
	e.mu.Lock()
	if n.ID == "" || n.ID != e.noteID {
		e.mu.Unlock()
		return false, nil
	}
	if e.state == stateSuppressed {
		if e.clock().Before(e.expiry) {
			e.mu.Unlock()
			e.logger.Debug("re-render suppressed", "note", n.ID)
			return false, nil
		}
		e.state = stateIdle
		e.expiry = time.Time{}
	}
	e.generation++
	token := renderToken{noteID: n.ID, generation: e.generation}
	before := e.projection.HTML
	e.mu.Unlock()

	if err := e.render(ctx, token, n.Content, true); err != nil {
		return false, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.projection.HTML != before && e.current(token), nil
}

// Edit records the user's edited HTML as the projection, enters the
// suppression window and writes the converted Markdown to the open note.
func (e *RichEditor) Edit(ctx context.Context, fragment string) error {
	e.editMu.Lock()
	defer e.editMu.Unlock()

	e.mu.Lock()
	noteID := e.noteID
	if noteID == "" {
		e.mu.Unlock()
		return ErrNoNoteOpen
	}
	e.generation++
	e.projection = NewProjection(noteID, fragment)
	e.state = stateSuppressed
	e.expiry = e.clock().Add(e.cooldown)
	e.mu.Unlock()

	markdown, err := e.pipeline.ToMarkdown(fragment)
	if err != nil {
		e.reportOnce(noteID, "convert", err)
		return err
	}

	if !e.writer.UpdateNote(ctx, noteID, core.SetContent(markdown)) {
		return fmt.Errorf("%w: %s", core.ErrNoteNotFound, noteID)
	}
	return nil
}

// Close forgets the open note. Pending renders are dropped.
func (e *RichEditor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.noteID = ""
	e.projection = Projection{}
	e.state = stateIdle
	e.expiry = time.Time{}
	e.generation++
}

// Projection returns the current projection.
func (e *RichEditor) Projection() Projection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.projection
}

// NoteID returns the id of the open note, or "".
func (e *RichEditor) NoteID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.noteID
}

// Suppressed reports whether re-renders of the open note are currently skipped.
func (e *RichEditor) Suppressed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == stateSuppressed && e.clock().Before(e.expiry)
}

func (e *RichEditor) render(ctx context.Context, token renderToken, markdown string, onlyIfChanged bool) error {
	out, err := e.pipeline.Render(ctx, markdown)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			e.logger.Debug("rich editor render abandoned", "note", token.noteID, "error", err)
			return err
		}
		e.reportOnce(token.noteID, "render", err)
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.renders++
	if !e.current(token) {
		e.dropped++
		e.logger.Debug("stale render dropped", "note", token.noteID, "generation", token.generation)
		return nil
	}
	e.forget(token.noteID)
	if onlyIfChanged && out == e.projection.HTML {
		return nil
	}
	e.projection = NewProjection(token.noteID, out)
	return nil
}

func (e *RichEditor) current(token renderToken) bool {
	return token.noteID == e.noteID && token.generation == e.generation
}

// reportOnce logs a failure the first time it is seen for a note.
func (e *RichEditor) reportOnce(noteID, op string, err error) {
	key := noteID + "\x00" + op + "\x00" + err.Error()

	e.mu.Lock()
	_, seen := e.reported[key]
	if !seen {
		e.reported[key] = struct{}{}
	}
	e.mu.Unlock()

	if !seen {
		e.logger.Error("rich editor "+op+" failed, keeping previous projection", "note", noteID, "error", err)
	}
}

// forget clears reported failures of a note once it renders again.
// Caller holds e.mu.
func (e *RichEditor) forget(noteID string) {
	prefix := noteID + "\x00"
	for k := range e.reported {
		if strings.HasPrefix(k, prefix) {
			delete(e.reported, k)
		}
	}
}
