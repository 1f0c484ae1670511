// Package session coordinates the editing surfaces: it derives the active
// note, routes edits to the right surface, tracks save status around every
// mutation and keeps preview visibility consistent with the doc type.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/notey/pkg/content"
	"github.com/aretw0/notey/pkg/core"
	"github.com/aretw0/notey/pkg/export"
	"github.com/aretw0/notey/pkg/notes"
)

// Session is one user's editing session over a repository.
type Session struct {
	repo       *notes.Repository
	pipeline   *content.Pipeline
	editor     *content.RichEditor
	status     *StatusTracker
	downloader export.Downloader
	clock      core.Clock
	logger     *slog.Logger
	defaultDT  core.DocType

	mu             sync.Mutex
	previewVisible bool
}

// Option configures a Session.
type Option func(*sessionOptions)

type sessionOptions struct {
	statusDelay time.Duration
	cooldown    time.Duration
	clock       core.Clock
	logger      *slog.Logger
	downloader  export.Downloader
	hidePreview bool
	defaultDT   core.DocType
}

// WithStatusDelay sets how long a mutation shows as saving.
func WithStatusDelay(d time.Duration) Option {
	return func(o *sessionOptions) {
		o.statusDelay = d
	}
}

// WithCooldown sets the rich editor suppression window.
func WithCooldown(d time.Duration) Option {
	return func(o *sessionOptions) {
		o.cooldown = d
	}
}

// WithClock overrides the time source of the rich editor and list summaries.
func WithClock(clock core.Clock) Option {
	return func(o *sessionOptions) {
		o.clock = clock
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *sessionOptions) {
		o.logger = logger
	}
}

// WithDownloader sets the export target.
func WithDownloader(d export.Downloader) Option {
	return func(o *sessionOptions) {
		o.downloader = d
	}
}

// WithDefaultDocType sets the doc type used by NewNote when none is given.
func WithDefaultDocType(dt core.DocType) Option {
	return func(o *sessionOptions) {
		o.defaultDT = dt
	}
}

// WithPreviewHidden starts the session with the preview hidden.
func WithPreviewHidden() Option {
	return func(o *sessionOptions) {
		o.hidePreview = true
	}
}

// New creates a session. Call Start before use.
func New(repo *notes.Repository, pipeline *content.Pipeline, opts ...Option) *Session {
	o := sessionOptions{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.clock == nil {
		o.clock = time.Now
	}
	if !o.defaultDT.Valid() {
		o.defaultDT = core.DefaultDocType
	}

	s := &Session{
		repo:           repo,
		pipeline:       pipeline,
		status:         NewStatusTracker(o.statusDelay),
		downloader:     o.downloader,
		clock:          o.clock,
		logger:         o.logger,
		defaultDT:      o.defaultDT,
		previewVisible: !o.hidePreview,
	}
	s.editor = content.NewRichEditor(pipeline, repo,
		content.WithCooldown(o.cooldown),
		content.WithEditorClock(o.clock),
		content.WithEditorLogger(o.logger),
	)
	s.status.OnChange(func(st Status) {
		s.logger.Debug("save status", "status", string(st))
	})
	return s
}

// Start loads the collection and opens the active note in its surface.
func (s *Session) Start(ctx context.Context) error {
	if s.repo.Load(ctx) {
		s.logger.Info("created welcome note")
	}
	return s.activate(ctx)
}

// activate brings the rich editor in line with the active note.
func (s *Session) activate(ctx context.Context) error {
	n, ok := s.repo.ActiveNote()
	if !ok || content.CapabilitiesFor(n.DocType).Surface != content.SurfaceRich {
		s.editor.Close()
		return nil
	}
	if s.editor.NoteID() == n.ID {
		return nil
	}
	return s.editor.Open(ctx, n)
}

// mutate runs fn and, when it changed the collection, moves the status
// tracker through saving to the outcome of the save. A rejected call leaves
// the status untouched.
func (s *Session) mutate(fn func() bool) bool {
	if !fn() {
		return false
	}
	ticket := s.status.Begin()
	s.status.Done(ticket, s.repo.LastSaveOK())
	return true
}

// NewNote creates an empty note of type dt and makes it active. An empty dt
// uses the session's default doc type.
func (s *Session) NewNote(ctx context.Context, dt core.DocType) (core.Note, error) {
	if dt == "" {
		dt = s.defaultDT
	}
	if !dt.Valid() {
		return core.Note{}, fmt.Errorf("%w: %q", core.ErrUnknownDocType, string(dt))
	}

	var (
		n   core.Note
		err error
	)
	s.mutate(func() bool {
		n, err = s.repo.CreateNote(ctx, dt)
		return err == nil
	})
	if err != nil {
		return core.Note{}, err
	}
	if content.CapabilitiesFor(dt).Surface == content.SurfaceRich {
		s.setPreview(false)
	}
	return n, s.activate(ctx)
}

// Active returns the active note. A stale or empty selection yields false.
func (s *Session) Active() (core.Note, bool) {
	return s.repo.ActiveNote()
}

func (s *Session) active() (core.Note, error) {
	n, ok := s.repo.ActiveNote()
	if !ok {
		return core.Note{}, ErrNoActiveNote
	}
	return n, nil
}

// EditTitle sets the active note's title. On the rich surface it is capped
// at content.MaxTitleRunes.
func (s *Session) EditTitle(ctx context.Context, title string) error {
	n, err := s.active()
	if err != nil {
		return err
	}
	if content.CapabilitiesFor(n.DocType).Surface == content.SurfaceRich {
		title = content.ClampTitle(title)
	}
	return s.update(ctx, n.ID, core.SetTitle(title))
}

// EditBody replaces the body of a plain-surface note. The title follows the
// first line of the body.
func (s *Session) EditBody(ctx context.Context, body string) error {
	n, err := s.active()
	if err != nil {
		return err
	}
	if content.CapabilitiesFor(n.DocType).Surface != content.SurfacePlain {
		return fmt.Errorf("%w: %s", ErrWrongSurface, n.DocType)
	}
	patch := core.SetContent(body).Merge(core.SetTitle(content.DeriveTitle(body)))
	return s.update(ctx, n.ID, patch)
}

// EditRich applies an edit of the rich surface's HTML projection.
func (s *Session) EditRich(ctx context.Context, fragment string) error {
	n, err := s.active()
	if err != nil {
		return err
	}
	if content.CapabilitiesFor(n.DocType).Surface != content.SurfaceRich {
		return fmt.Errorf("%w: %s", ErrWrongSurface, n.DocType)
	}
	if s.editor.NoteID() != n.ID {
		if err := s.editor.Open(ctx, n); err != nil {
			return err
		}
	}

	var editErr error
	s.mutate(func() bool {
		editErr = s.editor.Edit(ctx, fragment)
		return editErr == nil
	})
	if editErr != nil {
		return editErr
	}

	// Canonical content changed; the editor skips the re-render while its
	// suppression window is open.
	if updated, ok := s.repo.Get(n.ID); ok {
		if _, err := s.editor.Sync(ctx, updated); err != nil {
			s.logger.Debug("sync after rich edit failed", "note", n.ID, "error", err)
		}
	}
	return nil
}

// ChangeDocType switches the active note's doc type without touching its
// content. Entering formatted hides the preview and renders the rich
// projection fresh.
func (s *Session) ChangeDocType(ctx context.Context, dt core.DocType) error {
	if !dt.Valid() {
		return fmt.Errorf("%w: %q", core.ErrUnknownDocType, string(dt))
	}
	n, err := s.active()
	if err != nil {
		return err
	}
	if n.DocType == dt {
		return nil
	}
	if err := s.update(ctx, n.ID, core.SetDocType(dt)); err != nil {
		return err
	}

	if content.CapabilitiesFor(dt).Surface == content.SurfaceRich {
		s.setPreview(false)
		updated, _ := s.repo.Get(n.ID)
		return s.editor.Open(ctx, updated)
	}
	s.editor.Close()
	return nil
}

func (s *Session) update(ctx context.Context, id string, patch core.Patch) error {
	ok := s.mutate(func() bool {
		return s.repo.UpdateNote(ctx, id, patch)
	})
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrNoteNotFound, id)
	}
	return nil
}

// DeleteActive deletes the active note.
func (s *Session) DeleteActive(ctx context.Context) error {
	n, err := s.active()
	if err != nil {
		return err
	}
	return s.Delete(ctx, n.ID)
}

// Delete removes a note. Deleting the active note selects the most recently
// modified remaining one.
func (s *Session) Delete(ctx context.Context, id string) error {
	if _, ok := s.repo.Get(id); !ok {
		return fmt.Errorf("%w: %s", core.ErrNoteNotFound, id)
	}
	ok := s.mutate(func() bool {
		return s.repo.DeleteNote(ctx, id)
	})
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrNoteNotFound, id)
	}
	return s.activate(ctx)
}

// Select makes id the active note. An empty id clears the selection.
func (s *Session) Select(ctx context.Context, id string) error {
	if !s.repo.SelectNote(id) {
		return fmt.Errorf("%w: %s", core.ErrNoteNotFound, id)
	}
	return s.activate(ctx)
}

// Get returns a note by id.
func (s *Session) Get(id string) (core.Note, bool) {
	return s.repo.Get(id)
}

// Notes lists notes most recently modified first.
func (s *Session) Notes() []core.Note {
	return s.repo.ListNotes()
}

// Summaries returns the list entries in listing order.
func (s *Session) Summaries() []content.Summary {
	list := s.repo.ListNotes()
	now := s.clock()
	out := make([]content.Summary, 0, len(list))
	for _, n := range list {
		out = append(out, content.Summarize(n, now))
	}
	return out
}

// Match lists the notes whose title matches a doublestar glob, compared
// case-insensitively. An empty pattern matches everything.
func (s *Session) Match(pattern string) ([]core.Note, error) {
	list := s.repo.ListNotes()
	if pattern == "" {
		return list, nil
	}
	pattern = strings.ToLower(pattern)
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	out := make([]core.Note, 0, len(list))
	for _, n := range list {
		ok, err := doublestar.Match(pattern, strings.ToLower(n.Title))
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if ok {
			out = append(out, n)
		}
	}
	return out, nil
}

// Preview renders the side preview of the active note. Doc types without a
// preview yield "".
func (s *Session) Preview(ctx context.Context) (string, error) {
	n, err := s.active()
	if err != nil {
		return "", err
	}
	return s.pipeline.Preview(ctx, n)
}

// Projection returns the rich editor's projection of the active note.
func (s *Session) Projection() (content.Projection, error) {
	n, err := s.active()
	if err != nil {
		return content.Projection{}, err
	}
	if content.CapabilitiesFor(n.DocType).Surface != content.SurfaceRich {
		return content.Projection{}, fmt.Errorf("%w: %s", ErrWrongSurface, n.DocType)
	}
	p := s.editor.Projection()
	if p.NoteID != n.ID {
		return content.Projection{}, fmt.Errorf("%w: %s", ErrWrongSurface, n.ID)
	}
	return p, nil
}

// TogglePreview flips preview visibility and returns the new value. It is
// ignored while the active note has no preview.
func (s *Session) TogglePreview() bool {
	n, ok := s.repo.ActiveNote()
	if ok && !content.CapabilitiesFor(n.DocType).SupportsPreview() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.previewVisible = !s.previewVisible
	return s.previewVisible
}

// PreviewVisible reports whether the preview is shown for the active note.
func (s *Session) PreviewVisible() bool {
	n, ok := s.repo.ActiveNote()
	if ok && !content.CapabilitiesFor(n.DocType).SupportsPreview() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.previewVisible
}

func (s *Session) setPreview(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.previewVisible = visible
}

// Status returns the save status.
func (s *Session) Status() Status {
	return s.status.Status()
}

// OnStatusChange registers a save-status subscriber.
func (s *Session) OnStatusChange(fn func(Status)) {
	s.status.OnChange(fn)
}

// WaitSettled blocks until the save status leaves saving.
func (s *Session) WaitSettled(ctx context.Context) error {
	return s.status.Wait(ctx)
}

// Export hands the active note's raw content to the downloader and returns
// the file name used.
func (s *Session) Export(ctx context.Context) (string, error) {
	n, err := s.active()
	if err != nil {
		return "", err
	}
	return s.ExportNote(ctx, n.ID)
}

// ExportNote exports the note with the given id.
func (s *Session) ExportNote(ctx context.Context, id string) (string, error) {
	if s.downloader == nil {
		return "", ErrNoDownloader
	}
	n, ok := s.repo.Get(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", core.ErrNoteNotFound, id)
	}
	name := export.Filename(n)
	if err := s.downloader.Download(ctx, name, n.Content); err != nil {
		return "", err
	}
	return name, nil
}

// Repository returns the underlying repository.
func (s *Session) Repository() *notes.Repository {
	return s.repo
}

// Pipeline returns the content pipeline.
func (s *Session) Pipeline() *content.Pipeline {
	return s.pipeline
}

// Editor returns the rich editor.
func (s *Session) Editor() *content.RichEditor {
	return s.editor
}

// Close stops pending status timers.
func (s *Session) Close() {
	s.status.Stop()
	s.editor.Close()
}
