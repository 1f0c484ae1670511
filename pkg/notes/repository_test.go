package notes_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notey/pkg/adapters/memory"
	"github.com/aretw0/notey/pkg/core"
	"github.com/aretw0/notey/pkg/notes"
	"github.com/aretw0/notey/pkg/persist"
)

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func sequentialIDs() core.IDGenerator {
	var mu sync.Mutex
	n := 0
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("note-%d", n), nil
	}
}

type fixture struct {
	store *memory.Store
	clock *fakeClock
	repo  *notes.Repository
}

func setupRepo(t *testing.T, seed []core.Note) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	if seed != nil {
		adapter := persist.NewAdapter[[]core.Note](store, nil, nil)
		require.True(t, adapter.Save(ctx, persist.NotesKey, seed))
	}

	clock := newFakeClock()
	repo := notes.NewRepository(
		persist.NewAdapter[[]core.Note](store, nil, nil),
		notes.WithClock(clock.Now),
		notes.WithIDGenerator(sequentialIDs()),
	)
	repo.Load(ctx)
	return &fixture{store: store, clock: clock, repo: repo}
}

func stored(t *testing.T, store core.Store) []core.Note {
	t.Helper()
	adapter := persist.NewAdapter[[]core.Note](store, nil, nil)
	return adapter.Load(context.Background(), persist.NotesKey, nil)
}

func TestLoad(t *testing.T) {
	t.Run("Empty Store Bootstraps Welcome Note", func(t *testing.T) {
		f := setupRepo(t, nil)

		list := f.repo.ListNotes()
		require.Len(t, list, 1)
		welcome := list[0]
		assert.Equal(t, notes.WelcomeTitle, welcome.Title)
		assert.Equal(t, notes.WelcomeContent, welcome.Content)
		assert.Equal(t, core.DocTypeMarkdown, welcome.DocType)
		assert.Equal(t, welcome.ID, f.repo.ActiveID())

		persisted := stored(t, f.store)
		require.Len(t, persisted, 1)
		assert.Equal(t, welcome, persisted[0])
	})

	t.Run("Existing Collection Selects Most Recent", func(t *testing.T) {
		f := setupRepo(t, []core.Note{
			{ID: "a", Title: "A", DocType: core.DocTypeText, LastModified: 10},
			{ID: "b", Title: "B", DocType: core.DocTypeMarkdown, LastModified: 30},
			{ID: "c", Title: "C", DocType: core.DocTypeFormatted, LastModified: 20},
		})

		assert.Equal(t, "b", f.repo.ActiveID())
		assert.Equal(t, 3, f.repo.Len())
	})

	t.Run("Load Runs Once", func(t *testing.T) {
		f := setupRepo(t, nil)
		require.True(t, f.repo.DeleteNote(context.Background(), f.repo.ActiveID()))

		assert.False(t, f.repo.Load(context.Background()))
		assert.Empty(t, f.repo.ListNotes())
	})

	t.Run("Corrupt Store Bootstraps", func(t *testing.T) {
		ctx := context.Background()
		store := memory.NewStore()
		require.NoError(t, store.Set(ctx, persist.NotesKey, []byte("{not json")))

		repo := notes.NewRepository(persist.NewAdapter[[]core.Note](store, nil, nil))
		assert.True(t, repo.Load(ctx))
		require.Equal(t, 1, repo.Len())
	})

	t.Run("Repairs Stored Records", func(t *testing.T) {
		f := setupRepo(t, []core.Note{
			{ID: "a", Title: "A", DocType: "rtf", LastModified: 10},
			{ID: "a", Title: "dup", DocType: core.DocTypeText, LastModified: 50},
			{ID: "", Title: "no id", DocType: core.DocTypeMarkdown, LastModified: 5},
		})

		snap := f.repo.Snapshot()
		require.Len(t, snap, 2)
		assert.Equal(t, "A", snap[0].Title)
		assert.Equal(t, core.DocTypeText, snap[0].DocType)
		assert.Equal(t, "no id", snap[1].Title)
		assert.NotEmpty(t, snap[1].ID)
	})
}

func TestCreateNote(t *testing.T) {
	ctx := context.Background()

	t.Run("Inserts Empty Note At Head And Selects It", func(t *testing.T) {
		f := setupRepo(t, nil)
		f.clock.Advance(time.Second)

		n, err := f.repo.CreateNote(ctx, core.DocTypeText)
		require.NoError(t, err)

		assert.Equal(t, notes.DefaultTitle, n.Title)
		assert.Empty(t, n.Content)
		assert.Equal(t, core.DocTypeText, n.DocType)
		assert.Equal(t, core.Millis(f.clock.Now()), n.LastModified)
		assert.Equal(t, n.ID, f.repo.ActiveID())

		snap := f.repo.Snapshot()
		require.Len(t, snap, 2)
		assert.Equal(t, n.ID, snap[0].ID)
		assert.Equal(t, snap, stored(t, f.store))
	})

	t.Run("Same Millisecond Creations List Newest First", func(t *testing.T) {
		f := setupRepo(t, nil)

		first, err := f.repo.CreateNote(ctx, core.DocTypeMarkdown)
		require.NoError(t, err)
		second, err := f.repo.CreateNote(ctx, core.DocTypeMarkdown)
		require.NoError(t, err)

		list := f.repo.ListNotes()
		assert.Equal(t, second.ID, list[0].ID)
		assert.Equal(t, first.ID, list[1].ID)
	})

	t.Run("Clock Stepping Back Still Lists First", func(t *testing.T) {
		f := setupRepo(t, nil)
		welcome := f.repo.ListNotes()[0]
		f.clock.Advance(-time.Hour)

		n, err := f.repo.CreateNote(ctx, core.DocTypeText)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, n.LastModified, welcome.LastModified)
		list := f.repo.ListNotes()
		assert.Equal(t, n.ID, list[0].ID)
	})

	t.Run("Ids Stay Unique On Collision", func(t *testing.T) {
		store := memory.NewStore()
		calls := 0
		gen := func() (string, error) {
			calls++
			if calls <= 2 {
				return "same", nil
			}
			return fmt.Sprintf("id-%d", calls), nil
		}
		repo := notes.NewRepository(persist.NewAdapter[[]core.Note](store, nil, nil), notes.WithIDGenerator(gen))
		repo.Load(ctx)

		n, err := repo.CreateNote(ctx, core.DocTypeText)
		require.NoError(t, err)
		assert.NotEqual(t, "same", n.ID)
	})

	t.Run("Rejects Unknown Doc Type", func(t *testing.T) {
		f := setupRepo(t, nil)
		_, err := f.repo.CreateNote(ctx, core.DocType("pdf"))
		require.ErrorIs(t, err, core.ErrUnknownDocType)
		assert.Equal(t, 1, f.repo.Len())
	})

	t.Run("Id Generator Failure", func(t *testing.T) {
		boom := errors.New("entropy exhausted")
		repo := notes.NewRepository(
			persist.NewAdapter[[]core.Note](memory.NewStore(), nil, nil),
			notes.WithIDGenerator(func() (string, error) { return "", boom }),
		)
		repo.Load(ctx)

		_, err := repo.CreateNote(ctx, core.DocTypeText)
		require.ErrorIs(t, err, boom)
		assert.Equal(t, 0, repo.Len())
	})
}

func TestUpdateNote(t *testing.T) {
	ctx := context.Background()

	t.Run("Merges Patch And Stamps Time", func(t *testing.T) {
		f := setupRepo(t, nil)
		id := f.repo.ActiveID()
		f.clock.Advance(5 * time.Second)

		require.True(t, f.repo.UpdateNote(ctx, id, core.SetContent("Hello")))

		n, ok := f.repo.Get(id)
		require.True(t, ok)
		assert.Equal(t, "Hello", n.Content)
		assert.Equal(t, notes.WelcomeTitle, n.Title)
		assert.Equal(t, core.Millis(f.clock.Now()), n.LastModified)
		assert.Equal(t, n, stored(t, f.store)[0])
	})

	t.Run("Updated Note Moves To Top", func(t *testing.T) {
		f := setupRepo(t, []core.Note{
			{ID: "a", Title: "A", DocType: core.DocTypeText, LastModified: 10},
			{ID: "b", Title: "B", DocType: core.DocTypeText, LastModified: 20},
		})
		f.clock.Set(time.UnixMilli(100))

		require.True(t, f.repo.UpdateNote(ctx, "a", core.SetTitle("A2")))
		assert.Equal(t, "a", f.repo.ListNotes()[0].ID)
	})

	t.Run("Clock Going Backwards Never Lowers Timestamp", func(t *testing.T) {
		f := setupRepo(t, []core.Note{
			{ID: "a", Title: "A", DocType: core.DocTypeText, LastModified: 5_000},
		})
		f.clock.Set(time.UnixMilli(1_000))

		require.True(t, f.repo.UpdateNote(ctx, "a", core.SetContent("x")))
		n, _ := f.repo.Get("a")
		assert.Equal(t, int64(5_000), n.LastModified)
	})

	t.Run("Unknown Id Is No-Op", func(t *testing.T) {
		f := setupRepo(t, nil)
		before := f.repo.Snapshot()
		writes := f.store.Writes()

		assert.False(t, f.repo.UpdateNote(ctx, "missing", core.SetTitle("x")))
		assert.Equal(t, before, f.repo.Snapshot())
		assert.Equal(t, writes, f.store.Writes())
	})

	t.Run("Doc Type Change Keeps Content", func(t *testing.T) {
		f := setupRepo(t, nil)
		id := f.repo.ActiveID()

		require.True(t, f.repo.UpdateNote(ctx, id, core.SetDocType(core.DocTypeText)))
		n, _ := f.repo.Get(id)
		assert.Equal(t, core.DocTypeText, n.DocType)
		assert.Equal(t, notes.WelcomeContent, n.Content)
	})

	t.Run("Invalid Doc Type Rejected", func(t *testing.T) {
		f := setupRepo(t, nil)
		id := f.repo.ActiveID()
		assert.False(t, f.repo.UpdateNote(ctx, id, core.SetDocType("odt")))
	})
}

func TestDeleteNote(t *testing.T) {
	ctx := context.Background()

	t.Run("Deleting Last Note Clears Selection", func(t *testing.T) {
		f := setupRepo(t, nil)
		require.True(t, f.repo.DeleteNote(ctx, f.repo.ActiveID()))

		assert.Empty(t, f.repo.ListNotes())
		assert.Empty(t, f.repo.ActiveID())
		_, ok := f.repo.ActiveNote()
		assert.False(t, ok)
		assert.Empty(t, stored(t, f.store))
	})

	t.Run("Deleting Active Selects Most Recent Remaining", func(t *testing.T) {
		f := setupRepo(t, []core.Note{
			{ID: "a", DocType: core.DocTypeText, LastModified: 10},
			{ID: "b", DocType: core.DocTypeText, LastModified: 30},
			{ID: "c", DocType: core.DocTypeText, LastModified: 20},
		})
		require.Equal(t, "b", f.repo.ActiveID())

		require.True(t, f.repo.DeleteNote(ctx, "b"))
		assert.Equal(t, "c", f.repo.ActiveID())
	})

	t.Run("Deleting Inactive Keeps Selection", func(t *testing.T) {
		f := setupRepo(t, []core.Note{
			{ID: "a", DocType: core.DocTypeText, LastModified: 10},
			{ID: "b", DocType: core.DocTypeText, LastModified: 30},
		})
		require.True(t, f.repo.DeleteNote(ctx, "a"))
		assert.Equal(t, "b", f.repo.ActiveID())
		assert.Equal(t, 1, f.repo.Len())
	})

	t.Run("Unknown Id", func(t *testing.T) {
		f := setupRepo(t, nil)
		assert.False(t, f.repo.DeleteNote(ctx, "missing"))
		assert.Equal(t, 1, f.repo.Len())
	})
}

func TestSelectNote(t *testing.T) {
	f := setupRepo(t, []core.Note{
		{ID: "a", DocType: core.DocTypeText, LastModified: 10},
		{ID: "b", DocType: core.DocTypeText, LastModified: 30},
	})
	writes := f.store.Writes()

	t.Run("Known Id", func(t *testing.T) {
		assert.True(t, f.repo.SelectNote("a"))
		assert.Equal(t, "a", f.repo.ActiveID())
	})

	t.Run("Unknown Id Ignored", func(t *testing.T) {
		assert.False(t, f.repo.SelectNote("zzz"))
		assert.Equal(t, "a", f.repo.ActiveID())
	})

	t.Run("Empty Clears", func(t *testing.T) {
		assert.True(t, f.repo.SelectNote(""))
		assert.Empty(t, f.repo.ActiveID())
	})

	t.Run("Selection Does Not Persist Or Stamp", func(t *testing.T) {
		assert.Equal(t, writes, f.store.Writes())
		n, _ := f.repo.Get("a")
		assert.Equal(t, int64(10), n.LastModified)
	})
}

func TestSaveFailure(t *testing.T) {
	ctx := context.Background()
	f := setupRepo(t, nil)
	f.store.FailWrites(errors.New("quota exceeded"))

	n, err := f.repo.CreateNote(ctx, core.DocTypeMarkdown)
	require.NoError(t, err)

	assert.False(t, f.repo.LastSaveOK())
	assert.Equal(t, 2, f.repo.Len(), "in-memory state stays authoritative")
	assert.Equal(t, n.ID, f.repo.ActiveID())

	f.store.FailWrites(nil)
	require.True(t, f.repo.UpdateNote(ctx, n.ID, core.SetTitle("recovered")))
	assert.True(t, f.repo.LastSaveOK())
	assert.Len(t, stored(t, f.store), 2)
}

func TestReloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := setupRepo(t, nil)

	_, err := f.repo.CreateNote(ctx, core.DocTypeFormatted)
	require.NoError(t, err)
	require.True(t, f.repo.UpdateNote(ctx, f.repo.ActiveID(), core.SetContent("<p><strong>bold</strong></p>")))

	reloaded := notes.NewRepository(persist.NewAdapter[[]core.Note](f.store, nil, nil))
	assert.False(t, reloaded.Load(ctx))
	assert.Equal(t, f.repo.Snapshot(), reloaded.Snapshot())
}

func TestState(t *testing.T) {
	f := setupRepo(t, nil)
	state, ok := f.repo.State().(notes.RepositoryState)
	require.True(t, ok)
	assert.Equal(t, 1, state.Notes)
	assert.True(t, state.Loaded)
	assert.Equal(t, 1, state.Saves)
	assert.Equal(t, "json", state.Codec)
	assert.Equal(t, "repository", f.repo.ComponentType())
}
