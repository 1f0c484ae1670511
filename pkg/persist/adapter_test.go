package persist_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notey/pkg/adapters/memory"
	"github.com/aretw0/notey/pkg/core"
	"github.com/aretw0/notey/pkg/persist"
)

func sampleNotes() []core.Note {
	return []core.Note{
		{ID: "a", Title: "Ünïcödé ✓", Content: "# 見出し\n\n<b>raw</b> & \"quotes\"\ttab\n", DocType: core.DocTypeMarkdown, LastModified: 1700000000123},
		{ID: "b", Title: "", Content: "", DocType: core.DocTypeText, LastModified: 1},
		{ID: "c", Title: "yes", Content: "**bold** text\n  trailing  \n", DocType: core.DocTypeFormatted, LastModified: 42},
		{ID: "d", Title: "emoji", Content: "👩‍💻 \u0000 nul and   separator", DocType: core.DocTypeText, LastModified: 7},
	}
}

func TestRoundTripIsLossless(t *testing.T) {
	codecs := []persist.Codec{persist.NewJSONCodec(true), persist.NewJSONCodec(false), persist.NewYAMLCodec()}

	for _, codec := range codecs {
		t.Run(codec.Name(), func(t *testing.T) {
			ctx := context.Background()
			store := memory.NewStore()
			adapter := persist.NewAdapter[[]core.Note](store, codec, nil)

			want := sampleNotes()
			if codec.Name() == "yaml" {
				// YAML cannot carry a raw NUL byte.
				want[3].Content = "👩‍💻 and   separator"
			}

			require.True(t, adapter.Save(ctx, persist.NotesKey, want))
			got := adapter.Load(ctx, persist.NotesKey, nil)
			assert.Equal(t, want, got)
		})
	}
}

func TestLoadFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	def := []core.Note{}

	t.Run("Missing Key", func(t *testing.T) {
		adapter := persist.NewAdapter[[]core.Note](memory.NewStore(), nil, nil)
		got := adapter.Load(ctx, persist.NotesKey, def)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("Corrupt Value", func(t *testing.T) {
		store := memory.NewStore()
		require.NoError(t, store.Set(ctx, persist.NotesKey, []byte("{not json")))

		adapter := persist.NewAdapter[[]core.Note](store, nil, nil)
		got := adapter.Load(ctx, persist.NotesKey, def)
		assert.Empty(t, got)
	})

	t.Run("Wrong Shape", func(t *testing.T) {
		store := memory.NewStore()
		require.NoError(t, store.Set(ctx, persist.NotesKey, []byte(`{"id":"x"}`)))

		adapter := persist.NewAdapter[[]core.Note](store, nil, nil)
		assert.Empty(t, adapter.Load(ctx, persist.NotesKey, def))
	})

	t.Run("Read Failure", func(t *testing.T) {
		store := memory.NewStore()
		store.FailReads(errors.New("denied"))

		adapter := persist.NewAdapter[[]core.Note](store, nil, nil)
		assert.Empty(t, adapter.Load(ctx, persist.NotesKey, def))
	})
}

func TestSaveSwallowsWriteFailures(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	quota := errors.New("quota exceeded")
	store.FailWrites(quota)

	adapter := persist.NewAdapter[[]core.Note](store, nil, nil)
	ok := adapter.Save(ctx, persist.NotesKey, sampleNotes())

	assert.False(t, ok)
	assert.ErrorIs(t, adapter.LastError(), quota)

	store.FailWrites(nil)
	assert.True(t, adapter.Save(ctx, persist.NotesKey, sampleNotes()))
	assert.NoError(t, adapter.LastError())
}

func TestCodecFor(t *testing.T) {
	for _, name := range []string{"", "json", "JSON", "yaml", "yml"} {
		c, err := persist.CodecFor(name)
		require.NoError(t, err, name)
		assert.NotNil(t, c)
	}
	_, err := persist.CodecFor("toml")
	assert.Error(t, err)
}
