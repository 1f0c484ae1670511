package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notey/pkg/adapters/memory"
	"github.com/aretw0/notey/pkg/core"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	_, err := store.Get(ctx, "notes")
	assert.True(t, errors.Is(err, core.ErrKeyNotFound))

	value := []byte("abc")
	require.NoError(t, store.Set(ctx, "notes", value))
	value[0] = 'z' // the store keeps its own copy

	got, err := store.Get(ctx, "notes")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
	assert.Equal(t, 1, store.Writes())

	require.NoError(t, store.Delete(ctx, "notes"))
	_, err = store.Get(ctx, "notes")
	assert.True(t, errors.Is(err, core.ErrKeyNotFound))
}

func TestFailureInjection(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	quota := errors.New("quota exceeded")

	store.FailWrites(quota)
	assert.ErrorIs(t, store.Set(ctx, "notes", []byte("x")), quota)
	assert.Equal(t, 0, store.Writes())

	store.FailWrites(nil)
	require.NoError(t, store.Set(ctx, "notes", []byte("x")))

	store.FailReads(quota)
	_, err := store.Get(ctx, "notes")
	assert.ErrorIs(t, err, quota)
}
