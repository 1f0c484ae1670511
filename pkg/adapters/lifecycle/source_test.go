package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notey/pkg/core"
)

func TestSource(t *testing.T) {
	t.Run("Forwards Store Events", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		in := make(chan core.Event, 2)
		src := NewSource(in)
		require.NoError(t, src.Start(ctx))

		in <- core.Event{Type: core.EventModify, Key: "notes"}
		close(in)

		select {
		case ev := <-src.Events():
			e, ok := ev.(core.Event)
			require.True(t, ok)
			assert.Equal(t, "notes", e.Key)
			assert.Equal(t, core.EventModify, e.Type)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for event")
		}

		_, open := <-src.Events()
		assert.False(t, open, "output should close with the input")
	})

	t.Run("Filters By Type", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		in := make(chan core.Event, 2)
		src := NewSource(in, core.EventModify)
		require.NoError(t, src.Start(ctx))

		in <- core.Event{Type: core.EventDelete, Key: "notes"}
		in <- core.Event{Type: core.EventModify, Key: "notes"}
		close(in)

		var got []core.EventType
		for ev := range src.Events() {
			got = append(got, ev.(core.Event).Type)
		}
		assert.Equal(t, []core.EventType{core.EventModify}, got)
	})

	t.Run("Stops On Cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		in := make(chan core.Event)
		src := NewSource(in)
		require.NoError(t, src.Start(ctx))
		cancel()

		select {
		case _, open := <-src.Events():
			assert.False(t, open)
		case <-time.After(2 * time.Second):
			t.Fatal("source did not stop")
		}
	})
}
