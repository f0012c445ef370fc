package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiveChange(t *testing.T, ch <-chan Change) Change {
	t.Helper()
	select {
	case change, ok := <-ch:
		require.True(t, ok, "watch channel closed unexpectedly")
		return change
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for change")
	}
	return Change{}
}

// runStoreContract 所有驱动共同遵守的行为
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("get missing", func(t *testing.T) {
		store := newStore(t)
		_, ok, err := store.Get(context.Background(), "o1", "bb_cart")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("set then get returns verbatim value", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		require.NoError(t, store.Set(ctx, "o1", "bb_cart", `[{"id":"v60","quantity":1}]`, "tab-a"))
		require.NoError(t, store.Set(ctx, "o1", "bb_cart", `[]`, "tab-b"))

		got, ok, err := store.Get(ctx, "o1", "bb_cart")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, `[]`, got)
	})

	t.Run("origins are isolated", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		require.NoError(t, store.Set(ctx, "o1", "bb_visited", "true", "tab-a"))
		_, ok, err := store.Get(ctx, "o2", "bb_visited")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("blank origin or key rejected", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		assert.ErrorIs(t, store.Set(ctx, " ", "bb_cart", "[]", "t"), ErrOriginRequired)
		_, _, err := store.Get(ctx, "o1", "")
		assert.ErrorIs(t, err, ErrKeyRequired)
		_, err = store.Watch(ctx, "")
		assert.ErrorIs(t, err, ErrOriginRequired)
	})

	t.Run("watch sees every write of the origin with its writer", func(t *testing.T) {
		store := newStore(t)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := store.Watch(ctx, "o1")
		require.NoError(t, err)

		require.NoError(t, store.Set(context.Background(), "o2", "bb_cart", "[]", "tab-x"))
		require.NoError(t, store.Set(context.Background(), "o1", "bb_cart", "[]", "tab-a"))
		require.NoError(t, store.Remove(context.Background(), "o1", "bb_cart", "tab-b"))

		first := receiveChange(t, changes)
		assert.Equal(t, "o1", first.Origin)
		assert.Equal(t, "bb_cart", first.Key)
		assert.Equal(t, "tab-a", first.Writer)
		assert.False(t, first.At.IsZero())

		second := receiveChange(t, changes)
		assert.Equal(t, "tab-b", second.Writer)

		_, ok, err := store.Get(context.Background(), "o1", "bb_cart")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("watch closes when context ends", func(t *testing.T) {
		store := newStore(t)
		ctx, cancel := context.WithCancel(context.Background())
		changes, err := store.Watch(ctx, "o1")
		require.NoError(t, err)
		cancel()
		select {
		case _, ok := <-changes:
			assert.False(t, ok)
		case <-time.After(2 * time.Second):
			t.Fatalf("watch channel should close after cancel")
		}
	})

	t.Run("close ends watchers", func(t *testing.T) {
		store := newStore(t)
		changes, err := store.Watch(context.Background(), "o1")
		require.NoError(t, err)
		require.NoError(t, store.Close())
		select {
		case _, ok := <-changes:
			assert.False(t, ok)
		case <-time.After(2 * time.Second):
			t.Fatalf("watch channel should close after store close")
		}
		_, err = store.Watch(context.Background(), "o1")
		assert.ErrorIs(t, err, ErrClosed)
	})
}
