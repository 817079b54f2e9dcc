package blobstore

import (
	"context"
	"errors"
	"testing"

	"github.com/calendarplan/calendarplan/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("missing key reports ErrNotFound", func(t *testing.T) {
		_, err := store.Get(ctx, "CalendarEvents", "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("put then get returns value", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "CalendarEvents", "events", `[{"id":"1"}]`))

		got, err := store.Get(ctx, "CalendarEvents", "events")
		require.NoError(t, err)
		assert.Equal(t, `[{"id":"1"}]`, got)
	})

	t.Run("put overwrites previous value", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "CalendarEvents", "events", "[]"))

		got, err := store.Get(ctx, "CalendarEvents", "events")
		require.NoError(t, err)
		assert.Equal(t, "[]", got)
	})

	t.Run("namespaces are isolated", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "Other", "events", "other"))

		got, err := store.Get(ctx, "CalendarEvents", "events")
		require.NoError(t, err)
		assert.Equal(t, "[]", got)
	})
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStore_FailWrites(t *testing.T) {
	store := NewMemoryStore()
	boom := errors.New("disk full")
	store.FailWrites(boom)

	err := store.Put(context.Background(), "CalendarEvents", "events", "[]")
	assert.ErrorIs(t, err, boom)

	store.FailWrites(nil)
	assert.NoError(t, store.Put(context.Background(), "CalendarEvents", "events", "[]"))
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewMemoryStore().Put(ctx, "CalendarEvents", "events", "[]")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSQLStore(t *testing.T) {
	exerciseStore(t, NewSQLStore(test_utils.SetupTestDB(t)))
}

func TestPostgresStore(t *testing.T) {
	exerciseStore(t, NewPostgresStore(test_utils.SetupPostgres(t)))
}
