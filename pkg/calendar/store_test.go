package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/calendarplan/calendarplan/internal/event_bus"
	"github.com/calendarplan/calendarplan/internal/utils"
	"github.com/calendarplan/calendarplan/pkg/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 4, 21, 9, 30, 0, 0, time.Local)

func setupStore(t *testing.T) (*Store, *blobstore.MemoryStore, *event_bus.EventBus) {
	t.Helper()
	blobs := blobstore.NewMemoryStore()
	bus := event_bus.NewEventBus()
	store := NewStore(blobs, "CalendarEvents", "events", NewCoercer(utils.NewMockClock(testNow)), bus)
	return store, blobs, bus
}

func TestStore_LoadMissingBlob(t *testing.T) {
	store, _, _ := setupStore(t)

	events, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestStore_RoundTrip(t *testing.T) {
	store, _, _ := setupStore(t)
	ctx := context.Background()
	start := time.Date(2025, 4, 22, 14, 0, 42, 500, time.Local)
	saved := Event{
		ID:          "evt-1",
		Title:       "Meeting with John",
		Description: "Discuss project updates",
		Location:    "Office",
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
		Priority:    PriorityHigh,
		IsCompleted: true,
	}

	require.NoError(t, store.Save(ctx, "test", []Event{saved}))
	events, err := store.Load(ctx)

	require.NoError(t, err)
	require.Len(t, events, 1)
	got := events[0]
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, saved.Title, got.Title)
	assert.Equal(t, saved.Priority, got.Priority)
	assert.Equal(t, saved.Description, got.Description)
	assert.Equal(t, saved.Location, got.Location)
	assert.True(t, got.IsCompleted)
	assert.True(t, start.Truncate(time.Minute).Equal(got.StartTime), "start %v", got.StartTime)
	assert.True(t, start.Add(time.Hour).Truncate(time.Minute).Equal(got.EndTime), "end %v", got.EndTime)
}

func TestStore_SaveSkipsBlankIds(t *testing.T) {
	store, _, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "test", []Event{
		{ID: "", Title: "No id", StartTime: testNow},
		{ID: "a", Title: "Has id", StartTime: testNow},
	}))
	events, err := store.Load(ctx)

	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "a", events[0].ID)
}

func TestStore_LoadCoercesWrongTypedFields(t *testing.T) {
	store, blobs, _ := setupStore(t)
	ctx := context.Background()
	blob := `[
		{"id":5,"title":"Numeric id","startTime":"2025-04-21 10:00","isCompleted":"true"},
		{"id":"6","title":["not","text"],"location":42,"startTime":"2025-04-21 12:00","isCompleted":"yes"},
		{"id":"7","title":"Real bool","startTime":"2025-04-21 14:00","isCompleted":true,"priority":null}
	]`
	require.NoError(t, blobs.Put(ctx, "CalendarEvents", "events", blob))

	events, err := store.Load(ctx)

	require.NoError(t, err)
	require.Equal(t, []string{"5", "6", "7"}, ids(events))
	assert.Equal(t, "Numeric id", events[0].Title)
	assert.True(t, events[0].IsCompleted)
	assert.Equal(t, UntitledTitle, events[1].Title)
	assert.Equal(t, "42", events[1].Location)
	assert.False(t, events[1].IsCompleted)
	assert.True(t, events[2].IsCompleted)
	assert.Equal(t, PriorityMedium, events[2].Priority)
}

func TestStore_LoadToleratesBadRecords(t *testing.T) {
	store, blobs, _ := setupStore(t)
	ctx := context.Background()
	blob := `[
		{"id":"1","title":"Team Meeting","startTime":"2025-04-21T10:00:00","endTime":"2025-04-21T11:00","priority":"HIGH"},
		{"id":"","title":"blank id"},
		{"id":null,"title":"null id"},
		"not an object",
		{"id":"4","title":"","startTime":"garbage","endTime":"","priority":"URGENT"}
	]`
	require.NoError(t, blobs.Put(ctx, "CalendarEvents", "events", blob))

	events, err := store.Load(ctx)

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "1", events[0].ID)
	assert.Equal(t, PriorityHigh, events[0].Priority)
	assert.True(t, time.Date(2025, 4, 21, 10, 0, 0, 0, time.Local).Equal(events[0].StartTime))
	assert.True(t, time.Date(2025, 4, 21, 11, 0, 0, 0, time.Local).Equal(events[0].EndTime))

	assert.Equal(t, "4", events[1].ID)
	assert.Equal(t, UntitledTitle, events[1].Title)
	assert.Equal(t, PriorityMedium, events[1].Priority)
	assert.True(t, testNow.Equal(events[1].StartTime))
	assert.True(t, testNow.Add(time.Hour).Equal(events[1].EndTime))
}

func TestStore_LoadCorruptBlob(t *testing.T) {
	store, blobs, _ := setupStore(t)
	require.NoError(t, blobs.Put(context.Background(), "CalendarEvents", "events", `{"id":"1"}`))

	_, err := store.Load(context.Background())

	assert.ErrorIs(t, err, ErrCorruptBlob)
}

func TestStore_SavePublishesAfterWrite(t *testing.T) {
	store, _, bus := setupStore(t)
	ctx := context.Background()
	var seenDuringNotification []Event
	var notice event_bus.EventsChanged
	event_bus.SubscribeTyped(bus, event_bus.EventsChangedType, func(e event_bus.EventT[event_bus.EventsChanged]) error {
		notice = e.Data
		var err error
		seenDuringNotification, err = store.Load(e.Context())
		return err
	})

	require.NoError(t, store.Save(ctx, "assistant", []Event{{ID: "a", Title: "A", StartTime: testNow}}))

	assert.Equal(t, event_bus.EventsChanged{Origin: "assistant", Count: 1}, notice)
	require.Len(t, seenDuringNotification, 1)
	assert.Equal(t, "a", seenDuringNotification[0].ID)
}

func TestStore_SaveFailureDoesNotNotify(t *testing.T) {
	store, blobs, bus := setupStore(t)
	notified := false
	bus.Subscribe(event_bus.EventsChangedType, func(e event_bus.Event) error {
		notified = true
		return nil
	})
	blobs.FailWrites(errors.New("read-only"))

	err := store.Save(context.Background(), "timeline", []Event{{ID: "a", Title: "A", StartTime: testNow}})

	assert.Error(t, err)
	assert.False(t, notified)
}
