package assistant

import (
	"context"
	"testing"
	"time"

	"github.com/calendarplan/calendarplan/internal/event_bus"
	"github.com/calendarplan/calendarplan/internal/utils"
	"github.com/calendarplan/calendarplan/pkg/blobstore"
	"github.com/calendarplan/calendarplan/pkg/calendar"
	"github.com/stretchr/testify/require"
)

// Monday
var testNow = time.Date(2025, 4, 21, 9, 30, 0, 0, time.Local)

var testCoercer = calendar.NewCoercer(utils.NewMockClock(testNow))

type fixture struct {
	blobs *blobstore.MemoryStore
	store *calendar.Store
	view  *calendar.Projection
}

func setupFixture(t *testing.T, seed ...calendar.Event) fixture {
	t.Helper()
	blobs := blobstore.NewMemoryStore()
	store := calendar.NewStore(blobs, "CalendarEvents", "events", testCoercer, event_bus.NewEventBus())
	if len(seed) > 0 {
		require.NoError(t, store.Save(context.Background(), "seed", seed))
	}
	view := calendar.NewProjection(context.Background(), "assistant", store, 0)
	t.Cleanup(view.Close)
	return fixture{blobs: blobs, store: store, view: view}
}

func (f fixture) persisted(t *testing.T) []calendar.Event {
	t.Helper()
	events, err := f.store.Load(context.Background())
	require.NoError(t, err)
	return events
}

func at(day, hour, minute int) time.Time {
	return time.Date(2025, 4, day, hour, minute, 0, 0, time.Local)
}

func eventIds(events []calendar.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

const meetingReply = "Sure thing!\n```json\n" + `{
  "response": "I've added your meeting with John to your calendar for tomorrow at 2:00 PM.",
  "action": "ADD_EVENT",
  "eventData": {
    "id": null,
    "title": "Meeting with John",
    "description": "Discuss project updates",
    "startTime": "2025-04-22 14:00",
    "endTime": "2025-04-22 15:00",
    "location": "Office",
    "priority": "MEDIUM"
  }
}` + "\n```"
