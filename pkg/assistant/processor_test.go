package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/calendarplan/calendarplan/pkg/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedID(id string) *Processor {
	return &Processor{newID: func() string { return id }}
}

var teamMeeting = calendar.Event{ID: "team", Title: "Team Meeting", StartTime: at(21, 10, 0), EndTime: at(21, 11, 0), Priority: calendar.PriorityHigh}

func TestProcessor_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("should append and persist a ready event", func(t *testing.T) {
		f := setupFixture(t, teamMeeting)
		action := NewParser(nil, testCoercer).Parse(meetingReply, f.view.Events())
		require.True(t, action.ReadyForCommit)

		out, err := fixedID("new-1").Apply(ctx, action, f.view)

		require.NoError(t, err)
		assert.True(t, out.Changed)
		assert.Equal(t, []string{"team", "new-1"}, eventIds(out.Events))
		assert.Equal(t, []string{"team", "new-1"}, eventIds(f.view.Events()))
		assert.Equal(t, []string{"team", "new-1"}, eventIds(f.persisted(t)))
		added := f.persisted(t)[1]
		assert.Equal(t, "Meeting with John", added.Title)
		assert.Equal(t, calendar.PriorityMedium, added.Priority)
		assert.True(t, added.StartTime.Add(calendar.DefaultDuration).Equal(added.EndTime))
		assert.Empty(t, out.Confirmation, "narrative already says added")
	})

	t.Run("should synthesize a confirmation when the narrative lacks one", func(t *testing.T) {
		f := setupFixture(t)
		action := ParsedAction{
			Narrative:      "Okay, booked.",
			Kind:           KindAdd,
			Event:          &calendar.Event{Title: "Meeting with John", StartTime: at(22, 14, 0), EndTime: at(22, 15, 0)},
			ReadyForCommit: true,
		}

		out, err := fixedID("new-1").Apply(ctx, action, f.view)

		require.NoError(t, err)
		assert.Equal(t, "I've added 'Meeting with John' to your calendar for Tuesday, April 22 at 2:00 PM.", out.Confirmation)
	})

	t.Run("should keep an id supplied by the reply", func(t *testing.T) {
		f := setupFixture(t)
		action := ParsedAction{
			Narrative:      "Created it",
			Kind:           KindAdd,
			Event:          &calendar.Event{ID: "given", Title: "Gym", StartTime: at(22, 18, 0), EndTime: at(22, 19, 0)},
			ReadyForCommit: true,
		}

		out, err := fixedID("unused").Apply(ctx, action, f.view)

		require.NoError(t, err)
		assert.Equal(t, []string{"given"}, eventIds(out.Events))
	})

	t.Run("should not commit an event that is not ready", func(t *testing.T) {
		f := setupFixture(t, teamMeeting)
		action := ParsedAction{
			Narrative: "What time should it start?",
			Kind:      KindAdd,
			Event:     &calendar.Event{Title: "Dentist", StartTime: testNow},
		}

		out, err := NewProcessor().Apply(ctx, action, f.view)

		require.NoError(t, err)
		assert.False(t, out.Changed)
		assert.Empty(t, out.Confirmation)
		assert.Equal(t, []string{"team"}, eventIds(f.persisted(t)))
	})

	t.Run("should keep the new event in memory when the store fails", func(t *testing.T) {
		f := setupFixture(t)
		f.blobs.FailWrites(errors.New("disk full"))
		action := ParsedAction{
			Narrative:      "Added",
			Kind:           KindAdd,
			Event:          &calendar.Event{Title: "Gym", StartTime: at(22, 18, 0), EndTime: at(22, 19, 0)},
			ReadyForCommit: true,
		}

		out, err := fixedID("new-1").Apply(ctx, action, f.view)

		assert.Error(t, err)
		assert.True(t, out.Changed)
		assert.Equal(t, []string{"new-1"}, eventIds(f.view.Events()))
		assert.Empty(t, f.persisted(t))
	})
}

func TestProcessor_AddWithExistingIdGetsFreshId(t *testing.T) {
	f := setupFixture(t, teamMeeting)
	reply := `{"response": "Added the retro.", "action": "ADD_EVENT", "eventData": {"id": "team", "title": "Retro", "startTime": "2025-04-22 16:00", "endTime": "2025-04-22 17:00"}}`
	action := NewParser(nil, testCoercer).Parse(reply, f.view.Events())
	require.True(t, action.ReadyForCommit)

	out, err := fixedID("new-1").Apply(context.Background(), action, f.view)

	require.NoError(t, err)
	assert.True(t, out.Changed)
	assert.Equal(t, []string{"team", "new-1"}, eventIds(f.persisted(t)))
	kept, ok := calendar.Find(f.persisted(t), "team")
	require.True(t, ok)
	assert.Equal(t, "Team Meeting", kept.Title)
	added, ok := calendar.Find(f.persisted(t), "new-1")
	require.True(t, ok)
	assert.Equal(t, "Retro", added.Title)
}

func TestProcessor_Edit(t *testing.T) {
	ctx := context.Background()

	t.Run("should replace the matching event", func(t *testing.T) {
		f := setupFixture(t, teamMeeting)
		edited := teamMeeting
		edited.Title = "Team Sync"
		edited.StartTime, edited.EndTime = at(21, 15, 0), at(21, 16, 0)

		out, err := NewProcessor().Apply(ctx, ParsedAction{Narrative: "Done", Kind: KindEdit, Event: &edited}, f.view)

		require.NoError(t, err)
		assert.True(t, out.Changed)
		assert.False(t, out.Missing)
		assert.Equal(t, "Event 'Team Sync' has been updated", out.Confirmation)
		persisted := f.persisted(t)
		require.Len(t, persisted, 1)
		assert.Equal(t, "Team Sync", persisted[0].Title)
		assert.True(t, at(21, 15, 0).Equal(persisted[0].StartTime))
	})

	t.Run("should not repeat a confirmation already in the narrative", func(t *testing.T) {
		f := setupFixture(t, teamMeeting)
		edited := teamMeeting

		out, err := NewProcessor().Apply(ctx, ParsedAction{Narrative: "I've updated it", Kind: KindEdit, Event: &edited}, f.view)

		require.NoError(t, err)
		assert.Empty(t, out.Confirmation)
	})

	t.Run("should leave the collection alone when the id is unknown", func(t *testing.T) {
		f := setupFixture(t, teamMeeting)
		ghost := calendar.Event{ID: "ghost", Title: "Ghost", StartTime: testNow}

		out, err := NewProcessor().Apply(ctx, ParsedAction{Narrative: "Done", Kind: KindEdit, Event: &ghost}, f.view)

		require.NoError(t, err)
		assert.False(t, out.Changed)
		assert.True(t, out.Missing)
		assert.Equal(t, []string{"team"}, eventIds(f.persisted(t)))
	})
}

func TestProcessor_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("should remove the event from view and store", func(t *testing.T) {
		f := setupFixture(t, teamMeeting)
		target := calendar.Event{ID: "team", Title: "whatever the model said"}

		out, err := NewProcessor().Apply(ctx, ParsedAction{Narrative: "Okay", Kind: KindDelete, Event: &target}, f.view)

		require.NoError(t, err)
		assert.True(t, out.Changed)
		assert.Equal(t, "Event 'Team Meeting' has been deleted from your calendar", out.Confirmation)
		assert.Empty(t, f.view.Events())
		assert.Empty(t, f.persisted(t))
	})

	t.Run("should find events only the store knows about", func(t *testing.T) {
		f := setupFixture(t, teamMeeting)
		// written behind the view's back: no notification, no reload
		require.NoError(t, f.blobs.Put(ctx, "CalendarEvents", "events",
			`[{"id":"team","title":"Team Meeting","startTime":"2025-04-21 10:00","endTime":"2025-04-21 11:00","priority":"HIGH"},
			  {"id":"other","title":"Other","startTime":"2025-04-21 16:00","endTime":"2025-04-21 17:00","priority":"LOW"}]`))
		target := calendar.Event{ID: "other"}

		out, err := NewProcessor().Apply(ctx, ParsedAction{Narrative: "I've removed it", Kind: KindDelete, Event: &target}, f.view)

		require.NoError(t, err)
		assert.True(t, out.Changed)
		assert.Empty(t, out.Confirmation)
		assert.Equal(t, []string{"team"}, eventIds(f.persisted(t)))
		assert.Equal(t, []string{"team"}, eventIds(f.view.Events()))
	})

	t.Run("should be a no-op for an id absent from both sources", func(t *testing.T) {
		f := setupFixture(t, teamMeeting)
		before := f.persisted(t)
		target := calendar.Event{ID: "ghost", Title: "Ghost"}
		action := ParsedAction{Narrative: "Okay", Kind: KindDelete, Event: &target}

		first, err := NewProcessor().Apply(ctx, action, f.view)
		require.NoError(t, err)
		second, err := NewProcessor().Apply(ctx, action, f.view)
		require.NoError(t, err)

		assert.True(t, first.Missing)
		assert.False(t, first.Changed)
		assert.Equal(t, "Event 'Ghost' has been deleted from your calendar", first.Confirmation)
		assert.Equal(t, first, second)
		assert.Equal(t, before, f.persisted(t))
	})
}

func TestProcessor_NonMutatingKinds(t *testing.T) {
	f := setupFixture(t, teamMeeting)
	for _, kind := range []ActionKind{KindShow, KindSummarize, KindNone} {
		t.Run(string(kind), func(t *testing.T) {
			out, err := NewProcessor().Apply(context.Background(), ParsedAction{Narrative: "Here you go", Kind: kind}, f.view)

			require.NoError(t, err)
			assert.False(t, out.Changed)
			assert.Empty(t, out.Confirmation)
			assert.Equal(t, []string{"team"}, eventIds(out.Events))
		})
	}
}
