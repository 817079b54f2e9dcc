package app

import (
	"context"
	"time"

	"github.com/calendarplan/calendarplan/pkg/calendar"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// SeedSampleEvents writes two demo events for today when the store is empty.
func SeedSampleEvents(ctx context.Context, store *calendar.Store) error {
	existing, err := store.Load(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	now := store.Coercer().Now()
	today := func(hour, minute int) time.Time {
		return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	}
	samples := []calendar.Event{
		{
			ID:          uuid.NewString(),
			Title:       "Team Meeting",
			Description: "Weekly team sync-up",
			Location:    "Conference Room A",
			StartTime:   today(10, 0),
			EndTime:     today(11, 0),
			Priority:    calendar.PriorityHigh,
		},
		{
			ID:          uuid.NewString(),
			Title:       "Lunch with Alex",
			Description: "Discuss project collaboration",
			Location:    "Cafe Central",
			StartTime:   today(12, 30),
			EndTime:     today(13, 30),
			Priority:    calendar.PriorityMedium,
		},
	}
	log.Infof("Seeding %d sample events", len(samples))
	return store.Save(ctx, "seed", samples)
}
