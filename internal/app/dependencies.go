package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/calendarplan/calendarplan/internal/config"
	"github.com/calendarplan/calendarplan/internal/database"
	"github.com/calendarplan/calendarplan/internal/event_bus"
	"github.com/calendarplan/calendarplan/internal/utils"
	"github.com/calendarplan/calendarplan/pkg/assistant"
	"github.com/calendarplan/calendarplan/pkg/blobstore"
	"github.com/calendarplan/calendarplan/pkg/calendar"
	"github.com/calendarplan/calendarplan/pkg/gemini"
	"github.com/calendarplan/calendarplan/pkg/stats"
	"github.com/calendarplan/calendarplan/pkg/timeline"
	log "github.com/sirupsen/logrus"
)

const offlineReply = "I'm running offline, so I can't reach the assistant service right now. You can still manage events from the timeline."

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock utils.Clock
	Bus   *event_bus.EventBus
	Blobs blobstore.Store
	Store *calendar.Store

	AssistantView *calendar.Projection
	TimelineView  *calendar.Projection

	Generator        gemini.Generator
	Assistant        *assistant.Assistant
	AssistantHandler *assistant.Handler

	Timeline        *timeline.Timeline
	TimelineHandler *timeline.Handler

	CalendarHandler *calendar.Handler
	StatsHandler    *stats.StatsHandler

	closers []func()
}

type Options struct {
	// Offline replaces the language model with a canned reply.
	Offline bool
	// Generator overrides the language model; used by tests.
	Generator gemini.Generator
	// Blobs overrides the configured store driver; used by tests.
	Blobs blobstore.Store
	Clock utils.Clock
}

// BuildDependencies opens the store, starts both views and wires the handlers.
func BuildDependencies(ctx context.Context, cfg config.Application, opts Options) (*Dependencies, error) {
	deps := &Dependencies{}

	deps.Clock = opts.Clock
	if deps.Clock == nil {
		deps.Clock = &utils.SystemClock{}
	}
	deps.Bus = event_bus.NewEventBus()

	deps.Blobs = opts.Blobs
	if deps.Blobs == nil {
		blobs, closeBlobs, err := openBlobStore(ctx, cfg.Store)
		if err != nil {
			return nil, err
		}
		deps.Blobs = blobs
		deps.closers = append(deps.closers, closeBlobs)
	}

	coercer := calendar.NewCoercer(deps.Clock)
	deps.Store = calendar.NewStore(deps.Blobs, cfg.Store.Namespace, cfg.Store.Key, coercer, deps.Bus)
	if cfg.Seed.Sample {
		if err := SeedSampleEvents(ctx, deps.Store); err != nil {
			log.Warnf("Failed to seed sample events: %v", err)
		}
	}

	deps.AssistantView = calendar.NewProjection(ctx, "assistant", deps.Store, cfg.Refresh.Assistant)
	deps.TimelineView = calendar.NewProjection(ctx, "timeline", deps.Store, cfg.Refresh.Timeline)
	deps.closers = append(deps.closers, deps.AssistantView.Close, deps.TimelineView.Close)

	generator, err := buildGenerator(ctx, cfg.Assistant, opts)
	if err != nil {
		deps.Close()
		return nil, err
	}
	deps.Generator = generator

	extractor, err := assistant.NewExtractor(cfg.Assistant.Parser)
	if err != nil {
		deps.Close()
		return nil, err
	}
	deps.Assistant = assistant.NewAssistant(
		deps.Generator,
		assistant.NewParser(extractor, coercer),
		assistant.NewProcessor(),
		deps.AssistantView,
		assistant.Options{
			Timeout: cfg.Assistant.Timeout,
			Queue:   cfg.Assistant.Queue,
			Welcome: cfg.Assistant.Welcome,
			Clock:   deps.Clock,
		},
	)
	deps.closers = append(deps.closers, deps.Assistant.Close)
	deps.AssistantHandler = assistant.NewHandler(deps.Assistant, cfg.Speech)

	deps.Timeline = timeline.NewTimeline(deps.TimelineView)
	deps.TimelineHandler = timeline.NewHandler(deps.Timeline, coercer)

	deps.CalendarHandler = calendar.NewHandler(deps.AssistantView, deps.TimelineView)
	deps.StatsHandler = stats.NewStatsHandler(stats.NewStatsService(deps.TimelineView), stats.NewCsvStatsRenderer(), coercer)

	return deps, nil
}

// Close releases everything in the reverse order it was started.
func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}

func buildGenerator(ctx context.Context, cfg config.Assistant, opts Options) (gemini.Generator, error) {
	if opts.Generator != nil {
		return opts.Generator, nil
	}
	if opts.Offline {
		log.Info("Offline mode: assistant replies are canned")
		stub := gemini.NewStubGenerator()
		stub.Fallback = offlineReply
		return stub, nil
	}
	return gemini.NewClient(ctx, cfg)
}

func openBlobStore(ctx context.Context, cfg config.Store) (blobstore.Store, func(), error) {
	switch cfg.Driver {
	case "memory":
		log.Info("Using in-memory event store, events are lost on exit")
		return blobstore.NewMemoryStore(), func() {}, nil
	case "sqlite", "":
		db, err := database.OpenSQLite(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		if err := database.MigrateSQLite(db); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Infof("Using SQLite event store at %s", cfg.SQLite.Path)
		return blobstore.NewSQLStore(db), closeDB(db), nil
	case "postgres":
		pool, err := database.OpenPostgres(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		if err := database.MigratePostgres(ctx, pool, cfg.Postgres); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Infof("Using Postgres event store at %s:%d/%s", cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.Name)
		return blobstore.NewPostgresStore(pool), pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

func closeDB(db *sql.DB) func() {
	return func() {
		if err := db.Close(); err != nil {
			log.Warnf("closing database: %v", err)
		}
	}
}
