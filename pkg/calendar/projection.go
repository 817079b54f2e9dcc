package calendar

import (
	"context"
	"sync"
	"time"

	"github.com/calendarplan/calendarplan/internal/event_bus"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Projection is one view's cached copy of the persisted collection. It is
// brought back in line with the store when a change notification arrives, on
// every poll interval and on demand. The cache is advisory: the store is the
// source of truth.
type Projection struct {
	name  string
	store *Store

	mu     sync.RWMutex
	events []Event
	// generation changes on both sides of every commit. A reload that
	// overlapped a commit may have read the blob before the write, so it is
	// dropped instead of replacing the newer cache.
	generation uint64

	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()
	scheduler   *cron.Cron
	closeOnce   sync.Once
}

// NewProjection loads the current collection, subscribes to change
// notifications and, when interval is positive, starts polling. Close releases
// all of it.
func NewProjection(ctx context.Context, name string, store *Store, interval time.Duration) *Projection {
	pctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	p := &Projection{
		name:   name,
		store:  store,
		events: []Event{},
		ctx:    pctx,
		cancel: cancel,
	}

	if err := p.Reload(ctx); err != nil {
		log.Warnf("%s: initial load failed, starting empty: %v", name, err)
	}

	if bus := store.Bus(); bus != nil {
		p.unsubscribe = event_bus.SubscribeTyped(bus, event_bus.EventsChangedType,
			func(e event_bus.EventT[event_bus.EventsChanged]) error {
				log.Debugf("%s: received change notification from %s", p.name, e.Data.Origin)
				return p.Reload(e.Context())
			})
	}

	if interval > 0 {
		p.scheduler = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
		p.scheduler.Schedule(cron.Every(interval), cron.FuncJob(func() {
			if err := p.Reload(p.ctx); err != nil {
				log.Errorf("%s: error during auto-refresh: %v", p.name, err)
				return
			}
			log.Tracef("%s: auto-refreshed events", p.name)
		}))
		p.scheduler.Start()
	}
	return p
}

func (p *Projection) Name() string {
	return p.name
}

// Events returns a copy of the cached collection.
func (p *Projection) Events() []Event {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Clone(p.events)
}

// Persisted reads the store directly, bypassing the cache.
func (p *Projection) Persisted(ctx context.Context) ([]Event, error) {
	return p.store.Load(ctx)
}

// Coercer returns the date-time coercion shared with the store.
func (p *Projection) Coercer() Coercer {
	return p.store.Coercer()
}

// Reload replaces the cache with the persisted collection. On failure the
// cache is left untouched. A reload that ran concurrently with a Commit on
// this view is discarded, because the commit already holds a newer collection.
func (p *Projection) Reload(ctx context.Context) error {
	p.mu.RLock()
	started := p.generation
	p.mu.RUnlock()

	events, err := p.store.Load(ctx)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.generation != started {
		log.Debugf("%s: discarding reload that overlapped a commit", p.name)
		return nil
	}
	p.events = events
	return nil
}

// Commit makes events the cached collection and writes them to the store,
// returning only after the write and the change notification are done. When
// the write fails the cache keeps the new collection until the next reload.
func (p *Projection) Commit(ctx context.Context, events []Event) error {
	events = Clone(events)
	p.mu.Lock()
	p.events = events
	p.generation++
	p.mu.Unlock()

	err := p.store.Save(ctx, p.name, events)

	p.mu.Lock()
	p.generation++
	p.mu.Unlock()

	if err != nil {
		log.Errorf("%s: failed to persist %d events: %v", p.name, len(events), err)
		return err
	}
	return nil
}

// Close stops polling and unsubscribes from change notifications.
func (p *Projection) Close() {
	p.closeOnce.Do(func() {
		if p.unsubscribe != nil {
			p.unsubscribe()
		}
		p.cancel()
		if p.scheduler != nil {
			<-p.scheduler.Stop().Done()
		}
		log.Debugf("%s: projection closed", p.name)
	})
}
