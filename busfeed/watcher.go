// Package busfeed polls the live bus route feed on a schedule and fans
// updates out to subscribers. The portal keeps the bus page fresh without a
// push channel from the backend.
package busfeed

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/viola-academy/portal-client/pkg/logger"
	"github.com/viola-academy/portal-client/portal"
)

// DefaultInterval is the poll cadence when none is configured.
const DefaultInterval = 30 * time.Second

// Update is one delivered feed snapshot.
type Update struct {
	Data portal.BusData
	At   time.Time
}

// Watcher polls the feed and delivers snapshots to OnUpdate. Failed polls are
// logged and skipped; the next tick retries.
type Watcher struct {
	client   *portal.Client
	interval time.Duration
	log      *logger.Logger

	// OnUpdate receives every successful poll. Set before Start.
	OnUpdate func(Update)

	mu      sync.Mutex
	cron    *cron.Cron
	last    *Update
	running bool
}

// NewWatcher builds a watcher; a zero interval selects DefaultInterval.
func NewWatcher(client *portal.Client, interval time.Duration, log *logger.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = logger.NewDefault("busfeed")
	}
	return &Watcher{client: client, interval: interval, log: log}
}

// Start begins polling. It fires one immediate poll so subscribers are not
// blind for the first interval, then ticks on the cron schedule. Calling
// Start on a running watcher is a no-op.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.cron = cron.New()
	w.mu.Unlock()

	w.poll(ctx)
	w.cron.Schedule(cron.Every(w.interval), cron.FuncJob(func() { w.poll(ctx) }))
	w.cron.Start()
	w.log.Infof("bus feed watcher started, polling every %s", w.interval)
}

// Stop halts polling and waits for an in-flight tick to finish.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	c := w.cron
	w.cron = nil
	w.mu.Unlock()

	<-c.Stop().Done()
	w.log.Info("bus feed watcher stopped")
}

// Last returns the most recent successful snapshot, or nil before the first.
func (w *Watcher) Last() *Update {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.last == nil {
		return nil
	}
	u := *w.last
	return &u
}

func (w *Watcher) poll(ctx context.Context) {
	data, err := w.client.Bus().Fetch(ctx)
	if err != nil {
		w.log.Warnf("bus feed poll failed: %v", err)
		return
	}
	update := Update{Data: data, At: time.Now()}

	w.mu.Lock()
	w.last = &update
	handler := w.OnUpdate
	w.mu.Unlock()

	if handler != nil {
		handler(update)
	}
}
