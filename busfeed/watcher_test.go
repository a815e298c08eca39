package busfeed

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viola-academy/portal-client/internal/portaltest"
	"github.com/viola-academy/portal-client/pkg/logger"
	"github.com/viola-academy/portal-client/portal"
	"github.com/viola-academy/portal-client/prefs"
)

func newWatcher(t *testing.T, srv *portaltest.Server, interval time.Duration) *Watcher {
	t.Helper()
	srv.SetRequireAuth(false)
	store := prefs.NewStore(prefs.NewMemory(), "", logger.Discard("prefs"))
	client, err := portal.New(portal.Config{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	}, store, logger.Discard("portal"))
	require.NoError(t, err)
	return NewWatcher(client, interval, logger.Discard("busfeed"))
}

func TestWatcherDeliversImmediateSnapshot(t *testing.T) {
	srv := portaltest.New()
	defer srv.Close()
	srv.Seed("/bus", `{"morning": [{"time": "06:45", "loc": "North gate"}], "evening": []}`)

	w := newWatcher(t, srv, time.Hour)

	var mu sync.Mutex
	var updates []Update
	w.OnUpdate = func(u Update) {
		mu.Lock()
		updates = append(updates, u)
		mu.Unlock()
	}

	w.Start(context.Background())
	defer w.Stop()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, updates, 1, "Start fires one immediate poll")
	require.Len(t, updates[0].Data.Morning, 1)
	assert.Equal(t, "North gate", updates[0].Data.Morning[0].Location)

	last := w.Last()
	require.NotNil(t, last)
	assert.Equal(t, updates[0].Data, last.Data)
}

func TestWatcherToleratesFailedTicks(t *testing.T) {
	srv := portaltest.New()
	defer srv.Close()
	srv.Force("/bus", http.StatusInternalServerError)

	w := newWatcher(t, srv, 20*time.Millisecond)
	w.Start(context.Background())

	assert.Nil(t, w.Last(), "failed polls leave no snapshot")

	// Feed recovers; a later tick picks it up.
	srv.Force("/bus", 0)
	srv.Seed("/bus", `{"morning": [], "evening": [{"time": "14:30", "loc": "South gate"}]}`)

	deadline := time.Now().Add(2 * time.Second)
	for w.Last() == nil && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	w.Stop()

	last := w.Last()
	require.NotNil(t, last, "watcher recovers after the feed comes back")
	require.Len(t, last.Data.Evening, 1)
	assert.Equal(t, "South gate", last.Data.Evening[0].Location)
}

func TestWatcherStartStopIdempotent(t *testing.T) {
	srv := portaltest.New()
	defer srv.Close()
	srv.Seed("/bus", `{"morning": [], "evening": []}`)

	w := newWatcher(t, srv, time.Hour)
	w.Start(context.Background())
	w.Start(context.Background()) // no-op
	w.Stop()
	w.Stop() // no-op
}
