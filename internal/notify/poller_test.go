package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenhall/web/internal/backend"
	"github.com/screenhall/web/pkg/httpclient"
	"github.com/screenhall/web/pkg/logger"
)

type pollerTestWriter struct{ t *testing.T }

func (w pollerTestWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func newTestPoller(t *testing.T, backendURL string) *Poller {
	t.Helper()
	log := logger.NewWithWriter("test", "error", pollerTestWriter{t})
	client := backend.NewClient(httpclient.New(httpclient.Config{
		Timeout:    2 * time.Second,
		MaxRetries: 0,
	}), backendURL, log)

	p, err := NewPoller(client, DefaultConfig(), log)
	require.NoError(t, err)
	return p
}

// ==================== Keep-alive probe ====================

func TestKeepAlive_HealthyBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/healthz", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := newTestPoller(t, srv.URL)
	p.keepAlive(context.Background())
	assert.True(t, p.Healthy())
}

func TestKeepAlive_UnreachableBackendFlipsHealth(t *testing.T) {
	p := newTestPoller(t, "http://127.0.0.1:1")
	require.True(t, p.Healthy(), "reachable is assumed until the first probe")

	p.keepAlive(context.Background())
	assert.False(t, p.Healthy())
}

func TestKeepAlive_RecoveryFlipsBack(t *testing.T) {
	var up atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if up.Load() {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := newTestPoller(t, srv.URL)
	p.keepAlive(context.Background())
	require.False(t, p.Healthy())

	up.Store(true)
	p.keepAlive(context.Background())
	assert.True(t, p.Healthy())
}

// ==================== Catalog snapshot ====================

func TestRefreshCatalog_StoresSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "now_showing", r.URL.Query().Get("status"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"m-1","title":"Interstellar"},{"id":"m-2","title":"Dune"}]}`))
	}))
	defer srv.Close()

	p := newTestPoller(t, srv.URL)
	require.Nil(t, p.Snapshot())

	p.refreshCatalog(context.Background())

	snap := p.Snapshot()
	require.NotNil(t, snap)
	assert.Len(t, snap.Movies, 2)
	assert.Equal(t, "Interstellar", snap.Movies[0].Title)
	assert.False(t, snap.RefreshedAt.IsZero())
}

func TestRefreshCatalog_FailureKeepsPreviousSnapshot(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"m-1","title":"Interstellar"}]}`))
	}))
	defer srv.Close()

	p := newTestPoller(t, srv.URL)
	p.refreshCatalog(context.Background())
	require.NotNil(t, p.Snapshot())

	fail.Store(true)
	p.refreshCatalog(context.Background())

	snap := p.Snapshot()
	require.NotNil(t, snap, "a failed refresh must not clear the cached catalog")
	assert.Len(t, snap.Movies, 1)
}
