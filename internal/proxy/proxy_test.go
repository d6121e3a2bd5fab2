package proxy

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenhall/web/pkg/logger"
	"github.com/screenhall/web/pkg/middleware"
)

type proxyTestWriter struct{ t *testing.T }

func (w proxyTestWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func newTestProxy(t *testing.T, backendURL string) *AdminProxy {
	t.Helper()
	ap, err := NewAdminProxy(backendURL, logger.NewWithWriter("test", "error", proxyTestWriter{t}))
	require.NoError(t, err)
	return ap
}

// ==================== Forwarding ====================

func TestAdminProxy_ConvertsCookieToBearer(t *testing.T) {
	var gotAuth, gotCookie string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotCookie = r.Header.Get("Cookie")
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	ap := newTestProxy(t, backend.URL)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/movies", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "tok-123"})

	ap.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Empty(t, gotCookie, "browser cookies must not leak to the backend")
}

func TestAdminProxy_KeepsExplicitAuthorizationHeader(t *testing.T) {
	var gotAuth string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	ap := newTestProxy(t, backend.URL)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/movies/m-1", nil)
	req.Header.Set("Authorization", "Bearer explicit-token")
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "cookie-token"})

	ap.ServeHTTP(rec, req)

	assert.Equal(t, "Bearer explicit-token", gotAuth)
}

func TestAdminProxy_PreservesPathAndResponse(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/admin/showtimes", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"st-9"}}`))
	}))
	defer backend.Close()

	ap := newTestProxy(t, backend.URL)
	rec := httptest.NewRecorder()
	ap.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/admin/showtimes", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "st-9")
}

// ==================== Failure handling ====================

func TestAdminProxy_UnreachableBackendIs502(t *testing.T) {
	ap := newTestProxy(t, "http://127.0.0.1:1")
	rec := httptest.NewRecorder()
	ap.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/movies", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "BAD_GATEWAY")
}

func TestNewAdminProxy_RejectsBadURL(t *testing.T) {
	_, err := NewAdminProxy("://not-a-url", logger.NewWithWriter("test", "error", proxyTestWriter{t}))
	assert.Error(t, err)
}
