// Package proxy forwards admin back-office traffic straight to the
// ticketing backend. Admin CRUD (movies, showtimes, users, bookings,
// analytics) is owned by the backend; this service only authenticates the
// caller and relays the request.
package proxy

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/screenhall/web/pkg/middleware"
)

// AdminProxy is a reverse proxy for the backend's admin API.
type AdminProxy struct {
	proxy  *httputil.ReverseProxy
	logger *slog.Logger
}

// NewAdminProxy creates a reverse proxy targeting the backend. Incoming
// paths under /api/v1/admin are forwarded unchanged.
func NewAdminProxy(backendURL string, logger *slog.Logger) (*AdminProxy, error) {
	target, err := url.Parse(backendURL)
	if err != nil {
		return nil, err
	}

	ap := &AdminProxy{logger: logger}

	rp := httputil.NewSingleHostReverseProxy(target)
	rp.ErrorHandler = ap.errorHandler
	director := rp.Director
	rp.Director = func(req *http.Request) {
		director(req)
		// The backend expects a bearer token, not the browser cookie.
		if c, err := req.Cookie(middleware.SessionCookieName); err == nil && req.Header.Get("Authorization") == "" {
			req.Header.Set("Authorization", "Bearer "+c.Value)
		}
		req.Header.Del("Cookie")
	}
	ap.proxy = rp

	logger.Info("admin proxy registered",
		slog.String("target", strings.TrimRight(backendURL, "/")),
	)
	return ap, nil
}

// ServeHTTP relays the request to the backend.
func (ap *AdminProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ap.proxy.ServeHTTP(w, r)
}

func (ap *AdminProxy) errorHandler(w http.ResponseWriter, r *http.Request, err error) {
	ap.logger.Error("admin proxy error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadGateway)
	_, _ = w.Write([]byte(`{"error":{"code":"BAD_GATEWAY","message":"backend unavailable"}}`))
}
