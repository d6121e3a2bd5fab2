package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/screenhall/web/internal/backend"
	"github.com/screenhall/web/internal/notify"
	"github.com/screenhall/web/pkg/httputil"
	"github.com/screenhall/web/pkg/pagination"
)

// CatalogHandler serves the browse surfaces: movies, cinemas, showtimes,
// concessions, promotions. These are thin fetch-and-render proxies over the
// backend catalog.
type CatalogHandler struct {
	backend *backend.Client
	poller  *notify.Poller
	logger  *slog.Logger
}

// NewCatalogHandler creates a catalog HTTP handler.
func NewCatalogHandler(client *backend.Client, poller *notify.Poller, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		backend: client,
		poller:  poller,
		logger:  logger,
	}
}

// Home handles GET /api/v1/home. It serves the cached now-showing snapshot
// when one exists, falling back to a live fetch on a cold cache.
func (h *CatalogHandler) Home(w http.ResponseWriter, r *http.Request) {
	if snap := h.poller.Snapshot(); snap != nil {
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: snap})
		return
	}

	movies, err := h.backend.ListMovies(r.Context(), backend.MovieFilter{Status: "now_showing"})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{"movies": movies}})
}

// ListMovies handles GET /api/v1/movies.
func (h *CatalogHandler) ListMovies(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	filter := backend.MovieFilter{
		Status: r.URL.Query().Get("status"),
		Genre:  r.URL.Query().Get("genre"),
		Query:  r.URL.Query().Get("q"),
		Page:   params.Page,
		Limit:  params.PerPage,
	}

	movies, err := h.backend.ListMovies(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: movies})
}

// GetMovie handles GET /api/v1/movies/{movieId}.
func (h *CatalogHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	movie, err := h.backend.GetMovie(r.Context(), chi.URLParam(r, "movieId"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: movie})
}

// ListCinemas handles GET /api/v1/cinemas.
func (h *CatalogHandler) ListCinemas(w http.ResponseWriter, r *http.Request) {
	cinemas, err := h.backend.ListCinemas(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cinemas})
}

// ListShowtimes handles GET /api/v1/showtimes with movie/cinema/date filters.
func (h *CatalogHandler) ListShowtimes(w http.ResponseWriter, r *http.Request) {
	filter := backend.ShowtimeFilter{
		MovieID:  r.URL.Query().Get("movie"),
		CinemaID: r.URL.Query().Get("cinema"),
		Date:     r.URL.Query().Get("date"),
	}

	showtimes, err := h.backend.ListShowtimes(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: showtimes})
}

// ListConcessions handles GET /api/v1/concessions.
func (h *CatalogHandler) ListConcessions(w http.ResponseWriter, r *http.Request) {
	items, err := h.backend.ListConcessions(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: items})
}

// ListPromotions handles GET /api/v1/promotions.
func (h *CatalogHandler) ListPromotions(w http.ResponseWriter, r *http.Request) {
	promos, err := h.backend.ListPromotions(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: promos})
}
