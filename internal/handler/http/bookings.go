package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/screenhall/web/internal/backend"
	apperrors "github.com/screenhall/web/pkg/errors"
	"github.com/screenhall/web/pkg/httputil"
	"github.com/screenhall/web/pkg/middleware"
)

// BookingsHandler serves the authenticated user's booking history and the
// per-booking QR ticket image shown at the cinema entrance.
type BookingsHandler struct {
	backend *backend.Client
	logger  *slog.Logger
}

// NewBookingsHandler creates a bookings HTTP handler.
func NewBookingsHandler(client *backend.Client, logger *slog.Logger) *BookingsHandler {
	return &BookingsHandler{
		backend: client,
		logger:  logger,
	}
}

// List handles GET /api/v1/bookings.
func (h *BookingsHandler) List(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.backend.ListBookings(r.Context(), middleware.TokenFromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: bookings})
}

// Get handles GET /api/v1/bookings/{bookingId}.
func (h *BookingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	booking, err := h.backend.GetBooking(r.Context(), middleware.TokenFromRequest(r), chi.URLParam(r, "bookingId"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: booking})
}

// QRCode handles GET /api/v1/bookings/{bookingId}/qr. It verifies the
// booking belongs to the caller before rendering its id as a PNG.
func (h *BookingsHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")

	booking, err := h.backend.GetBooking(r.Context(), middleware.TokenFromRequest(r), bookingID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	size := 256
	if v := r.URL.Query().Get("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 64 && n <= 1024 {
			size = n
		}
	}

	png, err := qrcode.Encode(booking.ID, qrcode.Medium, size)
	if err != nil {
		httputil.WriteError(w, r, apperrors.Internal(err), h.logger)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
