package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/screenhall/web/internal/domain"
	"github.com/screenhall/web/internal/service"
	apperrors "github.com/screenhall/web/pkg/errors"
	"github.com/screenhall/web/pkg/httputil"
	"github.com/screenhall/web/pkg/middleware"
	"github.com/screenhall/web/pkg/validator"
)

// CheckoutHandler exposes the booking wizard over HTTP.
type CheckoutHandler struct {
	service *service.CheckoutService
	logger  *slog.Logger
}

// NewCheckoutHandler creates a checkout HTTP handler.
func NewCheckoutHandler(svc *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// AddConcessionRequest is the JSON body for adding a concession.
type AddConcessionRequest struct {
	ConcessionID string `json:"concession_id" validate:"required"`
}

// SelectPromotionRequest is the JSON body for picking a promotion. An empty
// id clears the active promotion.
type SelectPromotionRequest struct {
	PromotionID string `json:"promotion_id"`
}

// sessionView is the wizard state plus derived pricing, as rendered by the
// browser on every step.
type sessionView struct {
	Session *domain.CheckoutSession `json:"session"`
	Totals  domain.Totals           `json:"totals"`
}

func newSessionView(s *domain.CheckoutSession) sessionView {
	return sessionView{Session: s, Totals: s.ComputeTotals()}
}

// --- Handlers ---

// Start handles POST /api/v1/checkout?showtime={id}. A missing showtime
// parameter fails fast with a hint back to the showtime listing.
func (h *CheckoutHandler) Start(w http.ResponseWriter, r *http.Request) {
	showtimeID := r.URL.Query().Get("showtime")
	if showtimeID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{
				Code:    "MISSING_SHOWTIME",
				Message: "showtime query parameter is required",
			},
			Data: map[string]string{"redirect": "/showtimes"},
		})
		return
	}

	session, err := h.service.Start(r.Context(), showtimeID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: newSessionView(session)})
}

// Get handles GET /api/v1/checkout/{sessionId}.
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Get(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newSessionView(session)})
}

// ToggleSeat handles POST /api/v1/checkout/{sessionId}/seats/{seatId}.
// Toggling an occupied seat is a no-op, not an error.
func (h *CheckoutHandler) ToggleSeat(w http.ResponseWriter, r *http.Request) {
	seat := domain.SeatID(chi.URLParam(r, "seatId"))

	session, err := h.service.ToggleSeat(r.Context(), chi.URLParam(r, "sessionId"), seat)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newSessionView(session)})
}

// AddConcession handles POST /api/v1/checkout/{sessionId}/concessions.
func (h *CheckoutHandler) AddConcession(w http.ResponseWriter, r *http.Request) {
	var req AddConcessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	session, err := h.service.AddConcession(r.Context(), chi.URLParam(r, "sessionId"), req.ConcessionID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newSessionView(session)})
}

// RemoveConcession handles DELETE /api/v1/checkout/{sessionId}/concessions/{concessionId}.
func (h *CheckoutHandler) RemoveConcession(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.RemoveConcession(r.Context(), chi.URLParam(r, "sessionId"), chi.URLParam(r, "concessionId"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newSessionView(session)})
}

// SelectPromotion handles PUT /api/v1/checkout/{sessionId}/promotion.
func (h *CheckoutHandler) SelectPromotion(w http.ResponseWriter, r *http.Request) {
	var req SelectPromotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}

	session, err := h.service.SelectPromotion(r.Context(), chi.URLParam(r, "sessionId"), req.PromotionID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newSessionView(session)})
}

// Continue handles POST /api/v1/checkout/{sessionId}/continue.
func (h *CheckoutHandler) Continue(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Continue(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newSessionView(session)})
}

// Back handles POST /api/v1/checkout/{sessionId}/back.
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Back(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newSessionView(session)})
}

// Confirm handles POST /api/v1/checkout/{sessionId}/confirm. An anonymous
// caller gets a 401 with a login redirect hint; the session is left as-is.
func (h *CheckoutHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	token := middleware.TokenFromRequest(r)
	if userID == "" || token == "" {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
			Error: &httputil.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "sign in to complete your booking",
			},
			Data: map[string]string{"redirect": "/login"},
		})
		return
	}

	result, err := h.service.Confirm(r.Context(), chi.URLParam(r, "sessionId"), userID, token)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]any{
			"booking_ids": result.BookingIDs,
			"totals":      result.Totals,
			"redirect":    "/bookings?success=1",
		},
	})
}

// Abandon handles DELETE /api/v1/checkout/{sessionId}.
func (h *CheckoutHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Abandon(r.Context(), chi.URLParam(r, "sessionId")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "abandoned"}})
}
