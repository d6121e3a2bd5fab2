package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/screenhall/web/internal/backend"
	apperrors "github.com/screenhall/web/pkg/errors"
	"github.com/screenhall/web/pkg/httputil"
	"github.com/screenhall/web/pkg/middleware"
	"github.com/screenhall/web/pkg/validator"
)

// AuthHandler bridges browser sessions to the backend's auth API: the
// backend issues the token, this service stores it in an HTTP-only cookie.
type AuthHandler struct {
	backend      *backend.Client
	cookieMaxAge time.Duration
	secureCookie bool
	logger       *slog.Logger
}

// NewAuthHandler creates an auth HTTP handler.
func NewAuthHandler(client *backend.Client, cookieMaxAge time.Duration, secureCookie bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		backend:      client,
		cookieMaxAge: cookieMaxAge,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req backend.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.backend.Login(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.setSessionCookie(w, result.Token)
	h.logger.InfoContext(r.Context(), "user logged in",
		slog.String("user_id", result.User.ID),
	)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result.User})
}

// Register handles POST /api/v1/auth/register. A successful registration
// signs the user in immediately.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req backend.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.backend.Register(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.setSessionCookie(w, result.Token)
	h.logger.InfoContext(r.Context(), "user registered",
		slog.String("user_id", result.User.ID),
	)
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: result.User})
}

// Logout handles POST /api/v1/auth/logout by expiring the session cookie.
// The backend token itself is left to expire on its own.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "logged_out"}})
}

// Me handles GET /api/v1/auth/me, resolving the current user live from the
// backend so revoked tokens are caught.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromRequest(r)
	if token == "" {
		httputil.WriteError(w, r, apperrors.Unauthorized("authentication required"), h.logger)
		return
	}

	user, err := h.backend.CurrentUser(r.Context(), token)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
