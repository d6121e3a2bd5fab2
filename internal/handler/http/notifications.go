package http

import (
	"log/slog"
	"net/http"

	"github.com/screenhall/web/internal/backend"
	"github.com/screenhall/web/internal/notify"
	"github.com/screenhall/web/pkg/httputil"
	"github.com/screenhall/web/pkg/middleware"
)

// NotificationsHandler serves the user's notification feed and the backend
// reachability status the header bar polls.
type NotificationsHandler struct {
	backend *backend.Client
	poller  *notify.Poller
	logger  *slog.Logger
}

// NewNotificationsHandler creates a notifications HTTP handler.
func NewNotificationsHandler(client *backend.Client, poller *notify.Poller, logger *slog.Logger) *NotificationsHandler {
	return &NotificationsHandler{
		backend: client,
		poller:  poller,
		logger:  logger,
	}
}

// List handles GET /api/v1/notifications.
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.backend.ListNotifications(r.Context(), middleware.TokenFromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: notifications})
}

// Status handles GET /api/v1/status. It reports the last keep-alive probe
// result without touching the backend on the hot path.
func (h *NotificationsHandler) Status(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]bool{
		"backend_reachable": h.poller.Healthy(),
	}})
}
