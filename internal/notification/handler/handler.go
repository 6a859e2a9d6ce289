// Package handler wires the notification read endpoint and the delivery
// provider's status callback.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"casewatch/internal/notification/models"
	id "casewatch/pkg/domain"
	dErrors "casewatch/pkg/domain-errors"
	"casewatch/pkg/platform/httputil"
)

// Provider callback statuses that count as delivered. Anything else is
// recorded as a failure.
const StatusDelivered = "delivered"

// Service defines the notification operations the handler needs.
type Service interface {
	HandleSendSucceeded(ctx context.Context, notifID id.NotificationID, sentAt time.Time) error
	HandleSendFailed(ctx context.Context, notifID id.NotificationID, errorMessage string, failedAt time.Time, statusCode int) error
	Get(ctx context.Context, notifID id.NotificationID) (models.Notification, error)
}

// Handler wires notification endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts notification endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/notifications/callbacks", h.HandleCallback)
	r.Get("/notifications/{notificationID}", h.HandleGet)
}

// CallbackRequest is the delivery provider's status report for one email.
type CallbackRequest struct {
	NotificationID string    `json:"notification_id"`
	Status         string    `json:"status"`
	CompletedAt    time.Time `json:"completed_at"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	StatusCode     int       `json:"status_code,omitempty"`
}

// HandleCallback handles POST /notifications/callbacks. Callbacks for
// unknown notification ids are acknowledged and dropped; the provider
// retries on anything but 2xx, and a retry cannot make them known.
func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.Decode[CallbackRequest](w, r)
	if !ok {
		return
	}
	notifID, err := id.ParseNotificationID(req.NotificationID)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid notification id"))
		return
	}

	completedAt := req.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now().UTC()
	}

	if req.Status == StatusDelivered {
		err = h.service.HandleSendSucceeded(ctx, notifID, completedAt)
	} else {
		err = h.service.HandleSendFailed(ctx, notifID, req.ErrorMessage, completedAt, req.StatusCode)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "delivery callback failed",
			"notification_id", notifID.String(),
			"status", req.Status,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "delivery callback recorded",
		"notification_id", notifID.String(),
		"status", req.Status,
	)
	w.WriteHeader(http.StatusNoContent)
}

// HandleGet handles GET /notifications/{notificationID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	notifID, err := id.ParseNotificationID(chi.URLParam(r, "notificationID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid notification id"))
		return
	}
	notif, err := h.service.Get(r.Context(), notifID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, notif)
}
