// Package service exposes the notification command surface: recording
// outbound email requests and folding in the delivery callbacks that may
// arrive arbitrarily late, or not at all.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/asaskevich/govalidator"

	"casewatch/internal/eventstore"
	"casewatch/internal/notification"
	"casewatch/internal/notification/models"
	"casewatch/internal/platform/metrics"
	id "casewatch/pkg/domain"
	dErrors "casewatch/pkg/domain-errors"
	"casewatch/pkg/platform/sentinel"
)

const maxAttempts = 3

// StreamID names the event stream for a notification aggregate.
func StreamID(notifID id.NotificationID) string {
	return "notification-" + notifID.String()
}

// Service orchestrates notification lifecycle commands.
type Service struct {
	store   eventstore.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(store eventstore.Store, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{store: store, logger: logger, metrics: m}
}

func (s *Service) runCommand(ctx context.Context, notifID id.NotificationID, command func(*notification.Aggregate)) error {
	streamID := StreamID(notifID)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		history, version, err := s.store.Load(ctx, streamID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "load notification stream")
		}

		agg := notification.New(notifID)
		agg.Replay(history)
		command(agg)

		events := agg.DrainPending()
		if len(events) == 0 {
			return nil
		}

		err = s.store.Append(ctx, streamID, version, events)
		if err == nil {
			return nil
		}
		if !errors.Is(err, sentinel.ErrStaleVersion) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "append notification events")
		}
		s.logger.InfoContext(ctx, "stale notification stream, retrying command",
			"notification_id", notifID.String(), "attempt", attempt+1)
	}
	return dErrors.New(dErrors.CodeConflict, "notification command lost too many concurrent races")
}

// RequestEmail records the send-email command for a notification id.
func (s *Service) RequestEmail(ctx context.Context, req models.EmailRequest) error {
	if req.NotificationID.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "notification id is required")
	}
	if !govalidator.IsEmail(req.Recipient) {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid recipient email")
	}

	now := time.Now().UTC()
	return s.runCommand(ctx, req.NotificationID, func(agg *notification.Aggregate) {
		agg.SendEmail(req, now)
	})
}

// HandleSendSucceeded folds a delivery success callback. Callbacks for ids
// with no recorded request emit nothing and succeed silently.
func (s *Service) HandleSendSucceeded(ctx context.Context, notifID id.NotificationID, sentAt time.Time) error {
	err := s.runCommand(ctx, notifID, func(agg *notification.Aggregate) {
		agg.HandleSendSucceeded(sentAt)
	})
	if err == nil && s.metrics != nil {
		s.metrics.EmailsSucceeded.Inc()
	}
	return err
}

// HandleSendFailed folds a delivery failure callback under the same guard.
func (s *Service) HandleSendFailed(ctx context.Context, notifID id.NotificationID, errorMessage string, failedAt time.Time, statusCode int) error {
	err := s.runCommand(ctx, notifID, func(agg *notification.Aggregate) {
		agg.HandleSendFailed(errorMessage, failedAt, statusCode)
	})
	if err == nil && s.metrics != nil {
		s.metrics.EmailsFailed.Inc()
	}
	return err
}

// Get replays a notification's current state for read-side callers.
func (s *Service) Get(ctx context.Context, notifID id.NotificationID) (models.Notification, error) {
	history, _, err := s.store.Load(ctx, StreamID(notifID))
	if err != nil {
		return models.Notification{}, dErrors.Wrap(err, dErrors.CodeInternal, "load notification stream")
	}
	if len(history) == 0 {
		return models.Notification{}, dErrors.New(dErrors.CodeNotFound, "notification not found")
	}
	agg := notification.New(notifID)
	agg.Replay(history)
	return agg.State().Notification, nil
}
