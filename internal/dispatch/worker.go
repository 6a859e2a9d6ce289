package dispatch

import (
	"context"
	"log/slog"
	"time"

	notifmodels "casewatch/internal/notification/models"
	notifservice "casewatch/internal/notification/service"
	"casewatch/internal/platform/metrics"
)

const dequeueTimeout = 2 * time.Second

// Worker drains the queue: each command is recorded as a requested
// notification, handed to the sender, and closed out with the matching
// success or failure callback. A send failure is recorded and the worker
// moves on; only queue errors pause the loop.
type Worker struct {
	queue         Queue
	sender        EmailSender
	notifications *notifservice.Service
	logger        *slog.Logger
	metrics       *metrics.Metrics
}

func NewWorker(queue Queue, sender EmailSender, notifications *notifservice.Service, logger *slog.Logger, m *metrics.Metrics) *Worker {
	return &Worker{
		queue:         queue,
		sender:        sender,
		notifications: notifications,
		logger:        logger,
		metrics:       m,
	}
}

// Run processes commands until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		cmd, ok, err := w.queue.Dequeue(ctx, dequeueTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.logger.ErrorContext(ctx, "dequeue failed, backing off", "error", err)
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}
		if !ok {
			continue
		}

		w.process(ctx, cmd)
	}
}

// process handles one command end to end.
func (w *Worker) process(ctx context.Context, cmd SendEmailCommand) {
	logger := w.logger.With(
		"notification_id", cmd.NotificationID.String(),
		"subscription_id", cmd.SubscriptionID.String(),
	)

	if err := w.notifications.RequestEmail(ctx, emailRequest(cmd)); err != nil {
		logger.ErrorContext(ctx, "record send request failed", "error", err)
		return
	}
	if w.metrics != nil {
		w.metrics.EmailsDispatched.Inc()
	}

	statusCode, err := w.sender.Send(ctx, cmd)
	if err != nil {
		logger.WarnContext(ctx, "email send failed", "error", err, "status_code", statusCode)
		if recErr := w.notifications.HandleSendFailed(ctx, cmd.NotificationID, err.Error(), time.Now().UTC(), statusCode); recErr != nil {
			logger.ErrorContext(ctx, "record send failure failed", "error", recErr)
		}
		return
	}

	if err := w.notifications.HandleSendSucceeded(ctx, cmd.NotificationID, time.Now().UTC()); err != nil {
		logger.ErrorContext(ctx, "record send success failed", "error", err)
	}
}

func emailRequest(cmd SendEmailCommand) notifmodels.EmailRequest {
	return notifmodels.EmailRequest{
		NotificationID:   cmd.NotificationID,
		Recipient:        cmd.Recipient,
		Subject:          cmd.Subject,
		Title:            cmd.Title,
		Body:             cmd.Body,
		CaseLink:         cmd.CaseLink,
		MaterialID:       cmd.MaterialID,
		TemplateID:       cmd.TemplateID,
		SubscriptionID:   cmd.SubscriptionID,
		SubscriptionName: cmd.SubscriptionName,
	}
}
