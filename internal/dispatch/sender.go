package dispatch

import (
	"context"
	"log/slog"
)

// EmailSender hands a composed email to the delivery provider. A non-nil
// error means the provider rejected the send; the status code carries the
// provider's response classification for the failure event.
type EmailSender interface {
	Send(ctx context.Context, cmd SendEmailCommand) (statusCode int, err error)
}

// LogSender writes outbound emails to the log instead of a provider. Used
// when no provider is configured, and in tests.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, cmd SendEmailCommand) (int, error) {
	s.logger.InfoContext(ctx, "email send (log only)",
		"notification_id", cmd.NotificationID.String(),
		"recipient", cmd.Recipient,
		"subject", cmd.Subject,
		"template_id", cmd.TemplateID,
	)
	return 200, nil
}
