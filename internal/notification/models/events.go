package models

import (
	"time"

	"casewatch/internal/eventstore"
	id "casewatch/pkg/domain"
)

// Event type tags published by the notification aggregate.
const (
	EventSendEmailRequested = "send-email-requested"
	EventSendEmailSucceeded = "send-email-request-succeeded"
	EventSendEmailFailed    = "send-email-request-failed"
)

// SendEmailRequested captures the full outbound email at request time.
type SendEmailRequested struct {
	NotificationID   id.NotificationID `json:"notification_id"`
	Recipient        string            `json:"recipient"`
	Subject          string            `json:"subject"`
	Title            string            `json:"title,omitempty"`
	Body             string            `json:"body"`
	CaseLink         string            `json:"case_link,omitempty"`
	MaterialID       string            `json:"material_id,omitempty"`
	TemplateID       string            `json:"template_id"`
	SubscriptionID   id.SubscriptionID `json:"subscription_id"`
	SubscriptionName string            `json:"subscription_name"`
	RequestedAt      time.Time         `json:"requested_at"`
}

func (SendEmailRequested) EventType() string { return EventSendEmailRequested }

// SendEmailSucceeded is the terminal success event. Recipient and
// subscription context are copied forward so downstream consumers need not
// re-join against the request event.
type SendEmailSucceeded struct {
	NotificationID   id.NotificationID `json:"notification_id"`
	Recipient        string            `json:"recipient"`
	SubscriptionID   id.SubscriptionID `json:"subscription_id"`
	SubscriptionName string            `json:"subscription_name"`
	SentAt           time.Time         `json:"sent_at"`
}

func (SendEmailSucceeded) EventType() string { return EventSendEmailSucceeded }

// SendEmailFailed is the terminal failure event.
type SendEmailFailed struct {
	NotificationID   id.NotificationID `json:"notification_id"`
	Recipient        string            `json:"recipient"`
	SubscriptionID   id.SubscriptionID `json:"subscription_id"`
	SubscriptionName string            `json:"subscription_name"`
	ErrorMessage     string            `json:"error_message"`
	StatusCode       int               `json:"status_code,omitempty"`
	FailedAt         time.Time         `json:"failed_at"`
}

func (SendEmailFailed) EventType() string { return EventSendEmailFailed }

// RegisterEvents binds every notification event to the store registry.
func RegisterEvents(r *eventstore.Registry) {
	r.Register(EventSendEmailRequested, func() eventstore.Event { return &SendEmailRequested{} })
	r.Register(EventSendEmailSucceeded, func() eventstore.Event { return &SendEmailSucceeded{} })
	r.Register(EventSendEmailFailed, func() eventstore.Event { return &SendEmailFailed{} })
}
