// Package dispatch turns matched email content into per-recipient send
// commands, queues them, and works the queue against the email provider.
package dispatch

import (
	id "casewatch/pkg/domain"
)

// SendEmailCommand is the queued unit of work: one email to one recipient.
// The notification id is minted at routing time so retries and provider
// callbacks address the same aggregate.
type SendEmailCommand struct {
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
}
