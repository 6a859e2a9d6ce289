package models

import (
	"time"

	id "casewatch/pkg/domain"
)

// Status tracks one outbound email's lifecycle.
type Status string

const (
	StatusNew       Status = "new"
	StatusRequested Status = "requested"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Notification is the folded state of one outbound email.
type Notification struct {
	ID               id.NotificationID `json:"id"`
	Recipient        string            `json:"recipient"`
	Subject          string            `json:"subject"`
	Title            string            `json:"title,omitempty"`
	Body             string            `json:"body"`
	CaseLink         string            `json:"case_link,omitempty"`
	MaterialID       string            `json:"material_id,omitempty"`
	TemplateID       string            `json:"template_id"`
	SubscriptionID   id.SubscriptionID `json:"subscription_id"`
	SubscriptionName string            `json:"subscription_name"`
	Status           Status            `json:"status"`
	RequestedAt      time.Time         `json:"requested_at,omitempty"`
	CompletedAt      time.Time         `json:"completed_at,omitempty"`
	ErrorMessage     string            `json:"error_message,omitempty"`
	StatusCode       int               `json:"status_code,omitempty"`
}

// EmailRequest is the send-email command payload.
type EmailRequest struct {
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
