// Package notification implements the event-sourced aggregate tracking one
// outbound email's lifecycle: New -> Requested -> Succeeded | Failed.
package notification

import (
	"time"

	"casewatch/internal/eventstore"
	"casewatch/internal/notification/models"
	id "casewatch/pkg/domain"
)

// State is the folded aggregate state.
type State struct {
	Notification models.Notification
}

// Apply folds one event into the state.
func (s *State) Apply(ev eventstore.Event) {
	switch e := ev.(type) {
	case *models.SendEmailRequested:
		s.Notification = models.Notification{
			ID:               e.NotificationID,
			Recipient:        e.Recipient,
			Subject:          e.Subject,
			Title:            e.Title,
			Body:             e.Body,
			CaseLink:         e.CaseLink,
			MaterialID:       e.MaterialID,
			TemplateID:       e.TemplateID,
			SubscriptionID:   e.SubscriptionID,
			SubscriptionName: e.SubscriptionName,
			Status:           models.StatusRequested,
			RequestedAt:      e.RequestedAt,
		}
	case *models.SendEmailSucceeded:
		s.Notification.Status = models.StatusSucceeded
		s.Notification.CompletedAt = e.SentAt
	case *models.SendEmailFailed:
		s.Notification.Status = models.StatusFailed
		s.Notification.CompletedAt = e.FailedAt
		s.Notification.ErrorMessage = e.ErrorMessage
		s.Notification.StatusCode = e.StatusCode
	}
}

// Status derives the lifecycle state; an empty stream is New.
func (s State) Status() models.Status {
	if s.Notification.Status == "" {
		return models.StatusNew
	}
	return s.Notification.Status
}

// Aggregate pairs folded state with pending emissions.
type Aggregate struct {
	id      id.NotificationID
	state   State
	pending []eventstore.Event
}

func New(notificationID id.NotificationID) *Aggregate {
	return &Aggregate{id: notificationID}
}

func (a *Aggregate) Replay(history []eventstore.Envelope) {
	for _, env := range history {
		a.state.Apply(env.Event)
	}
}

func (a *Aggregate) State() State { return a.state }

func (a *Aggregate) DrainPending() []eventstore.Event {
	p := a.pending
	a.pending = nil
	return p
}

func (a *Aggregate) emit(ev eventstore.Event) {
	a.state.Apply(ev)
	a.pending = append(a.pending, ev)
}

// SendEmail records the outbound request. Valid only from New; a duplicate
// request for the same id is a no-op so redelivered commands cannot double
// the history.
func (a *Aggregate) SendEmail(req models.EmailRequest, now time.Time) {
	if a.state.Status() != models.StatusNew {
		return
	}
	a.emit(&models.SendEmailRequested{
		NotificationID:   a.id,
		Recipient:        req.Recipient,
		Subject:          req.Subject,
		Title:            req.Title,
		Body:             req.Body,
		CaseLink:         req.CaseLink,
		MaterialID:       req.MaterialID,
		TemplateID:       req.TemplateID,
		SubscriptionID:   req.SubscriptionID,
		SubscriptionName: req.SubscriptionName,
		RequestedAt:      now,
	})
}

// HandleSendSucceeded records delivery success. A callback for an id that
// never observed a request event emits nothing: the callback may belong to
// an unknown id or have raced a reset, and is silently dropped.
func (a *Aggregate) HandleSendSucceeded(sentAt time.Time) {
	if a.state.Status() != models.StatusRequested {
		return
	}
	a.emit(&models.SendEmailSucceeded{
		NotificationID:   a.id,
		Recipient:        a.state.Notification.Recipient,
		SubscriptionID:   a.state.Notification.SubscriptionID,
		SubscriptionName: a.state.Notification.SubscriptionName,
		SentAt:           sentAt,
	})
}

// HandleSendFailed records delivery failure under the same guard as success.
func (a *Aggregate) HandleSendFailed(errorMessage string, failedAt time.Time, statusCode int) {
	if a.state.Status() != models.StatusRequested {
		return
	}
	a.emit(&models.SendEmailFailed{
		NotificationID:   a.id,
		Recipient:        a.state.Notification.Recipient,
		SubscriptionID:   a.state.Notification.SubscriptionID,
		SubscriptionName: a.state.Notification.SubscriptionName,
		ErrorMessage:     errorMessage,
		StatusCode:       statusCode,
		FailedAt:         failedAt,
	})
}
