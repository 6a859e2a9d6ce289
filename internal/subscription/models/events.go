package models

import (
	"casewatch/internal/eventstore"
	id "casewatch/pkg/domain"
)

// Event type tags published by the subscription aggregate.
const (
	EventSubscriptionCreated       = "subscription-created"
	EventSubscriptionCreatedByUser = "subscription-created-by-user"
	EventSubscriptionActivated     = "subscription-activated"
	EventSubscriptionDeactivated   = "subscription-deactivated"
	EventSubscriptionDeleted       = "subscription-deleted"
	EventSubscriptionSubscribed    = "subscription-subscribed"
	EventSubscriptionUnsubscribed  = "subscription-unsubscribed"
	EventSubscriberDeleted         = "subscriber-deleted"
	EventSubscriberDeleteFailed    = "subscriber-delete-failed"
)

// Recorded reasons for SubscriberDeleteFailed. These are persisted in the
// aggregate's own history for audit rather than raised to the caller.
const (
	ReasonSubscriptionNotFound = "Subscription does not exist"
	ReasonSubscriberNotMember  = "Subscriber does not subscribe to given subscription"
)

// SubscriptionCreated records an admin-created subscription with its full
// initial definition and roster.
type SubscriptionCreated struct {
	OrganisationID id.OrganisationID `json:"organisation_id"`
	Subscription   Subscription      `json:"subscription"`
}

func (SubscriptionCreated) EventType() string { return EventSubscriptionCreated }

// SubscriptionCreatedByUser records a self-service creation where the
// creator is the sole initial (active) subscriber.
type SubscriptionCreatedByUser struct {
	OrganisationID id.OrganisationID `json:"organisation_id"`
	Subscription   Subscription      `json:"subscription"`
	CreatorEmail   string            `json:"creator_email"`
}

func (SubscriptionCreatedByUser) EventType() string { return EventSubscriptionCreatedByUser }

// SubscriptionActivated flips the subscription and every subscriber active.
type SubscriptionActivated struct {
	SubscriptionID id.SubscriptionID `json:"subscription_id"`
}

func (SubscriptionActivated) EventType() string { return EventSubscriptionActivated }

// SubscriptionDeactivated flips the subscription and every subscriber inactive.
type SubscriptionDeactivated struct {
	SubscriptionID id.SubscriptionID `json:"subscription_id"`
}

func (SubscriptionDeactivated) EventType() string { return EventSubscriptionDeactivated }

// SubscriptionDeleted is the terminal lifecycle event.
type SubscriptionDeleted struct {
	SubscriptionID id.SubscriptionID `json:"subscription_id"`
}

func (SubscriptionDeleted) EventType() string { return EventSubscriptionDeleted }

// SubscriptionSubscribed toggles an existing roster member active.
type SubscriptionSubscribed struct {
	SubscriptionID id.SubscriptionID `json:"subscription_id"`
	Email          string            `json:"email"`
}

func (SubscriptionSubscribed) EventType() string { return EventSubscriptionSubscribed }

// SubscriptionUnsubscribed toggles an existing roster member inactive.
type SubscriptionUnsubscribed struct {
	SubscriptionID id.SubscriptionID `json:"subscription_id"`
	Email          string            `json:"email"`
}

func (SubscriptionUnsubscribed) EventType() string { return EventSubscriptionUnsubscribed }

// SubscriberDeleted removes a member from the roster.
type SubscriberDeleted struct {
	SubscriptionID id.SubscriptionID `json:"subscription_id"`
	SubscriberID   id.SubscriberID   `json:"subscriber_id"`
	Email          string            `json:"email"`
}

func (SubscriberDeleted) EventType() string { return EventSubscriberDeleted }

// SubscriberDeleteFailed records a rejected subscriber delete with a
// human-readable reason, preserving the attempt in the event history.
type SubscriberDeleteFailed struct {
	SubscriptionID id.SubscriptionID `json:"subscription_id"`
	Email          string            `json:"email"`
	Reason         string            `json:"reason"`
}

func (SubscriberDeleteFailed) EventType() string { return EventSubscriberDeleteFailed }

// RegisterEvents binds every subscription event to the store registry so
// persisted streams decode back into typed events.
func RegisterEvents(r *eventstore.Registry) {
	r.Register(EventSubscriptionCreated, func() eventstore.Event { return &SubscriptionCreated{} })
	r.Register(EventSubscriptionCreatedByUser, func() eventstore.Event { return &SubscriptionCreatedByUser{} })
	r.Register(EventSubscriptionActivated, func() eventstore.Event { return &SubscriptionActivated{} })
	r.Register(EventSubscriptionDeactivated, func() eventstore.Event { return &SubscriptionDeactivated{} })
	r.Register(EventSubscriptionDeleted, func() eventstore.Event { return &SubscriptionDeleted{} })
	r.Register(EventSubscriptionSubscribed, func() eventstore.Event { return &SubscriptionSubscribed{} })
	r.Register(EventSubscriptionUnsubscribed, func() eventstore.Event { return &SubscriptionUnsubscribed{} })
	r.Register(EventSubscriberDeleted, func() eventstore.Event { return &SubscriberDeleted{} })
	r.Register(EventSubscriberDeleteFailed, func() eventstore.Event { return &SubscriberDeleteFailed{} })
}
