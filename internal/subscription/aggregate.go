// Package subscription implements the event-sourced subscription aggregate:
// the lifecycle state machine owning one subscription's definition and
// subscriber roster. State is reconstructed solely by replaying the
// aggregate's own event history in emission order.
package subscription

import (
	"casewatch/internal/eventstore"
	"casewatch/internal/subscription/models"
	id "casewatch/pkg/domain"
)

// Status captures the lifecycle position of the state machine.
type Status string

const (
	StatusUninitialized Status = "uninitialized"
	StatusActive        Status = "active"
	StatusInactive      Status = "inactive"
	StatusDeleted       Status = "deleted"
)

// State is the folded aggregate state. Apply is a total function of
// (state, event); it never branches on external time or IO, so replay is
// deterministic. The projection in the store package folds the same State.
type State struct {
	Created      bool
	Deleted      bool
	Subscription models.Subscription
}

// Status derives the lifecycle state from the folded flags.
func (s State) Status() Status {
	switch {
	case s.Deleted:
		return StatusDeleted
	case !s.Created:
		return StatusUninitialized
	case s.Subscription.Active:
		return StatusActive
	default:
		return StatusInactive
	}
}

// live reports whether the aggregate accepts lifecycle mutations.
func (s State) live() bool { return s.Created && !s.Deleted }

// Apply folds one event into the state.
func (s *State) Apply(ev eventstore.Event) {
	switch e := ev.(type) {
	case *models.SubscriptionCreated:
		s.Created = true
		s.Subscription = e.Subscription
	case *models.SubscriptionCreatedByUser:
		s.Created = true
		s.Subscription = e.Subscription
	case *models.SubscriptionActivated:
		s.Subscription.Active = true
		s.Subscription.Subscribers = s.Subscription.Subscribers.WithAllActive(true)
	case *models.SubscriptionDeactivated:
		s.Subscription.Active = false
		s.Subscription.Subscribers = s.Subscription.Subscribers.WithAllActive(false)
	case *models.SubscriptionDeleted:
		s.Deleted = true
		s.Subscription.Active = false
	case *models.SubscriptionSubscribed:
		s.Subscription.Subscribers = s.Subscription.Subscribers.WithActive(e.Email, true)
		s.Subscription.Active = true
	case *models.SubscriptionUnsubscribed:
		s.Subscription.Subscribers = s.Subscription.Subscribers.WithActive(e.Email, false)
		s.Subscription.Active = s.Subscription.Subscribers.AnyActive()
	case *models.SubscriberDeleted:
		s.Subscription.Subscribers = s.Subscription.Subscribers.Without(e.Email)
	case *models.SubscriberDeleteFailed:
		// Recorded business failure; no state change.
	}
}

// Aggregate pairs folded state with the events a command decided to emit.
type Aggregate struct {
	id      id.SubscriptionID
	state   State
	pending []eventstore.Event
}

// New returns an uninitialized aggregate for the given id.
func New(subscriptionID id.SubscriptionID) *Aggregate {
	return &Aggregate{id: subscriptionID}
}

// Replay folds historical envelopes into state.
func (a *Aggregate) Replay(history []eventstore.Envelope) {
	for _, env := range history {
		a.state.Apply(env.Event)
	}
}

// State exposes a copy of the folded state for read-side callers.
func (a *Aggregate) State() State { return a.state }

// DrainPending returns and clears the events emitted by commands since the
// last drain. Callers append them to the store in this exact order.
func (a *Aggregate) DrainPending() []eventstore.Event {
	p := a.pending
	a.pending = nil
	return p
}

func (a *Aggregate) emit(ev eventstore.Event) {
	a.state.Apply(ev)
	a.pending = append(a.pending, ev)
}

// CreateByAdmin records an admin-created subscription. The supplied roster
// is taken as-is; every supplied subscriber starts active, and the
// subscription starts active.
func (a *Aggregate) CreateByAdmin(orgID id.OrganisationID, sub models.Subscription) {
	if a.state.Created || a.state.Deleted {
		return
	}
	sub.ID = a.id
	sub.OrganisationID = orgID
	sub.Active = true
	sub.Subscribers = sub.Subscribers.WithAllActive(true)
	a.emit(&models.SubscriptionCreated{OrganisationID: orgID, Subscription: sub})
}

// CreateByUser records a self-service creation: the creator is forced to be
// the sole initial subscriber, active.
func (a *Aggregate) CreateByUser(orgID id.OrganisationID, sub models.Subscription, creatorEmail string) {
	if a.state.Created || a.state.Deleted {
		return
	}
	sub.ID = a.id
	sub.OrganisationID = orgID
	sub.Active = true
	sub.Subscribers = models.NewRoster(models.Subscriber{
		ID:     id.NewSubscriberID(),
		Email:  creatorEmail,
		Active: true,
	})
	a.emit(&models.SubscriptionCreatedByUser{
		OrganisationID: orgID,
		Subscription:   sub,
		CreatorEmail:   creatorEmail,
	})
}

// Activate emits an activation, flipping every subscriber active.
// No-op once deleted.
func (a *Aggregate) Activate() {
	if !a.state.live() {
		return
	}
	a.emit(&models.SubscriptionActivated{SubscriptionID: a.id})
}

// Deactivate emits a deactivation, flipping every subscriber inactive.
// No-op once deleted.
func (a *Aggregate) Deactivate() {
	if !a.state.live() {
		return
	}
	a.emit(&models.SubscriptionDeactivated{SubscriptionID: a.id})
}

// Subscribe toggles an existing roster member active. The roster is fixed at
// creation for this operation: unknown emails are a policy no-op, not an
// addition.
func (a *Aggregate) Subscribe(email string) {
	if !a.state.live() || !a.state.Subscription.Subscribers.Has(email) {
		return
	}
	a.emit(&models.SubscriptionSubscribed{SubscriptionID: a.id, Email: email})
}

// Unsubscribe toggles an existing roster member inactive. Deactivating the
// last active subscriber deactivates the subscription via the fold.
func (a *Aggregate) Unsubscribe(email string) {
	if !a.state.live() || !a.state.Subscription.Subscribers.Has(email) {
		return
	}
	a.emit(&models.SubscriptionUnsubscribed{SubscriptionID: a.id, Email: email})
}

// Delete records the terminal tombstone. Emitting is unconditional so every
// delete attempt lands in the stream; replaying repeated tombstones folds to
// the same deleted state.
func (a *Aggregate) Delete() {
	a.emit(&models.SubscriptionDeleted{SubscriptionID: a.id})
}

// DeleteSubscriber removes a member. Rejections are recorded as
// SubscriberDeleteFailed events in the aggregate's own history rather than
// returned as errors. Removing the last remaining subscriber deletes the
// subscription; removing the last active one deactivates it. Both trailing
// events are emitted within the same command batch, applied in order.
func (a *Aggregate) DeleteSubscriber(email string) {
	if !a.state.live() {
		a.emit(&models.SubscriberDeleteFailed{
			SubscriptionID: a.id,
			Email:          email,
			Reason:         models.ReasonSubscriptionNotFound,
		})
		return
	}
	member, ok := a.state.Subscription.Subscribers.Get(email)
	if !ok {
		a.emit(&models.SubscriberDeleteFailed{
			SubscriptionID: a.id,
			Email:          email,
			Reason:         models.ReasonSubscriberNotMember,
		})
		return
	}

	a.emit(&models.SubscriberDeleted{
		SubscriptionID: a.id,
		SubscriberID:   member.ID,
		Email:          member.Email,
	})
	if a.state.Subscription.Subscribers.Len() == 0 {
		a.emit(&models.SubscriptionDeleted{SubscriptionID: a.id})
		return
	}
	if !a.state.Subscription.Subscribers.AnyActive() {
		a.emit(&models.SubscriptionDeactivated{SubscriptionID: a.id})
	}
}
