// Package store maintains the subscription read model: an in-memory
// projection folded from the event log, queryable by organisation, court and
// subscriber email without replaying streams on every read.
package store

import (
	"sort"
	"sync"

	"casewatch/internal/eventstore"
	"casewatch/internal/subscription"
	"casewatch/internal/subscription/models"
	id "casewatch/pkg/domain"
	dErrors "casewatch/pkg/domain-errors"
)

// Projection folds subscription events into a per-aggregate state table.
// Apply is safe for one writer; queries are safe for concurrent readers.
type Projection struct {
	mu     sync.RWMutex
	states map[id.SubscriptionID]*subscription.State
}

func NewProjection() *Projection {
	return &Projection{states: make(map[id.SubscriptionID]*subscription.State)}
}

// Apply folds one stored envelope. Events from other aggregates are ignored,
// so the projection can consume the store's whole global feed.
func (p *Projection) Apply(env eventstore.Envelope) {
	subID, ok := subscriptionIDOf(env.Event)
	if !ok {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	state, ok := p.states[subID]
	if !ok {
		state = &subscription.State{}
		p.states[subID] = state
	}
	state.Apply(env.Event)
}

func subscriptionIDOf(ev eventstore.Event) (id.SubscriptionID, bool) {
	switch e := ev.(type) {
	case *models.SubscriptionCreated:
		return e.Subscription.ID, true
	case *models.SubscriptionCreatedByUser:
		return e.Subscription.ID, true
	case *models.SubscriptionActivated:
		return e.SubscriptionID, true
	case *models.SubscriptionDeactivated:
		return e.SubscriptionID, true
	case *models.SubscriptionDeleted:
		return e.SubscriptionID, true
	case *models.SubscriptionSubscribed:
		return e.SubscriptionID, true
	case *models.SubscriptionUnsubscribed:
		return e.SubscriptionID, true
	case *models.SubscriberDeleted:
		return e.SubscriptionID, true
	case *models.SubscriberDeleteFailed:
		return e.SubscriptionID, true
	default:
		return id.SubscriptionID{}, false
	}
}

// Get returns the current subscription for an id. Deleted and unknown
// subscriptions are both not found.
func (p *Projection) Get(subID id.SubscriptionID) (models.Subscription, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	state, ok := p.states[subID]
	if !ok || state.Deleted || !state.Created {
		return models.Subscription{}, dErrors.New(dErrors.CodeNotFound, "subscription not found")
	}
	return state.Subscription, nil
}

// ByOrganisation returns every live subscription owned by the organisation,
// active or not, ordered by name for stable listings.
func (p *Projection) ByOrganisation(orgID id.OrganisationID) []models.Subscription {
	return p.collect(func(s models.Subscription) bool {
		return s.OrganisationID == orgID
	})
}

// ActiveByCourt returns active subscriptions watching the given court
// centre. Subscriptions with no court list watch every court.
func (p *Projection) ActiveByCourt(courtID string) []models.Subscription {
	return p.collect(func(s models.Subscription) bool {
		return s.Active && s.CoversCourt(courtID)
	})
}

// ActiveByOrganisationAndEmail returns the organisation's active
// subscriptions that carry the given email on their roster.
func (p *Projection) ActiveByOrganisationAndEmail(orgID id.OrganisationID, email string) []models.Subscription {
	return p.collect(func(s models.Subscription) bool {
		return s.Active && s.OrganisationID == orgID && s.Subscribers.Has(email)
	})
}

func (p *Projection) collect(keep func(models.Subscription) bool) []models.Subscription {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]models.Subscription, 0)
	for _, state := range p.states {
		if state.Deleted || !state.Created {
			continue
		}
		if keep(state.Subscription) {
			out = append(out, state.Subscription)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}
