package models

import (
	id "casewatch/pkg/domain"
)

// Subscription is the aggregate's externally visible state: the definition
// of what case activity a group of subscribers wants to be emailed about.
//
// Invariants:
//   - Active is true iff at least one subscriber is active, except the
//     instant after the last-subscriber delete, when the subscription is
//     deleted outright rather than deactivated.
//   - Subscriber emails are unique within the subscription.
//   - A deleted subscription accepts no further mutations.
type Subscription struct {
	ID             id.SubscriptionID `json:"id"`
	Name           string            `json:"name"`
	Active         bool              `json:"active"`
	OrganisationID id.OrganisationID `json:"organisation_id"`
	CourtIDs       []string          `json:"court_ids,omitempty"`
	EventTypes     []string          `json:"event_types,omitempty"`
	DocumentTypes  []string          `json:"document_types,omitempty"`
	Filter         *Filter           `json:"filter,omitempty"`
	Subscribers    Roster            `json:"subscribers"`
}

// WantsEventType reports whether the subscription declared interest in the
// given hearing outcome tag.
func (s Subscription) WantsEventType(tag string) bool {
	for _, t := range s.EventTypes {
		if t == tag {
			return true
		}
	}
	return false
}

// WantsDocumentType reports whether the subscription declared interest in
// the given now/EDT document type tag.
func (s Subscription) WantsDocumentType(tag string) bool {
	for _, t := range s.DocumentTypes {
		if t == tag {
			return true
		}
	}
	return false
}

// CoversCourt reports whether the subscription watches the given court. An
// empty court list means all courts.
func (s Subscription) CoversCourt(courtID string) bool {
	if len(s.CourtIDs) == 0 {
		return true
	}
	for _, c := range s.CourtIDs {
		if c == courtID {
			return true
		}
	}
	return false
}
