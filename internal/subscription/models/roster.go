package models

import (
	"encoding/json"
	"strings"

	id "casewatch/pkg/domain"
)

// Subscriber is one email recipient within a subscription.
type Subscriber struct {
	ID     id.SubscriberID `json:"id"`
	Email  string          `json:"email"`
	Active bool            `json:"active"`
}

// Roster is an immutable ordered collection of subscribers keyed by email
// (case-insensitive). Transition methods return a new roster rather than
// mutating in place, which keeps event replay deterministic. Insertion
// order is preserved.
type Roster struct {
	members []Subscriber
}

// NewRoster builds a roster from subscribers, dropping duplicate emails
// (first occurrence wins).
func NewRoster(subscribers ...Subscriber) Roster {
	r := Roster{}
	for _, sub := range subscribers {
		if r.Has(sub.Email) {
			continue
		}
		r.members = append(r.members, sub)
	}
	return r
}

func emailKey(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// Has reports whether email is a member of the roster.
func (r Roster) Has(email string) bool {
	_, ok := r.Get(email)
	return ok
}

// Get returns the subscriber with the given email.
func (r Roster) Get(email string) (Subscriber, bool) {
	key := emailKey(email)
	for _, m := range r.members {
		if emailKey(m.Email) == key {
			return m, true
		}
	}
	return Subscriber{}, false
}

// WithActive returns a roster with the given member's active flag set.
// Unknown emails return the roster unchanged.
func (r Roster) WithActive(email string, active bool) Roster {
	key := emailKey(email)
	out := make([]Subscriber, len(r.members))
	copy(out, r.members)
	for i := range out {
		if emailKey(out[i].Email) == key {
			out[i].Active = active
		}
	}
	return Roster{members: out}
}

// WithAllActive returns a roster with every member's active flag set.
func (r Roster) WithAllActive(active bool) Roster {
	out := make([]Subscriber, len(r.members))
	copy(out, r.members)
	for i := range out {
		out[i].Active = active
	}
	return Roster{members: out}
}

// Without returns a roster with the given member removed.
func (r Roster) Without(email string) Roster {
	key := emailKey(email)
	out := make([]Subscriber, 0, len(r.members))
	for _, m := range r.members {
		if emailKey(m.Email) != key {
			out = append(out, m)
		}
	}
	return Roster{members: out}
}

// All returns the members in insertion order.
func (r Roster) All() []Subscriber {
	out := make([]Subscriber, len(r.members))
	copy(out, r.members)
	return out
}

// ActiveMembers returns the active members in insertion order.
func (r Roster) ActiveMembers() []Subscriber {
	var out []Subscriber
	for _, m := range r.members {
		if m.Active {
			out = append(out, m)
		}
	}
	return out
}

// AnyActive reports whether at least one member is active.
func (r Roster) AnyActive() bool {
	for _, m := range r.members {
		if m.Active {
			return true
		}
	}
	return false
}

// Len returns the member count.
func (r Roster) Len() int { return len(r.members) }

func (r Roster) MarshalJSON() ([]byte, error) {
	if r.members == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r.members)
}

func (r *Roster) UnmarshalJSON(b []byte) error {
	var members []Subscriber
	if err := json.Unmarshal(b, &members); err != nil {
		return err
	}
	*r = NewRoster(members...)
	return nil
}
