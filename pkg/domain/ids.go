// Package domain defines the typed identifiers shared across aggregates and
// services. Wrapping uuid.UUID in distinct types prevents a subscription id
// from being passed where a notification id is expected.
package domain

import "github.com/google/uuid"

// SubscriptionID identifies one subscription aggregate instance.
type SubscriptionID uuid.UUID

// SubscriberID identifies a subscriber within one subscription.
type SubscriberID uuid.UUID

// NotificationID identifies one outbound email notification aggregate.
type NotificationID uuid.UUID

// OrganisationID identifies the organisation owning a subscription.
type OrganisationID uuid.UUID

func NewSubscriptionID() SubscriptionID { return SubscriptionID(uuid.New()) }
func NewSubscriberID() SubscriberID     { return SubscriberID(uuid.New()) }
func NewNotificationID() NotificationID { return NotificationID(uuid.New()) }
func NewOrganisationID() OrganisationID { return OrganisationID(uuid.New()) }

func (id SubscriptionID) String() string { return uuid.UUID(id).String() }
func (id SubscriberID) String() string   { return uuid.UUID(id).String() }
func (id NotificationID) String() string { return uuid.UUID(id).String() }
func (id OrganisationID) String() string { return uuid.UUID(id).String() }

func (id SubscriptionID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id NotificationID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id OrganisationID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

// ParseSubscriptionID parses the canonical string form.
func ParseSubscriptionID(s string) (SubscriptionID, error) {
	u, err := uuid.Parse(s)
	return SubscriptionID(u), err
}

// ParseNotificationID parses the canonical string form.
func ParseNotificationID(s string) (NotificationID, error) {
	u, err := uuid.Parse(s)
	return NotificationID(u), err
}

// ParseOrganisationID parses the canonical string form.
func ParseOrganisationID(s string) (OrganisationID, error) {
	u, err := uuid.Parse(s)
	return OrganisationID(u), err
}

func (id SubscriptionID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id *SubscriptionID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = SubscriptionID(u)
	return nil
}

func (id SubscriberID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id *SubscriberID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = SubscriberID(u)
	return nil
}

func (id NotificationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id *NotificationID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = NotificationID(u)
	return nil
}

func (id OrganisationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id *OrganisationID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = OrganisationID(u)
	return nil
}
