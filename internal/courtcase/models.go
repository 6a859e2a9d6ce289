// Package courtcase models the inbound case-domain events consumed by the
// matching engine: resulted hearings and generated now/EDT documents. These
// are externally sourced and opaque beyond the fields used for matching and
// notification content.
package courtcase

import "time"

// PersonDetails carries the identity fields used by defendant filters.
type PersonDetails struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"` // YYYY-MM-DD, matched exactly
	Gender      string `json:"gender"`
}

// Offence is one charged offence with its recorded result.
type Offence struct {
	Code    string `json:"code"`
	Title   string `json:"title"`
	Plea    string `json:"plea,omitempty"`
	Outcome string `json:"outcome,omitempty"`
}

// Defendant is one defendant on a prosecution case. Person may be absent on
// incomplete upstream data; filters treat a missing person as a non-match.
type Defendant struct {
	ID       string         `json:"id"`
	Person   *PersonDetails `json:"person,omitempty"`
	Youth    *bool          `json:"youth,omitempty"`
	Offences []Offence      `json:"offences,omitempty"`
}

// IsAdult classifies the defendant for AGE filtering: no youth flag, or a
// youth flag explicitly false, counts as adult.
func (d Defendant) IsAdult() bool {
	return d.Youth == nil || !*d.Youth
}

// Name returns "First Last" or empty when person details are absent.
func (d Defendant) Name() string {
	if d.Person == nil {
		return ""
	}
	return d.Person.FirstName + " " + d.Person.LastName
}

// ProsecutionCase is one case carried by a hearing or document.
type ProsecutionCase struct {
	ID         string      `json:"id"`
	URN        string      `json:"urn"`
	Defendants []Defendant `json:"defendants,omitempty"`
}

// Hearing is a resulted hearing carrying zero or more prosecution cases.
// EventTypes lists the notifiable outcome tags this hearing produced.
type Hearing struct {
	ID               string            `json:"id"`
	CourtCentreID    string            `json:"court_centre_id"`
	CourtCentreName  string            `json:"court_centre_name,omitempty"`
	ResultedAt       time.Time         `json:"resulted_at"`
	EventTypes       []string          `json:"event_types,omitempty"`
	ProsecutionCases []ProsecutionCase `json:"prosecution_cases,omitempty"`
}

// DocumentRequest is a generated court document (now/EDT) that can trigger
// notification independent of a hearing result.
type DocumentRequest struct {
	MaterialID    string            `json:"material_id"`
	DocumentType  string            `json:"document_type"`
	CourtCentreID string            `json:"court_centre_id,omitempty"`
	Cases         []ProsecutionCase `json:"cases,omitempty"`
}
