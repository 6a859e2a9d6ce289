package models

// FilterKind tags the single criterion a subscription may attach to narrow
// which case activity triggers notification.
type FilterKind string

const (
	FilterDefendant     FilterKind = "DEFENDANT"
	FilterCaseReference FilterKind = "CASE_REFERENCE"
	FilterGender        FilterKind = "GENDER"
	FilterOffence       FilterKind = "OFFENCE"
	FilterAge           FilterKind = "AGE"
)

// Filter is a tagged variant: exactly the fields for its kind are set.
// Matching semantics live in internal/matching/filters; this type only
// carries the criterion.
type Filter struct {
	Kind FilterKind `json:"kind"`

	// FilterDefendant: all three required; names matched case-insensitively,
	// date of birth exactly.
	DefendantFirstName   string `json:"defendant_first_name,omitempty"`
	DefendantLastName    string `json:"defendant_last_name,omitempty"`
	DefendantDateOfBirth string `json:"defendant_date_of_birth,omitempty"`

	// FilterCaseReference: case URN, exact match.
	CaseURN string `json:"case_urn,omitempty"`

	// FilterGender: enum match.
	Gender string `json:"gender,omitempty"`

	// FilterOffence: offence code, exact match.
	OffenceCode string `json:"offence_code,omitempty"`

	// FilterAge: matches defendants whose adult classification equals IsAdult.
	IsAdult bool `json:"is_adult,omitempty"`
}
