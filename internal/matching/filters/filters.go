// Package filters implements the predicate strategies matching a case's
// defendants against a subscription's filter criterion. One strategy per
// filter kind; adding a kind means adding a strategy, never editing the
// iteration logic.
package filters

import (
	"strings"

	"casewatch/internal/courtcase"
	"casewatch/internal/subscription/models"
	dErrors "casewatch/pkg/domain-errors"
)

// Result is the outcome of evaluating one filter against one case.
type Result struct {
	// CaseMatches is true if any defendant in the case satisfies the filter.
	CaseMatches bool
	// Defendants is the subset satisfying the filter, used to personalize
	// notification content.
	Defendants []courtcase.Defendant
}

// predicate decides whether a defendant (in the context of its case)
// satisfies a filter. Implementations must be deterministic and
// side-effect-free, and must treat absent sub-fields as non-matching.
type predicate func(f models.Filter, c courtcase.ProsecutionCase, d courtcase.Defendant) bool

var strategies = map[models.FilterKind]predicate{
	models.FilterDefendant:     matchDefendant,
	models.FilterCaseReference: matchCaseReference,
	models.FilterGender:        matchGender,
	models.FilterOffence:       matchOffence,
	models.FilterAge:           matchAge,
}

// Match evaluates the subscription's filter against a case. A nil filter
// matches the case itself along with every defendant, so cases carrying no
// defendant data still match. An unrecognized kind fails fast rather than
// silently matching everything.
func Match(f *models.Filter, c courtcase.ProsecutionCase) (Result, error) {
	if f == nil {
		return Result{
			CaseMatches: true,
			Defendants:  append([]courtcase.Defendant(nil), c.Defendants...),
		}, nil
	}

	strategy, ok := strategies[f.Kind]
	if !ok {
		return Result{}, dErrors.Newf(dErrors.CodeUnsupported, "unsupported filter kind %q", f.Kind)
	}

	var matched []courtcase.Defendant
	for _, d := range c.Defendants {
		if strategy(*f, c, d) {
			matched = append(matched, d)
		}
	}
	return Result{CaseMatches: len(matched) > 0, Defendants: matched}, nil
}

// matchDefendant requires first name, last name and date of birth to all
// match; names case-insensitively, date of birth exactly.
func matchDefendant(f models.Filter, _ courtcase.ProsecutionCase, d courtcase.Defendant) bool {
	if d.Person == nil {
		return false
	}
	return strings.EqualFold(d.Person.FirstName, f.DefendantFirstName) &&
		strings.EqualFold(d.Person.LastName, f.DefendantLastName) &&
		d.Person.DateOfBirth == f.DefendantDateOfBirth
}

// matchCaseReference is a case-level predicate: when the URN matches, every
// defendant on the case matches.
func matchCaseReference(f models.Filter, c courtcase.ProsecutionCase, _ courtcase.Defendant) bool {
	return c.URN != "" && c.URN == f.CaseURN
}

func matchGender(f models.Filter, _ courtcase.ProsecutionCase, d courtcase.Defendant) bool {
	if d.Person == nil {
		return false
	}
	return strings.EqualFold(d.Person.Gender, f.Gender)
}

func matchOffence(f models.Filter, _ courtcase.ProsecutionCase, d courtcase.Defendant) bool {
	for _, o := range d.Offences {
		if o.Code == f.OffenceCode {
			return true
		}
	}
	return false
}

func matchAge(f models.Filter, _ courtcase.ProsecutionCase, d courtcase.Defendant) bool {
	return d.IsAdult() == f.IsAdult
}
