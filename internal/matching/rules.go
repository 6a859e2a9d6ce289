package matching

import (
	"casewatch/internal/courtcase"
	"casewatch/internal/mailing"
	"casewatch/internal/matching/filters"
	"casewatch/internal/subscription/models"
)

// defendantBindings flattens matched defendants into template bindings.
func defendantBindings(defendants []courtcase.Defendant) []map[string]any {
	out := make([]map[string]any, 0, len(defendants))
	for _, d := range defendants {
		offences := make([]map[string]any, 0, len(d.Offences))
		for _, o := range d.Offences {
			offences = append(offences, map[string]any{
				"title":   o.Title,
				"plea":    o.Plea,
				"outcome": o.Outcome,
			})
		}
		out = append(out, map[string]any{
			"name":     d.Name(),
			"offences": offences,
		})
	}
	return out
}

// hearingRule is one (hearing, event type, case, subscription) candidate.
type hearingRule struct {
	hearing   *courtcase.Hearing
	eventType string
	prosCase  courtcase.ProsecutionCase
	sub       models.Subscription
	cfg       Config
	renderer  *mailing.Renderer

	matched []courtcase.Defendant
}

// shouldExecute requires the subscription to have declared the hearing's
// event type and the subscription's filter to match the case.
func (r *hearingRule) shouldExecute() (bool, error) {
	if !r.sub.WantsEventType(r.eventType) {
		return false, nil
	}
	res, err := filters.Match(r.sub.Filter, r.prosCase)
	if err != nil {
		return false, err
	}
	r.matched = res.Defendants
	return res.CaseMatches, nil
}

func (r *hearingRule) execute() (EmailInfo, error) {
	caseLink := r.cfg.CaseLink(r.prosCase.ID)
	bindings := map[string]any{
		"case_urn":     r.prosCase.URN,
		"event_type":   r.eventType,
		"court_centre": r.hearing.CourtCentreName,
		"case_link":    caseLink,
		"defendants":   defendantBindings(r.matched),
	}

	subject, err := r.renderer.Render(mailing.HearingSubject, bindings)
	if err != nil {
		return EmailInfo{}, err
	}
	title, err := r.renderer.Render(mailing.HearingTitle, bindings)
	if err != nil {
		return EmailInfo{}, err
	}
	body, err := r.renderer.Render(mailing.HearingBody, bindings)
	if err != nil {
		return EmailInfo{}, err
	}

	return EmailInfo{
		SubscriptionID:   r.sub.ID,
		SubscriptionName: r.sub.Name,
		Subject:          subject,
		Title:            title,
		Body:             body,
		CaseLink:         caseLink,
		TemplateID:       r.cfg.HearingTemplateID,
	}, nil
}

// documentRule is one (document, case, subscription) candidate.
type documentRule struct {
	doc      *courtcase.DocumentRequest
	prosCase courtcase.ProsecutionCase
	sub      models.Subscription
	cfg      Config
	renderer *mailing.Renderer

	matched []courtcase.Defendant
}

// shouldExecute requires the subscription to have declared the document's
// type and the subscription's filter to match the case.
func (r *documentRule) shouldExecute() (bool, error) {
	if !r.sub.WantsDocumentType(r.doc.DocumentType) {
		return false, nil
	}
	res, err := filters.Match(r.sub.Filter, r.prosCase)
	if err != nil {
		return false, err
	}
	r.matched = res.Defendants
	return res.CaseMatches, nil
}

func (r *documentRule) execute() (EmailInfo, error) {
	bindings := map[string]any{
		"case_urn":      r.prosCase.URN,
		"document_type": r.doc.DocumentType,
		"material_id":   r.doc.MaterialID,
		"defendants":    defendantBindings(r.matched),
	}

	subject, err := r.renderer.Render(mailing.DocumentSubject, bindings)
	if err != nil {
		return EmailInfo{}, err
	}
	title, err := r.renderer.Render(mailing.DocumentTitle, bindings)
	if err != nil {
		return EmailInfo{}, err
	}
	body, err := r.renderer.Render(mailing.DocumentBody, bindings)
	if err != nil {
		return EmailInfo{}, err
	}

	return EmailInfo{
		SubscriptionID:   r.sub.ID,
		SubscriptionName: r.sub.Name,
		Subject:          subject,
		Title:            title,
		Body:             body,
		MaterialID:       r.doc.MaterialID,
		TemplateID:       r.cfg.DocumentTemplateID,
	}, nil
}
