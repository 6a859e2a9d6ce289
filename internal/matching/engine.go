// Package matching decides, for an incoming case-domain event and a snapshot
// of active subscriptions, which subscriptions must be notified and with what
// content. The engine is read-only and pure with respect to its inputs:
// evaluation of one subscription never affects another, so subscriptions are
// evaluated in parallel with results stitched back in subscription order.
package matching

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"casewatch/internal/courtcase"
	"casewatch/internal/mailing"
	"casewatch/internal/subscription/models"
	id "casewatch/pkg/domain"
)

// Config carries the shared notification configuration. It is passed into
// the entry points explicitly rather than held as ambient state so matching
// stays a pure function of (event, subscriptions, config).
type Config struct {
	HearingTemplateID  string
	DocumentTemplateID string
	CaseURLBase        string
	CaseAtAGlancePath  string
}

// CaseLink builds the case-at-a-glance URL for a case.
func (c Config) CaseLink(caseID string) string {
	return c.CaseURLBase + c.CaseAtAGlancePath + "/" + caseID
}

// EmailInfo is one notification-dispatch instruction: the content to send to
// every active subscriber of the owning subscription.
type EmailInfo struct {
	SubscriptionID   id.SubscriptionID
	SubscriptionName string
	Subject          string
	Title            string
	Body             string
	CaseLink         string
	MaterialID       string // set only for document-triggered notifications
	TemplateID       string
}

// rule is one independent, stateless match candidate. New notifiable event
// shapes are added as new rule types, not by editing the iteration below.
type rule interface {
	shouldExecute() (bool, error)
	execute() (EmailInfo, error)
}

// Engine evaluates rule candidates for incoming events.
type Engine struct {
	renderer *mailing.Renderer
	logger   *slog.Logger
}

func NewEngine(renderer *mailing.Renderer, logger *slog.Logger) *Engine {
	return &Engine{renderer: renderer, logger: logger}
}

// MatchHearing produces dispatch instructions for a resulted hearing. An
// absent hearing or empty case list produces an empty result: logged and
// skipped, not an error. Result order is subscription iteration order, then
// the hearing's event-type order, then case order.
func (e *Engine) MatchHearing(ctx context.Context, hearing *courtcase.Hearing, subs []models.Subscription, cfg Config) ([]EmailInfo, error) {
	if hearing == nil || len(hearing.ProsecutionCases) == 0 {
		e.logger.InfoContext(ctx, "hearing has no prosecution cases, skipping match")
		return nil, nil
	}

	return e.evaluate(ctx, subs, func(sub models.Subscription) []rule {
		var candidates []rule
		for _, eventType := range hearing.EventTypes {
			for _, prosecutionCase := range hearing.ProsecutionCases {
				candidates = append(candidates, &hearingRule{
					hearing:   hearing,
					eventType: eventType,
					prosCase:  prosecutionCase,
					sub:       sub,
					cfg:       cfg,
					renderer:  e.renderer,
				})
			}
		}
		return candidates
	})
}

// MatchDocument produces dispatch instructions for a generated now/EDT
// document, referencing the material id instead of a hearing link.
func (e *Engine) MatchDocument(ctx context.Context, doc *courtcase.DocumentRequest, subs []models.Subscription, cfg Config) ([]EmailInfo, error) {
	if doc == nil || len(doc.Cases) == 0 {
		e.logger.InfoContext(ctx, "document request has no cases, skipping match")
		return nil, nil
	}

	return e.evaluate(ctx, subs, func(sub models.Subscription) []rule {
		var candidates []rule
		for _, docCase := range doc.Cases {
			candidates = append(candidates, &documentRule{
				doc:      doc,
				prosCase: docCase,
				sub:      sub,
				cfg:      cfg,
				renderer: e.renderer,
			})
		}
		return candidates
	})
}

// evaluate runs each subscription's rule candidates concurrently, preserving
// subscription order in the flattened result.
func (e *Engine) evaluate(ctx context.Context, subs []models.Subscription, candidatesFor func(models.Subscription) []rule) ([]EmailInfo, error) {
	results := make([][]EmailInfo, len(subs))
	g, _ := errgroup.WithContext(ctx)

	for i, sub := range subs {
		if !sub.Active {
			continue
		}
		g.Go(func() error {
			for _, candidate := range candidatesFor(sub) {
				ok, err := candidate.shouldExecute()
				if err != nil {
					return err
				}
				if !ok {
					continue
				}
				info, err := candidate.execute()
				if err != nil {
					return err
				}
				results[i] = append(results[i], info)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var flat []EmailInfo
	for _, r := range results {
		flat = append(flat, r...)
	}
	return flat, nil
}
