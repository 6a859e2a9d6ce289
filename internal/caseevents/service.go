// Package caseevents receives case-domain events from the court platform
// and drives the match-and-dispatch pipeline: snapshot the subscriptions
// watching the court, match, fan out to recipients, queue the sends.
package caseevents

import (
	"context"
	"log/slog"

	"casewatch/internal/courtcase"
	"casewatch/internal/dispatch"
	"casewatch/internal/matching"
	"casewatch/internal/platform/metrics"
	"casewatch/internal/subscription/models"
	dErrors "casewatch/pkg/domain-errors"
)

// SubscriptionReader supplies the subscription snapshot for a court.
type SubscriptionReader interface {
	ActiveByCourt(courtID string) []models.Subscription
}

// Service orchestrates one incoming event end to end.
type Service struct {
	subscriptions SubscriptionReader
	engine        *matching.Engine
	router        *dispatch.Router
	queue         dispatch.Queue
	cfg           matching.Config
	logger        *slog.Logger
	metrics       *metrics.Metrics
}

func New(
	subscriptions SubscriptionReader,
	engine *matching.Engine,
	router *dispatch.Router,
	queue dispatch.Queue,
	cfg matching.Config,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		subscriptions: subscriptions,
		engine:        engine,
		router:        router,
		queue:         queue,
		cfg:           cfg,
		logger:        logger,
		metrics:       m,
	}
}

// HandleHearingResulted matches a resulted hearing against the court's
// active subscriptions and queues one send per matched recipient. Returns
// the number of queued commands.
func (s *Service) HandleHearingResulted(ctx context.Context, hearing *courtcase.Hearing) (int, error) {
	if hearing == nil {
		return 0, dErrors.New(dErrors.CodeBadRequest, "hearing is required")
	}

	subs := s.subscriptions.ActiveByCourt(hearing.CourtCentreID)
	infos, err := s.engine.MatchHearing(ctx, hearing, subs, s.cfg)
	if err != nil {
		return 0, err
	}
	if s.metrics != nil {
		s.metrics.EventsMatched.WithLabelValues("hearing").Add(float64(len(infos)))
	}

	queued, err := s.enqueue(ctx, infos, subs)
	if err != nil {
		return queued, err
	}

	s.logger.InfoContext(ctx, "hearing resulted processed",
		"hearing_id", hearing.ID,
		"court_centre_id", hearing.CourtCentreID,
		"subscriptions", len(subs),
		"matches", len(infos),
		"queued", queued,
	)
	return queued, nil
}

// HandleDocumentRequested matches a generated now/EDT document the same way.
func (s *Service) HandleDocumentRequested(ctx context.Context, doc *courtcase.DocumentRequest) (int, error) {
	if doc == nil {
		return 0, dErrors.New(dErrors.CodeBadRequest, "document request is required")
	}

	subs := s.subscriptions.ActiveByCourt(doc.CourtCentreID)
	infos, err := s.engine.MatchDocument(ctx, doc, subs, s.cfg)
	if err != nil {
		return 0, err
	}
	if s.metrics != nil {
		s.metrics.EventsMatched.WithLabelValues("document").Add(float64(len(infos)))
	}

	queued, err := s.enqueue(ctx, infos, subs)
	if err != nil {
		return queued, err
	}

	s.logger.InfoContext(ctx, "document request processed",
		"material_id", doc.MaterialID,
		"court_centre_id", doc.CourtCentreID,
		"subscriptions", len(subs),
		"matches", len(infos),
		"queued", queued,
	)
	return queued, nil
}

func (s *Service) enqueue(ctx context.Context, infos []matching.EmailInfo, subs []models.Subscription) (int, error) {
	commands := s.router.Route(infos, subs)
	for i, cmd := range commands {
		if err := s.queue.Enqueue(ctx, cmd); err != nil {
			return i, dErrors.Wrap(err, dErrors.CodeInternal, "queue send command")
		}
	}
	return len(commands), nil
}
