// Package service exposes the subscription command surface. Every command
// follows the same cycle: replay the aggregate's stream, evaluate the
// command against folded state, append the emitted events at the expected
// version, and retry from scratch when a concurrent writer won the append.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/asaskevich/govalidator"

	"casewatch/internal/eventstore"
	"casewatch/internal/platform/metrics"
	"casewatch/internal/subscription"
	"casewatch/internal/subscription/models"
	id "casewatch/pkg/domain"
	dErrors "casewatch/pkg/domain-errors"
	"casewatch/pkg/platform/sentinel"
	pstrings "casewatch/pkg/platform/strings"
)

// maxAttempts bounds the stale-version retry loop per command.
const maxAttempts = 3

// StreamID names the event stream for a subscription aggregate.
func StreamID(subID id.SubscriptionID) string {
	return "subscription-" + subID.String()
}

// Service orchestrates subscription lifecycle commands.
type Service struct {
	store   eventstore.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(store eventstore.Store, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{store: store, logger: logger, metrics: m}
}

// runCommand performs one load-replay-decide-append cycle, retrying on
// stale version. The aggregate's in-memory state is discarded and rebuilt
// on every attempt.
func (s *Service) runCommand(ctx context.Context, subID id.SubscriptionID, command func(*subscription.Aggregate)) error {
	streamID := StreamID(subID)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		history, version, err := s.store.Load(ctx, streamID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "load subscription stream")
		}

		agg := subscription.New(subID)
		agg.Replay(history)
		command(agg)

		events := agg.DrainPending()
		if len(events) == 0 {
			// Policy no-op: semantically invalid for current state, not an error.
			return nil
		}

		err = s.store.Append(ctx, streamID, version, events)
		if err == nil {
			return nil
		}
		if !errors.Is(err, sentinel.ErrStaleVersion) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "append subscription events")
		}
		s.logger.InfoContext(ctx, "stale subscription stream, retrying command",
			"subscription_id", subID.String(), "attempt", attempt+1)
	}
	return dErrors.New(dErrors.CodeConflict, "subscription command lost too many concurrent races")
}

func validateDefinition(orgID id.OrganisationID, def models.Subscription) error {
	if orgID.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "requester has no associated organisation")
	}
	if def.Name == "" {
		return dErrors.New(dErrors.CodeBadRequest, "subscription name is required")
	}
	if err := validateFilter(def.Filter); err != nil {
		return err
	}
	for _, member := range def.Subscribers.All() {
		if !govalidator.IsEmail(member.Email) {
			return dErrors.Newf(dErrors.CodeInvalidInput, "invalid subscriber email %q", member.Email)
		}
	}
	return nil
}

// validateFilter rejects filter kinds the matching engine does not know, so
// a bad definition fails at creation rather than on its first event.
func validateFilter(f *models.Filter) error {
	if f == nil {
		return nil
	}
	switch f.Kind {
	case models.FilterDefendant, models.FilterCaseReference, models.FilterGender,
		models.FilterOffence, models.FilterAge:
		return nil
	default:
		return dErrors.Newf(dErrors.CodeUnsupported, "unsupported filter kind %q", f.Kind)
	}
}

// normalizeDefinition drops duplicate and blank entries from the definition's
// tag lists while preserving order.
func normalizeDefinition(def models.Subscription) models.Subscription {
	def.CourtIDs = pstrings.DedupeAndTrim(def.CourtIDs)
	def.EventTypes = pstrings.DedupeAndTrim(def.EventTypes)
	def.DocumentTypes = pstrings.DedupeAndTrim(def.DocumentTypes)
	return def
}

// CreateByAdmin creates a subscription with an arbitrary initial roster.
func (s *Service) CreateByAdmin(ctx context.Context, orgID id.OrganisationID, def models.Subscription) (id.SubscriptionID, error) {
	if err := validateDefinition(orgID, def); err != nil {
		return id.SubscriptionID{}, err
	}
	def = normalizeDefinition(def)

	subID := def.ID
	if subID.IsZero() {
		subID = id.NewSubscriptionID()
	}
	err := s.runCommand(ctx, subID, func(agg *subscription.Aggregate) {
		agg.CreateByAdmin(orgID, def)
	})
	if err != nil {
		return id.SubscriptionID{}, err
	}
	if s.metrics != nil {
		s.metrics.SubscriptionsCreated.Inc()
	}
	return subID, nil
}

// CreateByUser creates a subscription whose creator is the sole initial
// active subscriber.
func (s *Service) CreateByUser(ctx context.Context, orgID id.OrganisationID, def models.Subscription, creatorEmail string) (id.SubscriptionID, error) {
	if orgID.IsZero() {
		return id.SubscriptionID{}, dErrors.New(dErrors.CodeBadRequest, "requester has no associated organisation")
	}
	if def.Name == "" {
		return id.SubscriptionID{}, dErrors.New(dErrors.CodeBadRequest, "subscription name is required")
	}
	if !govalidator.IsEmail(creatorEmail) {
		return id.SubscriptionID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid creator email")
	}
	if err := validateFilter(def.Filter); err != nil {
		return id.SubscriptionID{}, err
	}
	def = normalizeDefinition(def)

	subID := def.ID
	if subID.IsZero() {
		subID = id.NewSubscriptionID()
	}
	err := s.runCommand(ctx, subID, func(agg *subscription.Aggregate) {
		agg.CreateByUser(orgID, def, creatorEmail)
	})
	if err != nil {
		return id.SubscriptionID{}, err
	}
	if s.metrics != nil {
		s.metrics.SubscriptionsCreated.Inc()
	}
	return subID, nil
}

func (s *Service) Activate(ctx context.Context, subID id.SubscriptionID) error {
	return s.runCommand(ctx, subID, func(agg *subscription.Aggregate) { agg.Activate() })
}

func (s *Service) Deactivate(ctx context.Context, subID id.SubscriptionID) error {
	return s.runCommand(ctx, subID, func(agg *subscription.Aggregate) { agg.Deactivate() })
}

func (s *Service) Delete(ctx context.Context, subID id.SubscriptionID) error {
	return s.runCommand(ctx, subID, func(agg *subscription.Aggregate) { agg.Delete() })
}

func (s *Service) Subscribe(ctx context.Context, subID id.SubscriptionID, email string) error {
	if !govalidator.IsEmail(email) {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid subscriber email")
	}
	return s.runCommand(ctx, subID, func(agg *subscription.Aggregate) { agg.Subscribe(email) })
}

func (s *Service) Unsubscribe(ctx context.Context, subID id.SubscriptionID, email string) error {
	if !govalidator.IsEmail(email) {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid subscriber email")
	}
	return s.runCommand(ctx, subID, func(agg *subscription.Aggregate) { agg.Unsubscribe(email) })
}

// DeleteSubscriber removes a roster member. Rejections are recorded in the
// aggregate's history as SubscriberDeleteFailed events, so this returns nil
// for them; only infrastructure failures surface as errors.
func (s *Service) DeleteSubscriber(ctx context.Context, subID id.SubscriptionID, email string) error {
	if !govalidator.IsEmail(email) {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid subscriber email")
	}
	return s.runCommand(ctx, subID, func(agg *subscription.Aggregate) { agg.DeleteSubscriber(email) })
}
