package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"casewatch/internal/eventstore"
	"casewatch/internal/subscription/models"
	id "casewatch/pkg/domain"
	dErrors "casewatch/pkg/domain-errors"
)

type ProjectionSuite struct {
	suite.Suite
	ctx        context.Context
	store      *eventstore.InMemory
	projection *Projection
	orgID      id.OrganisationID
}

func (s *ProjectionSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = eventstore.NewInMemory()
	s.projection = NewProjection()
	s.store.Subscribe(s.projection.Apply)
	s.orgID = id.NewOrganisationID()
}

func TestProjectionSuite(t *testing.T) {
	suite.Run(t, new(ProjectionSuite))
}

func (s *ProjectionSuite) appendCreated(name string, courtIDs []string, subscribers ...models.Subscriber) id.SubscriptionID {
	subID := id.NewSubscriptionID()
	sub := models.Subscription{
		ID:             subID,
		Name:           name,
		Active:         true,
		OrganisationID: s.orgID,
		CourtIDs:       courtIDs,
		EventTypes:     []string{"Hearing resulted"},
		Subscribers:    models.NewRoster(subscribers...),
	}
	err := s.store.Append(s.ctx, "subscription-"+subID.String(), 0, []eventstore.Event{
		&models.SubscriptionCreated{OrganisationID: s.orgID, Subscription: sub},
	})
	s.Require().NoError(err)
	return subID
}

func (s *ProjectionSuite) append(subID id.SubscriptionID, version int64, events ...eventstore.Event) {
	err := s.store.Append(s.ctx, "subscription-"+subID.String(), version, events)
	s.Require().NoError(err)
}

func (s *ProjectionSuite) TestGetReflectsAppendedEvents() {
	subID := s.appendCreated("Crown Court watchers", []string{"C100"},
		models.Subscriber{ID: id.NewSubscriberID(), Email: "clerk@example.gov.uk", Active: true})

	sub, err := s.projection.Get(subID)
	s.Require().NoError(err)
	s.Equal("Crown Court watchers", sub.Name)
	s.True(sub.Active)
	s.Equal(1, sub.Subscribers.Len())
}

func (s *ProjectionSuite) TestUnknownSubscriptionIsNotFound() {
	_, err := s.projection.Get(id.NewSubscriptionID())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ProjectionSuite) TestDeletedSubscriptionDisappears() {
	subID := s.appendCreated("short lived", nil)
	s.append(subID, 1, &models.SubscriptionDeleted{SubscriptionID: subID})

	_, err := s.projection.Get(subID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.Empty(s.projection.ByOrganisation(s.orgID))
}

func (s *ProjectionSuite) TestByOrganisationListsBothActiveAndInactive() {
	active := s.appendCreated("alpha", nil)
	inactive := s.appendCreated("beta", nil)
	s.append(inactive, 1, &models.SubscriptionDeactivated{SubscriptionID: inactive})

	subs := s.projection.ByOrganisation(s.orgID)
	s.Require().Len(subs, 2)
	s.Equal(active, subs[0].ID)
	s.Equal(inactive, subs[1].ID)
	s.True(subs[0].Active)
	s.False(subs[1].Active)
}

func (s *ProjectionSuite) TestActiveByCourtHonoursCourtListAndEmptyList() {
	inCourt := s.appendCreated("bounded", []string{"C100", "C200"})
	allCourts := s.appendCreated("everywhere", nil)
	s.appendCreated("elsewhere", []string{"C999"})

	subs := s.projection.ActiveByCourt("C200")
	s.Require().Len(subs, 2)
	s.Equal(inCourt, subs[0].ID)
	s.Equal(allCourts, subs[1].ID)
}

func (s *ProjectionSuite) TestActiveByCourtSkipsInactive() {
	subID := s.appendCreated("sleeping", []string{"C100"})
	s.append(subID, 1, &models.SubscriptionDeactivated{SubscriptionID: subID})

	s.Empty(s.projection.ActiveByCourt("C100"))
}

func (s *ProjectionSuite) TestActiveByOrganisationAndEmailMatchesCaseInsensitively() {
	subID := s.appendCreated("mine", nil,
		models.Subscriber{ID: id.NewSubscriberID(), Email: "Clerk@Example.gov.uk", Active: true})
	s.appendCreated("not mine", nil,
		models.Subscriber{ID: id.NewSubscriberID(), Email: "other@example.gov.uk", Active: true})

	subs := s.projection.ActiveByOrganisationAndEmail(s.orgID, "clerk@example.gov.uk")
	s.Require().Len(subs, 1)
	s.Equal(subID, subs[0].ID)
}

func (s *ProjectionSuite) TestRosterMutationsFlowThrough() {
	subID := s.appendCreated("roster", nil,
		models.Subscriber{ID: id.NewSubscriberID(), Email: "a@example.gov.uk", Active: true},
		models.Subscriber{ID: id.NewSubscriberID(), Email: "b@example.gov.uk", Active: true})

	s.append(subID, 1, &models.SubscriptionUnsubscribed{SubscriptionID: subID, Email: "a@example.gov.uk"})
	s.append(subID, 2,
		&models.SubscriberDeleted{SubscriptionID: subID, Email: "b@example.gov.uk"},
		&models.SubscriptionDeactivated{SubscriptionID: subID})

	sub, err := s.projection.Get(subID)
	s.Require().NoError(err)
	s.Equal(1, sub.Subscribers.Len())
	member, ok := sub.Subscribers.Get("a@example.gov.uk")
	s.Require().True(ok)
	s.False(member.Active)
	s.False(sub.Active)
}
