package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"casewatch/internal/notification/models"
	id "casewatch/pkg/domain"
)

type AggregateSuite struct {
	suite.Suite
	notifID id.NotificationID
	now     time.Time
}

func (s *AggregateSuite) SetupTest() {
	s.notifID = id.NewNotificationID()
	s.now = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
}

func TestAggregateSuite(t *testing.T) {
	suite.Run(t, new(AggregateSuite))
}

func (s *AggregateSuite) request() models.EmailRequest {
	return models.EmailRequest{
		NotificationID:   s.notifID,
		Recipient:        "clerk@example.com",
		Subject:          "Case URN123: hearing-resulted",
		Body:             "body",
		TemplateID:       "hearing-resulted-v1",
		SubscriptionID:   id.NewSubscriptionID(),
		SubscriptionName: "Crown Court watch",
	}
}

func (s *AggregateSuite) TestSendEmailFromNew() {
	agg := New(s.notifID)
	agg.SendEmail(s.request(), s.now)

	events := agg.DrainPending()
	s.Require().Len(events, 1)
	requested, ok := events[0].(*models.SendEmailRequested)
	s.Require().True(ok)
	s.Equal("clerk@example.com", requested.Recipient)
	s.Equal(s.now, requested.RequestedAt)
	s.Equal(models.StatusRequested, agg.State().Status())

	s.Run("duplicate request is a no-op", func() {
		agg.SendEmail(s.request(), s.now.Add(time.Minute))
		s.Empty(agg.DrainPending())
	})
}

// TestCallbackWithoutRequestIsDropped: a success callback for an id that
// never received a request event produces zero events.
func (s *AggregateSuite) TestCallbackWithoutRequestIsDropped() {
	agg := New(s.notifID)
	agg.HandleSendSucceeded(s.now)
	agg.HandleSendFailed("timeout", s.now, 504)
	s.Empty(agg.DrainPending())
	s.Equal(models.StatusNew, agg.State().Status())
}

func (s *AggregateSuite) TestSuccessCopiesContextForward() {
	agg := New(s.notifID)
	req := s.request()
	agg.SendEmail(req, s.now)
	agg.DrainPending()

	sentAt := s.now.Add(2 * time.Second)
	agg.HandleSendSucceeded(sentAt)
	events := agg.DrainPending()
	s.Require().Len(events, 1)
	succeeded, ok := events[0].(*models.SendEmailSucceeded)
	s.Require().True(ok)
	s.Equal(req.Recipient, succeeded.Recipient)
	s.Equal(req.SubscriptionID, succeeded.SubscriptionID)
	s.Equal(req.SubscriptionName, succeeded.SubscriptionName)
	s.Equal(models.StatusSucceeded, agg.State().Status())
}

func (s *AggregateSuite) TestFailureRecordsErrorDetail() {
	agg := New(s.notifID)
	agg.SendEmail(s.request(), s.now)
	agg.DrainPending()

	agg.HandleSendFailed("smtp 550", s.now.Add(time.Second), 550)
	events := agg.DrainPending()
	s.Require().Len(events, 1)
	failed, ok := events[0].(*models.SendEmailFailed)
	s.Require().True(ok)
	s.Equal("smtp 550", failed.ErrorMessage)
	s.Equal(550, failed.StatusCode)
	s.Equal(models.StatusFailed, agg.State().Status())
}

func (s *AggregateSuite) TestTerminalStatesIgnoreFurtherCallbacks() {
	agg := New(s.notifID)
	agg.SendEmail(s.request(), s.now)
	agg.HandleSendSucceeded(s.now.Add(time.Second))
	agg.DrainPending()

	agg.HandleSendFailed("late failure", s.now.Add(time.Minute), 500)
	agg.HandleSendSucceeded(s.now.Add(time.Minute))
	s.Empty(agg.DrainPending())
	s.Equal(models.StatusSucceeded, agg.State().Status())
}
