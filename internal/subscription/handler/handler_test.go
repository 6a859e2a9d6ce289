package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"casewatch/internal/eventstore"
	"casewatch/internal/subscription/models"
	"casewatch/internal/subscription/service"
	"casewatch/internal/subscription/store"
	id "casewatch/pkg/domain"
)

type HandlerSuite struct {
	suite.Suite
	router chi.Router
	orgID  id.OrganisationID
}

func (s *HandlerSuite) SetupTest() {
	eventStore := eventstore.NewInMemory()
	projection := store.NewProjection()
	eventStore.Subscribe(projection.Apply)

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	svc := service.New(eventStore, logger, nil)

	s.router = chi.NewRouter()
	New(svc, projection, logger).Register(s.router)
	s.orgID = id.NewOrganisationID()
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req.WithContext(context.Background()))
	return rec
}

func (s *HandlerSuite) createAdmin(subscribers ...string) id.SubscriptionID {
	payload := map[string]any{
		"organisation_id": s.orgID.String(),
		"name":            "Crown Court watchers",
		"court_ids":       []string{"C100"},
		"event_types":     []string{"Hearing resulted"},
		"subscribers":     subscribers,
	}
	body, err := json.Marshal(payload)
	s.Require().NoError(err)

	rec := s.do(http.MethodPost, "/subscriptions", string(body))
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var resp CreatedResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	subID, err := id.ParseSubscriptionID(resp.ID)
	s.Require().NoError(err)
	return subID
}

func (s *HandlerSuite) TestCreateAndGet() {
	subID := s.createAdmin("clerk@example.gov.uk")

	rec := s.do(http.MethodGet, "/subscriptions/"+subID.String(), "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var sub models.Subscription
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &sub))
	s.Equal("Crown Court watchers", sub.Name)
	s.True(sub.Active)
	s.Equal(1, sub.Subscribers.Len())
}

func (s *HandlerSuite) TestCreateByUserSetsSoleSubscriber() {
	payload := `{"organisation_id":"` + s.orgID.String() + `","name":"mine","creator_email":"me@example.gov.uk"}`
	rec := s.do(http.MethodPost, "/subscriptions", payload)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var resp CreatedResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))

	getRec := s.do(http.MethodGet, "/subscriptions/"+resp.ID, "")
	s.Require().Equal(http.StatusOK, getRec.Code)
	var sub models.Subscription
	s.Require().NoError(json.Unmarshal(getRec.Body.Bytes(), &sub))
	s.Equal(1, sub.Subscribers.Len())
	member, ok := sub.Subscribers.Get("me@example.gov.uk")
	s.Require().True(ok)
	s.True(member.Active)
}

func (s *HandlerSuite) TestCreateRejectsMissingOrganisation() {
	rec := s.do(http.MethodPost, "/subscriptions", `{"name":"no org"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "error")
}

func (s *HandlerSuite) TestCreateRejectsBadSubscriberEmail() {
	payload := `{"organisation_id":"` + s.orgID.String() + `","name":"bad","subscribers":["not-an-email"]}`
	rec := s.do(http.MethodPost, "/subscriptions", payload)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestLifecycleEndpoints() {
	subID := s.createAdmin("clerk@example.gov.uk")

	rec := s.do(http.MethodPost, "/subscriptions/"+subID.String()+"/deactivate", "")
	s.Require().Equal(http.StatusNoContent, rec.Code)

	getRec := s.do(http.MethodGet, "/subscriptions/"+subID.String(), "")
	var sub models.Subscription
	s.Require().NoError(json.Unmarshal(getRec.Body.Bytes(), &sub))
	s.False(sub.Active)

	rec = s.do(http.MethodPost, "/subscriptions/"+subID.String()+"/activate", "")
	s.Require().Equal(http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodDelete, "/subscriptions/"+subID.String(), "")
	s.Require().Equal(http.StatusNoContent, rec.Code)

	getRec = s.do(http.MethodGet, "/subscriptions/"+subID.String(), "")
	s.Equal(http.StatusNotFound, getRec.Code)
}

func (s *HandlerSuite) TestSubscribeAndUnsubscribe() {
	subID := s.createAdmin("a@example.gov.uk", "b@example.gov.uk")

	rec := s.do(http.MethodPost, "/subscriptions/"+subID.String()+"/unsubscribe", `{"email":"a@example.gov.uk"}`)
	s.Require().Equal(http.StatusNoContent, rec.Code)

	getRec := s.do(http.MethodGet, "/subscriptions/"+subID.String(), "")
	var sub models.Subscription
	s.Require().NoError(json.Unmarshal(getRec.Body.Bytes(), &sub))
	member, ok := sub.Subscribers.Get("a@example.gov.uk")
	s.Require().True(ok)
	s.False(member.Active)
	s.True(sub.Active)

	rec = s.do(http.MethodPost, "/subscriptions/"+subID.String()+"/subscribe", `{"email":"a@example.gov.uk"}`)
	s.Require().Equal(http.StatusNoContent, rec.Code)
}

func (s *HandlerSuite) TestDeleteSubscriberViaQueryParam() {
	subID := s.createAdmin("a@example.gov.uk", "b@example.gov.uk")

	rec := s.do(http.MethodDelete, "/subscriptions/"+subID.String()+"/subscribers?email=a@example.gov.uk", "")
	s.Require().Equal(http.StatusNoContent, rec.Code)

	getRec := s.do(http.MethodGet, "/subscriptions/"+subID.String(), "")
	var sub models.Subscription
	s.Require().NoError(json.Unmarshal(getRec.Body.Bytes(), &sub))
	s.Equal(1, sub.Subscribers.Len())
}

func (s *HandlerSuite) TestListByOrganisationAndEmail() {
	s.createAdmin("clerk@example.gov.uk")
	s.createAdmin("other@example.gov.uk")

	rec := s.do(http.MethodGet, "/subscriptions?organisation_id="+s.orgID.String(), "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var subs []models.Subscription
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &subs))
	s.Len(subs, 2)

	rec = s.do(http.MethodGet, "/subscriptions?organisation_id="+s.orgID.String()+"&email=clerk@example.gov.uk", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	subs = nil
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &subs))
	s.Len(subs, 1)
}

func (s *HandlerSuite) TestInvalidSubscriptionIDIsBadRequest() {
	rec := s.do(http.MethodGet, "/subscriptions/not-a-uuid", "")
	s.Equal(http.StatusBadRequest, rec.Code)
}
