// Package handler wires the subscription command and query endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"casewatch/internal/subscription/models"
	id "casewatch/pkg/domain"
	dErrors "casewatch/pkg/domain-errors"
	"casewatch/pkg/platform/httputil"
)

// Service defines the subscription command operations.
type Service interface {
	CreateByAdmin(ctx context.Context, orgID id.OrganisationID, def models.Subscription) (id.SubscriptionID, error)
	CreateByUser(ctx context.Context, orgID id.OrganisationID, def models.Subscription, creatorEmail string) (id.SubscriptionID, error)
	Activate(ctx context.Context, subID id.SubscriptionID) error
	Deactivate(ctx context.Context, subID id.SubscriptionID) error
	Delete(ctx context.Context, subID id.SubscriptionID) error
	Subscribe(ctx context.Context, subID id.SubscriptionID, email string) error
	Unsubscribe(ctx context.Context, subID id.SubscriptionID, email string) error
	DeleteSubscriber(ctx context.Context, subID id.SubscriptionID, email string) error
}

// Reader defines the read-model queries the handler serves.
type Reader interface {
	Get(subID id.SubscriptionID) (models.Subscription, error)
	ByOrganisation(orgID id.OrganisationID) []models.Subscription
	ActiveByOrganisationAndEmail(orgID id.OrganisationID, email string) []models.Subscription
}

// Handler wires subscription endpoints to the service and read model.
type Handler struct {
	service Service
	reader  Reader
	logger  *slog.Logger
}

func New(service Service, reader Reader, logger *slog.Logger) *Handler {
	return &Handler{service: service, reader: reader, logger: logger}
}

// Register mounts subscription endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/subscriptions", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/", h.HandleList)
		r.Route("/{subscriptionID}", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.Delete("/", h.HandleDelete)
			r.Post("/activate", h.HandleActivate)
			r.Post("/deactivate", h.HandleDeactivate)
			r.Post("/subscribe", h.HandleSubscribe)
			r.Post("/unsubscribe", h.HandleUnsubscribe)
			r.Delete("/subscribers", h.HandleDeleteSubscriber)
		})
	})
}

// CreateRequest is the create-subscription payload. Admin creations list
// their initial roster; self-service creations set creator_email instead.
type CreateRequest struct {
	OrganisationID string          `json:"organisation_id"`
	Name           string          `json:"name"`
	CourtIDs       []string        `json:"court_ids,omitempty"`
	EventTypes     []string        `json:"event_types,omitempty"`
	DocumentTypes  []string        `json:"document_types,omitempty"`
	Filter         *models.Filter  `json:"filter,omitempty"`
	Subscribers    []string        `json:"subscribers,omitempty"`
	CreatorEmail   string          `json:"creator_email,omitempty"`
}

// EmailRequest carries the subscriber email for roster operations.
type EmailRequest struct {
	Email string `json:"email"`
}

// CreatedResponse returns the id assigned to a new subscription.
type CreatedResponse struct {
	ID string `json:"id"`
}

// HandleCreate handles POST /subscriptions. The request shape selects the
// creation path: creator_email makes it a self-service creation.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.Decode[CreateRequest](w, r)
	if !ok {
		return
	}

	orgID, err := id.ParseOrganisationID(req.OrganisationID)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid organisation id"))
		return
	}

	def := models.Subscription{
		Name:          req.Name,
		CourtIDs:      req.CourtIDs,
		EventTypes:    req.EventTypes,
		DocumentTypes: req.DocumentTypes,
		Filter:        req.Filter,
	}

	var subID id.SubscriptionID
	if req.CreatorEmail != "" {
		subID, err = h.service.CreateByUser(ctx, orgID, def, req.CreatorEmail)
	} else {
		members := make([]models.Subscriber, 0, len(req.Subscribers))
		for _, email := range req.Subscribers {
			members = append(members, models.Subscriber{ID: id.NewSubscriberID(), Email: email, Active: true})
		}
		def.Subscribers = models.NewRoster(members...)
		subID, err = h.service.CreateByAdmin(ctx, orgID, def)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "subscription creation failed", "error", err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "subscription created",
		"subscription_id", subID.String(),
		"organisation_id", orgID.String(),
	)
	httputil.WriteJSON(w, http.StatusCreated, CreatedResponse{ID: subID.String()})
}

// HandleList handles GET /subscriptions?organisation_id=...&email=...
// Without email it lists the organisation's subscriptions; with email it
// narrows to active subscriptions carrying that subscriber.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	orgID, err := id.ParseOrganisationID(r.URL.Query().Get("organisation_id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid organisation id"))
		return
	}

	var subs []models.Subscription
	if email := r.URL.Query().Get("email"); email != "" {
		subs = h.reader.ActiveByOrganisationAndEmail(orgID, email)
	} else {
		subs = h.reader.ByOrganisation(orgID)
	}
	httputil.WriteJSON(w, http.StatusOK, subs)
}

// HandleGet handles GET /subscriptions/{subscriptionID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	subID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	sub, err := h.reader.Get(subID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sub)
}

// HandleDelete handles DELETE /subscriptions/{subscriptionID}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, "subscription deleted", h.service.Delete)
}

// HandleActivate handles POST /subscriptions/{subscriptionID}/activate.
func (h *Handler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, "subscription activated", h.service.Activate)
}

// HandleDeactivate handles POST /subscriptions/{subscriptionID}/deactivate.
func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, "subscription deactivated", h.service.Deactivate)
}

// HandleSubscribe handles POST /subscriptions/{subscriptionID}/subscribe.
func (h *Handler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	h.roster(w, r, "subscriber subscribed", h.service.Subscribe)
}

// HandleUnsubscribe handles POST /subscriptions/{subscriptionID}/unsubscribe.
func (h *Handler) HandleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	h.roster(w, r, "subscriber unsubscribed", h.service.Unsubscribe)
}

// HandleDeleteSubscriber handles DELETE /subscriptions/{subscriptionID}/subscribers.
// The email travels as a query parameter.
func (h *Handler) HandleDeleteSubscriber(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	email := r.URL.Query().Get("email")
	if err := h.service.DeleteSubscriber(ctx, subID, email); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "subscriber delete recorded", "subscription_id", subID.String())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) lifecycle(w http.ResponseWriter, r *http.Request, msg string, op func(context.Context, id.SubscriptionID) error) {
	ctx := r.Context()
	subID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := op(ctx, subID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, msg, "subscription_id", subID.String())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) roster(w http.ResponseWriter, r *http.Request, msg string, op func(context.Context, id.SubscriptionID, string) error) {
	ctx := r.Context()
	subID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	req, decoded := httputil.Decode[EmailRequest](w, r)
	if !decoded {
		return
	}
	if err := op(ctx, subID, req.Email); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, msg, "subscription_id", subID.String())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (id.SubscriptionID, bool) {
	subID, err := id.ParseSubscriptionID(chi.URLParam(r, "subscriptionID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid subscription id"))
		return id.SubscriptionID{}, false
	}
	return subID, true
}
