package caseevents

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"casewatch/internal/courtcase"
	"casewatch/pkg/platform/httputil"
)

// Handler exposes the inbound event endpoints the court platform posts to.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the event ingestion endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/events/hearing-resulted", h.HandleHearingResulted)
	r.Post("/events/document-requested", h.HandleDocumentRequested)
}

// AcceptedResponse reports how many send commands an event produced.
type AcceptedResponse struct {
	Queued int `json:"queued"`
}

// HandleHearingResulted handles POST /events/hearing-resulted.
func (h *Handler) HandleHearingResulted(w http.ResponseWriter, r *http.Request) {
	hearing, ok := httputil.Decode[courtcase.Hearing](w, r)
	if !ok {
		return
	}
	queued, err := h.service.HandleHearingResulted(r.Context(), &hearing)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, AcceptedResponse{Queued: queued})
}

// HandleDocumentRequested handles POST /events/document-requested.
func (h *Handler) HandleDocumentRequested(w http.ResponseWriter, r *http.Request) {
	doc, ok := httputil.Decode[courtcase.DocumentRequest](w, r)
	if !ok {
		return
	}
	queued, err := h.service.HandleDocumentRequested(r.Context(), &doc)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, AcceptedResponse{Queued: queued})
}
