package http

import (
	"context"
	"net/http"

	"github.com/clipstream/api/internal/core/domain"
	"github.com/clipstream/api/internal/core/ports"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ChannelHandler struct {
	service ports.ChannelService
}

func NewChannelHandler(service ports.ChannelService) *ChannelHandler {
	return &ChannelHandler{service: service}
}

func (h *ChannelHandler) Profile(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")

	var viewerID *uuid.UUID
	if id, ok := userIDFrom(r); ok {
		viewerID = &id
	}

	profile, err := h.service.Profile(r.Context(), viewerID, handle)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, profile, "channel profile")
}

func (h *ChannelHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.service.Subscribe, "subscribed")
}

func (h *ChannelHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.service.Unsubscribe, "unsubscribed")
}

func (h *ChannelHandler) toggle(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, viewerID uuid.UUID, handle string) error, message string) {
	viewerID, ok := userIDFrom(r)
	if !ok {
		respondError(w, domain.ErrTokenInvalid)
		return
	}

	if err := op(r.Context(), viewerID, chi.URLParam(r, "handle")); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, nil, message)
}
