package conversation

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aura-ai/aura/internal/api"
	"github.com/aura-ai/aura/internal/auth"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List returns the caller's conversations, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())
	if userID == uuid.Nil {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}

	conversations, err := h.service.List(r.Context(), userID)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	if conversations == nil {
		conversations = []Conversation{}
	}
	api.JSON(w, http.StatusOK, conversations)
}

// Delete removes one of the caller's conversations.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())
	if userID == uuid.Nil {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}

	conversationID, err := uuid.Parse(chi.URLParam(r, "conversationID"))
	if err != nil {
		api.HandleError(w, api.NewBadRequestError("invalid conversation id"))
		return
	}

	if err := h.service.Delete(r.Context(), userID, conversationID); err != nil {
		api.HandleError(w, err)
		return
	}
	api.JSONMessage(w, http.StatusOK, "conversation deleted")
}
