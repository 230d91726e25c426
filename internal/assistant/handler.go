package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/aura-ai/aura/internal/api"
	"github.com/aura-ai/aura/internal/audiocache"
	"github.com/aura-ai/aura/internal/auth"
	"github.com/aura-ai/aura/internal/resolve"
)

// AudioTaker is the single-consume side of the audio cache.
type AudioTaker interface {
	TakeOnce(ctx context.Context, token string) ([]byte, error)
}

type Handler struct {
	service  *Service
	audio    AudioTaker
	proxy    *http.Client
	validate *validator.Validate
}

func NewHandler(service *Service, audio AudioTaker) *Handler {
	return &Handler{
		service:  service,
		audio:    audio,
		proxy:    &http.Client{},
		validate: validator.New(),
	}
}

// ProcessTurn handles one assistant exchange.
func (h *Handler) ProcessTurn(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())
	if userID == uuid.Nil {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}

	var req TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.NewBadRequestError("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewBadRequestError("text_input is required"))
		return
	}

	env, status := h.service.ProcessTurn(r.Context(), userID, req)
	api.JSONRaw(w, status, env)
}

// FetchAudio streams cached speech audio exactly once.
func (h *Handler) FetchAudio(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	audio, err := h.audio.TakeOnce(r.Context(), token)
	if errors.Is(err, audiocache.ErrNotFound) {
		api.HandleError(w, api.ErrNotFound)
		return
	}
	if err != nil {
		api.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(audio); err != nil {
		slog.Warn("assistant: writing audio response failed", "error", err)
	}
}

// StreamVideo proxies the upstream MP4 hidden behind a stream token, so the
// player never sees the provider URL.
func (h *Handler) StreamVideo(w http.ResponseWriter, r *http.Request) {
	upstream, err := resolve.DecodeStreamToken(chi.URLParam(r, "token"))
	if err != nil {
		api.HandleError(w, api.ErrInvalidToken)
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, upstream, nil)
	if err != nil {
		api.HandleError(w, api.ErrInvalidToken)
		return
	}

	resp, err := h.proxy.Do(req)
	if err != nil {
		slog.Warn("assistant: video proxy fetch failed", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		api.HandleError(w, api.NewNotFoundError("video unavailable"))
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "video/mp4"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, resp.Body); err != nil {
		slog.Warn("assistant: streaming video failed", "error", err)
	}
}
