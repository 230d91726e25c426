package assistant

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aura-ai/aura/internal/clients/gemini"
	"github.com/aura-ai/aura/internal/conversation"
	"github.com/aura-ai/aura/internal/intent"
	"github.com/aura-ai/aura/internal/metrics"
	"github.com/aura-ai/aura/internal/middleware"
	"github.com/aura-ai/aura/internal/nats"
	"github.com/aura-ai/aura/internal/resolve"
)

// TurnRequest is the payload of one assistant turn.
type TurnRequest struct {
	TextInput      string              `json:"text_input" validate:"required"`
	History        []conversation.Turn `json:"history"`
	ConversationID *uuid.UUID          `json:"conversation_id"`
}

// Envelope is the turn response consumed by the browser player. Exactly one
// of the content URL fields is set, matching the resolved kind.
type Envelope struct {
	TextResponse    string `json:"text_response"`
	ImageURL        string `json:"image_url,omitempty"`
	GIFURL          string `json:"gif_url,omitempty"`
	StreamURL       string `json:"stream_url,omitempty"`
	YouTubeEmbedURL string `json:"youtube_embed_url,omitempty"`
	AudioURL        string `json:"audio_url,omitempty"`
	ConversationID  string `json:"conversation_id,omitempty"`
}

// Classifier turns an utterance into a structured intent.
type Classifier interface {
	Classify(ctx context.Context, userText string, history []gemini.Message) intent.Classification
}

// Resolver maps a classification to displayable content.
type Resolver interface {
	Resolve(ctx context.Context, cls intent.Classification, history []gemini.Message) resolve.Content
}

// Speech synthesizes spoken audio for a short text.
type Speech interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// AudioStore issues single-use tokens for synthesized audio.
type AudioStore interface {
	Put(ctx context.Context, audio []byte) (string, error)
}

// Conversations persists turn exchanges.
type Conversations interface {
	AppendTurn(ctx context.Context, ownerUserID uuid.UUID, conversationID *uuid.UUID, history []conversation.Turn, userText, modelText string) (uuid.UUID, error)
}

type Service struct {
	classifier Classifier
	resolver   Resolver
	speech     Speech
	audio      AudioStore
	convos     Conversations
	events     *nats.Publisher
}

func NewService(classifier Classifier, resolver Resolver, speech Speech, audio AudioStore, convos Conversations, events *nats.Publisher) *Service {
	return &Service{
		classifier: classifier,
		resolver:   resolver,
		speech:     speech,
		audio:      audio,
		convos:     convos,
		events:     events,
	}
}

// ProcessTurn runs one utterance through the full pipeline: classification,
// content resolution, speech synthesis, persistence. It returns the envelope
// and the HTTP status to send it with. Degraded provider answers are still
// 200; only an utterance the classifier marks unknown is a 400.
func (s *Service) ProcessTurn(ctx context.Context, ownerUserID uuid.UUID, req TurnRequest) (Envelope, int) {
	history := toMessages(req.History)

	cls := s.classifier.Classify(ctx, req.TextInput, history)
	metrics.TurnsTotal.WithLabelValues(string(cls.Intent)).Inc()

	content := s.resolver.Resolve(ctx, cls, history)

	env := Envelope{TextResponse: content.Attribution}
	switch content.Kind {
	case resolve.KindImage:
		env.ImageURL = content.Locator
	case resolve.KindGIF:
		env.GIFURL = content.Locator
	case resolve.KindVideoStream:
		env.StreamURL = "/api/v1/stream/" + content.Locator
	case resolve.KindVideoEmbed:
		env.YouTubeEmbedURL = content.Locator
	}

	env.AudioURL = s.synthesize(ctx, content.Attribution)

	convID, err := s.convos.AppendTurn(ctx, ownerUserID, req.ConversationID, req.History, req.TextInput, env.TextResponse)
	if err != nil {
		// The answer is already resolved; losing persistence should not
		// lose the turn.
		slog.Error("assistant: persisting turn failed", "error", err)
	} else {
		env.ConversationID = convID.String()
	}

	if err := s.events.PublishTurnEvent(ctx, nats.TurnEvent{
		RequestID:      middleware.GetRequestID(ctx),
		OwnerUserID:    ownerUserID,
		ConversationID: convID,
		Intent:         string(cls.Intent),
		ContentKind:    string(content.Kind),
		ProcessedAt:    time.Now().UTC(),
	}); err != nil {
		slog.Warn("assistant: turn event publish failed", "error", err)
	}

	if cls.Intent == intent.Unknown {
		return env, http.StatusBadRequest
	}
	return env, http.StatusOK
}

// synthesize turns the spoken summary of the response into cached audio and
// returns its fetch URL. Any failure means a silent turn, never an error.
func (s *Service) synthesize(ctx context.Context, text string) string {
	summary := speechSummary(text)
	if summary == "" {
		return ""
	}

	audio, err := s.speech.Synthesize(ctx, summary)
	if err != nil {
		slog.Warn("assistant: speech synthesis failed", "error", err)
		return ""
	}

	token, err := s.audio.Put(ctx, audio)
	if err != nil {
		slog.Warn("assistant: caching audio failed", "error", err)
		return ""
	}
	return "/api/v1/audio/" + token
}

// speechSummary keeps spoken replies short: everything before the first
// period, or the whole text when there is none.
func speechSummary(text string) string {
	if before, _, found := strings.Cut(text, "."); found {
		return strings.TrimSpace(before)
	}
	return strings.TrimSpace(text)
}

func toMessages(turns []conversation.Turn) []gemini.Message {
	if len(turns) == 0 {
		return nil
	}
	out := make([]gemini.Message, 0, len(turns))
	for _, t := range turns {
		out = append(out, gemini.Message{Role: t.Role, Text: t.Text})
	}
	return out
}
