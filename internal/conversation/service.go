package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aura-ai/aura/internal/api"
	"github.com/aura-ai/aura/internal/nats"
)

// Store is the persistence surface the service needs. *Repository satisfies
// it; tests use an in-memory fake.
type Store interface {
	Create(ctx context.Context, ownerUserID uuid.UUID, turns []Turn) (*Conversation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Conversation, error)
	ListByOwner(ctx context.Context, ownerUserID uuid.UUID) ([]Conversation, error)
	ReplaceTurns(ctx context.Context, id, ownerUserID uuid.UUID, turns []Turn) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type Service struct {
	store  Store
	events *nats.Publisher
}

func NewService(store Store, events *nats.Publisher) *Service {
	return &Service{store: store, events: events}
}

// AppendTurn records one user/model exchange. A nil conversationID starts a
// new conversation holding just the two new turns; otherwise the stored turn
// blob is overwritten wholesale with the client-supplied history plus the new
// exchange. An append against a missing conversation or one the caller does
// not own is a silent no-op: the turn still reaches the user, it just is not
// persisted.
func (s *Service) AppendTurn(ctx context.Context, ownerUserID uuid.UUID, conversationID *uuid.UUID, history []Turn, userText, modelText string) (uuid.UUID, error) {
	newTurns := []Turn{
		{Role: "user", Text: userText},
		{Role: "model", Text: modelText},
	}

	if conversationID == nil {
		c, err := s.store.Create(ctx, ownerUserID, newTurns)
		if err != nil {
			return uuid.Nil, err
		}
		return c.ID, nil
	}

	turns := make([]Turn, 0, len(history)+len(newTurns))
	turns = append(turns, history...)
	turns = append(turns, newTurns...)

	matched, err := s.store.ReplaceTurns(ctx, *conversationID, ownerUserID, turns)
	if err != nil {
		return uuid.Nil, err
	}
	if !matched {
		slog.Warn("conversation: append skipped, missing or not owned",
			"conversation_id", *conversationID, "user_id", ownerUserID)
	}
	return *conversationID, nil
}

// List returns the caller's conversations, newest first.
func (s *Service) List(ctx context.Context, ownerUserID uuid.UUID) ([]Conversation, error) {
	return s.store.ListByOwner(ctx, ownerUserID)
}

// Delete removes one conversation after verifying the caller owns it. A
// missing conversation and a foreign one produce distinct errors.
func (s *Service) Delete(ctx context.Context, ownerUserID, conversationID uuid.UUID) error {
	c, err := s.store.GetByID(ctx, conversationID)
	if errors.Is(err, ErrNotFound) {
		return api.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("verifying conversation: %w", err)
	}
	if c.OwnerUserID != ownerUserID {
		return api.ErrNotOwner
	}

	if err := s.store.Delete(ctx, conversationID); err != nil {
		return err
	}

	if err := s.events.PublishAuditEvent(ctx, nats.AuditEvent{
		OwnerUserID:  ownerUserID,
		EventType:    "conversation.deleted",
		Severity:     "info",
		ResourceType: "conversation",
		ResourceID:   conversationID.String(),
		Details:      "deleted by owner",
		Timestamp:    time.Now().UTC(),
	}); err != nil {
		slog.Warn("conversation: audit publish failed", "error", err)
	}
	return nil
}
