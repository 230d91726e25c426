package nats

import (
	"time"

	"github.com/google/uuid"
)

// Stream names.
const (
	StreamEvents = "AURA_EVENTS"
)

// Subject constants.
const (
	SubjectTurnProcessed = "aura.events.turn"
	SubjectAuditEvent    = "aura.events.audit"
)

// TurnEvent is published after each processed assistant turn.
type TurnEvent struct {
	RequestID      string    `json:"request_id"`
	OwnerUserID    uuid.UUID `json:"owner_user_id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	Intent         string    `json:"intent"`
	ContentKind    string    `json:"content_kind"`
	ProcessedAt    time.Time `json:"processed_at"`
}

// AuditEvent records lifecycle actions on stored conversations.
type AuditEvent struct {
	OwnerUserID  uuid.UUID `json:"owner_user_id,omitempty"`
	EventType    string    `json:"event_type"`
	Severity     string    `json:"severity"`
	ResourceType string    `json:"resource_type"`
	ResourceID   string    `json:"resource_id,omitempty"`
	Details      string    `json:"details"`
	Timestamp    time.Time `json:"timestamp"`
}
