package conversation

import (
	"time"

	"github.com/google/uuid"
)

// Retention policy for stored conversations.
const (
	// RetentionWindow is how long a conversation survives after creation.
	// Age is measured from creation, not last activity.
	RetentionWindow = 15 * 24 * time.Hour

	// SweepInterval is how often the background sweeper runs.
	SweepInterval = 24 * time.Hour
)

// Turn is one utterance in a conversation. Role is "user" or "model".
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Conversation is an ordered exchange owned by a single user.
type Conversation struct {
	ID          uuid.UUID `json:"id"`
	OwnerUserID uuid.UUID `json:"owner_user_id"`
	Turns       []Turn    `json:"turns"`
	CreatedAt   time.Time `json:"created_at"`
}
