package conversation

import (
	"context"
	"log/slog"
	"time"

	"github.com/aura-ai/aura/internal/metrics"
	"github.com/aura-ai/aura/internal/nats"
)

// Sweeper deletes conversations older than the retention window on a fixed
// interval until its context is canceled.
type Sweeper struct {
	store     Store
	events    *nats.Publisher
	retention time.Duration
	interval  time.Duration
}

func NewSweeper(store Store, events *nats.Publisher) *Sweeper {
	return &Sweeper{
		store:     store,
		events:    events,
		retention: RetentionWindow,
		interval:  SweepInterval,
	}
}

// Run sweeps once immediately, then on every tick. It blocks until ctx is
// canceled, so callers start it in a goroutine.
func (s *Sweeper) Run(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("conversation sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.retention)

	deleted, err := s.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		slog.Error("conversation sweep failed", "error", err)
		return
	}
	if deleted == 0 {
		return
	}

	metrics.ConversationsSweptTotal.Add(float64(deleted))
	slog.Info("swept expired conversations", "deleted", deleted, "cutoff", cutoff)

	if err := s.events.PublishAuditEvent(ctx, nats.AuditEvent{
		EventType:    "conversation.swept",
		Severity:     "info",
		ResourceType: "conversation",
		Details:      "retention sweep",
		Timestamp:    time.Now().UTC(),
	}); err != nil {
		slog.Warn("conversation: audit publish failed", "error", err)
	}
}
