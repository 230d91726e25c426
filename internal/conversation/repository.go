package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound means no conversation row matched the lookup.
var ErrNotFound = errors.New("conversation not found")

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts a new conversation and returns it with its generated id
// and creation time.
func (r *Repository) Create(ctx context.Context, ownerUserID uuid.UUID, turns []Turn) (*Conversation, error) {
	query := `
		INSERT INTO conversations (owner_user_id, turns)
		VALUES ($1, $2)
		RETURNING id, owner_user_id, turns, created_at`

	var c Conversation
	err := r.db.QueryRow(ctx, query, ownerUserID, turns).
		Scan(&c.ID, &c.OwnerUserID, &c.Turns, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating conversation: %w", err)
	}
	return &c, nil
}

// GetByID fetches one conversation regardless of owner. Ownership checks
// belong to the service layer, which must tell "missing" from "not yours".
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Conversation, error) {
	query := `
		SELECT id, owner_user_id, turns, created_at
		FROM conversations
		WHERE id = $1`

	var c Conversation
	err := r.db.QueryRow(ctx, query, id).
		Scan(&c.ID, &c.OwnerUserID, &c.Turns, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching conversation: %w", err)
	}
	return &c, nil
}

// ListByOwner returns the owner's conversations, newest first.
func (r *Repository) ListByOwner(ctx context.Context, ownerUserID uuid.UUID) ([]Conversation, error) {
	query := `
		SELECT id, owner_user_id, turns, created_at
		FROM conversations
		WHERE owner_user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	defer rows.Close()

	var out []Conversation
	for rows.Next() {
		var c Conversation
		if err := rows.Scan(&c.ID, &c.OwnerUserID, &c.Turns, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ReplaceTurns overwrites the full turn list. The owner id is part of the
// predicate so a mismatched caller silently matches zero rows.
func (r *Repository) ReplaceTurns(ctx context.Context, id, ownerUserID uuid.UUID, turns []Turn) (bool, error) {
	query := `
		UPDATE conversations
		SET turns = $3
		WHERE id = $1 AND owner_user_id = $2`

	tag, err := r.db.Exec(ctx, query, id, ownerUserID, turns)
	if err != nil {
		return false, fmt.Errorf("replacing turns: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes one conversation by id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM conversations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting conversation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOlderThan removes every conversation created strictly before the
// cutoff and returns how many rows went away.
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM conversations WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("sweeping conversations: %w", err)
	}
	return tag.RowsAffected(), nil
}
