//go:build integration

package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/aura-ai/aura/internal/conversation"
)

func TestConversationRepository_CRUD(t *testing.T) {
	env := SetupTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	created, err := env.ConvoRepo.Create(ctx, owner, []conversation.Turn{
		{Role: "user", Text: "hello"},
		{Role: "model", Text: "hi there"},
	})
	if err != nil {
		t.Fatalf("creating conversation: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}

	got, err := env.ConvoRepo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("fetching conversation: %v", err)
	}
	if len(got.Turns) != 2 || got.Turns[0].Text != "hello" {
		t.Fatalf("unexpected turns: %+v", got.Turns)
	}

	matched, err := env.ConvoRepo.ReplaceTurns(ctx, created.ID, owner, []conversation.Turn{
		{Role: "user", Text: "hello"},
		{Role: "model", Text: "hi there"},
		{Role: "user", Text: "more"},
		{Role: "model", Text: "sure"},
	})
	if err != nil {
		t.Fatalf("replacing turns: %v", err)
	}
	if !matched {
		t.Fatal("expected owner update to match")
	}

	// Ownership is part of the update predicate.
	matched, err = env.ConvoRepo.ReplaceTurns(ctx, created.ID, uuid.New(), nil)
	if err != nil {
		t.Fatalf("foreign replace: %v", err)
	}
	if matched {
		t.Fatal("foreign update must match zero rows")
	}

	list, err := env.ConvoRepo.ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("listing conversations: %v", err)
	}
	if len(list) == 0 {
		t.Fatal("expected at least one conversation")
	}

	if err := env.ConvoRepo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("deleting conversation: %v", err)
	}
	if _, err := env.ConvoRepo.GetByID(ctx, created.ID); err != conversation.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConversationRepository_RetentionSweep(t *testing.T) {
	env := SetupTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	expired, err := env.ConvoRepo.Create(ctx, owner, []conversation.Turn{{Role: "user", Text: "old"}})
	if err != nil {
		t.Fatalf("creating conversation: %v", err)
	}
	fresh, err := env.ConvoRepo.Create(ctx, owner, []conversation.Turn{{Role: "user", Text: "new"}})
	if err != nil {
		t.Fatalf("creating conversation: %v", err)
	}

	// Backdate one row past the retention window.
	_, err = env.Pool.Exec(ctx,
		`UPDATE conversations SET created_at = now() - interval '16 days' WHERE id = $1`,
		expired.ID)
	if err != nil {
		t.Fatalf("backdating row: %v", err)
	}

	deleted, err := env.ConvoRepo.DeleteOlderThan(ctx, time.Now().Add(-conversation.RetentionWindow))
	if err != nil {
		t.Fatalf("sweeping: %v", err)
	}
	if deleted < 1 {
		t.Fatalf("expected at least 1 swept row, got %d", deleted)
	}

	if _, err := env.ConvoRepo.GetByID(ctx, expired.ID); err != conversation.ErrNotFound {
		t.Fatalf("expired row should be gone, got %v", err)
	}
	if _, err := env.ConvoRepo.GetByID(ctx, fresh.ID); err != nil {
		t.Fatalf("fresh row should survive, got %v", err)
	}
}

func TestConversationEndpoints_OwnershipAndDelete(t *testing.T) {
	env := SetupTestEnv(t)
	ctx := context.Background()

	owner := uuid.New()
	intruder := uuid.New()
	ownerToken := TokenFor(t, env, owner)
	intruderToken := TokenFor(t, env, intruder)

	created, err := env.ConvoRepo.Create(ctx, owner, []conversation.Turn{
		{Role: "user", Text: "hello"},
		{Role: "model", Text: "hi"},
	})
	if err != nil {
		t.Fatalf("creating conversation: %v", err)
	}

	// Unauthenticated access is rejected outright.
	resp := DoRequest(t, env, "GET", "/api/v1/conversations/", nil, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	// A foreign delete is a 403, and the row survives.
	resp = DoRequest(t, env, "DELETE", "/api/v1/conversations/"+created.ID.String(), nil, intruderToken)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if _, err := env.ConvoRepo.GetByID(ctx, created.ID); err != nil {
		t.Fatalf("conversation should survive foreign delete: %v", err)
	}

	// A missing conversation is a 404.
	resp = DoRequest(t, env, "DELETE", "/api/v1/conversations/"+uuid.NewString(), nil, ownerToken)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	// The owner's delete succeeds.
	resp = DoRequest(t, env, "DELETE", "/api/v1/conversations/"+created.ID.String(), nil, ownerToken)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if _, err := env.ConvoRepo.GetByID(ctx, created.ID); err != conversation.ErrNotFound {
		t.Fatalf("conversation should be gone, got %v", err)
	}
}
