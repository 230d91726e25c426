// Package audiocache holds synthesized speech in Redis until the client
// fetches it exactly once. Entries self-expire so audio the browser never
// claims does not accumulate.
package audiocache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/aura-ai/aura/internal/metrics"
)

// ErrNotFound means the token was never issued, already consumed, or
// expired. The three cases are indistinguishable on purpose.
var ErrNotFound = errors.New("audio not found")

const (
	keyPrefix = "audio:"

	// TTL for unclaimed entries. The player normally fetches within
	// seconds of the turn response arriving.
	defaultTTL = time.Hour
)

// Cache is a single-consume audio store backed by Redis.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client) *Cache {
	return &Cache{client: client, ttl: defaultTTL}
}

// Put stores the audio bytes and returns an opaque token to fetch them with.
func (c *Cache) Put(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", errors.New("empty audio payload")
	}

	token := uuid.New().String()
	if err := c.client.Set(ctx, keyPrefix+token, audio, c.ttl).Err(); err != nil {
		return "", fmt.Errorf("storing audio: %w", err)
	}

	metrics.AudioCachePuts.Inc()
	return token, nil
}

// TakeOnce returns the audio for the token and deletes it in the same
// operation, so concurrent fetches of the same token cannot both succeed.
func (c *Cache) TakeOnce(ctx context.Context, token string) ([]byte, error) {
	audio, err := c.client.GetDel(ctx, keyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.AudioCacheTakes.WithLabelValues("miss").Inc()
		return nil, ErrNotFound
	}
	if err != nil {
		metrics.AudioCacheTakes.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("fetching audio: %w", err)
	}

	metrics.AudioCacheTakes.WithLabelValues("hit").Inc()
	return audio, nil
}
