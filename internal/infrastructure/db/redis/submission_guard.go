package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const guardKeyPrefix = "guard:"

// SubmissionGuard is a short-lived cross-instance lock backed by SET NX.
// Key format: guard:proposal:<job_id>:<user_id>
type SubmissionGuard struct {
	client *redis.Client
}

// NewSubmissionGuard creates a SubmissionGuard wrapping the given Redis client.
func NewSubmissionGuard(client *redis.Client) *SubmissionGuard {
	return &SubmissionGuard{client: client}
}

// Acquire reports whether the key was free. The lock expires after ttl even
// when Release is never called.
func (g *SubmissionGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := g.client.SetNX(ctx, guardKeyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("guard acquire: %w", err)
	}
	return ok, nil
}

// Release drops the lock.
func (g *SubmissionGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, guardKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("guard release: %w", err)
	}
	return nil
}
