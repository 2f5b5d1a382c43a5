package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const submissionTTL = 10 * time.Minute

// SubmissionGuard reserves idempotency keys so two concurrent submissions of
// the same form cannot both create a service request.
// Key format: idem:<user_id>:<key>
type SubmissionGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSubmissionGuard(client *redis.Client) *SubmissionGuard {
	return &SubmissionGuard{client: client, ttl: submissionTTL}
}

// Reserve reports whether this call is the first to claim key for userID.
func (g *SubmissionGuard) Reserve(ctx context.Context, userID, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(userID, key), "1", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("reserve submission: %w", err)
	}
	return ok, nil
}

// Release drops the reservation for key so the same form can be retried.
func (g *SubmissionGuard) Release(ctx context.Context, userID, key string) error {
	if err := g.client.Del(ctx, g.key(userID, key)).Err(); err != nil {
		return fmt.Errorf("release submission: %w", err)
	}
	return nil
}

func (g *SubmissionGuard) key(userID, key string) string {
	return fmt.Sprintf("idem:%s:%s", userID, key)
}
