package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultChatLimit  = 10
	defaultChatWindow = time.Minute
)

// ChatThrottle is a fixed-window counter limiting how many chat messages a
// user may post per window.
// Key format: chat:rate:<user_id>:<window_start_unix>
type ChatThrottle struct {
	client *redis.Client
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewChatThrottle allows limit messages per window. Non-positive values fall
// back to 10 per minute.
func NewChatThrottle(client *redis.Client, limit int, window time.Duration) *ChatThrottle {
	if limit <= 0 {
		limit = defaultChatLimit
	}
	if window <= 0 {
		window = defaultChatWindow
	}
	return &ChatThrottle{client: client, limit: int64(limit), window: window, now: time.Now}
}

func (t *ChatThrottle) Allow(ctx context.Context, userID string) (bool, error) {
	key := t.key(userID)

	pipe := t.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, t.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("chat throttle: %w", err)
	}
	return incr.Val() <= t.limit, nil
}

func (t *ChatThrottle) key(userID string) string {
	start := t.now().Truncate(t.window).Unix()
	return fmt.Sprintf("chat:rate:%s:%d", userID, start)
}
