package ports

import (
	"context"

	"github.com/hyperlocal/community/internal/core/domain"
)

// ActivityRecorder accepts audit events. Record must not block the caller
// on I/O and never fails the user action.
type ActivityRecorder interface {
	Record(event domain.ActivityEvent)
}

// ActivityRepository persists and reads the audit trail.
type ActivityRepository interface {
	Insert(ctx context.Context, event *domain.ActivityEvent) error
	// Recent returns up to limit events, newest first.
	Recent(ctx context.Context, limit int) ([]*domain.ActivityEvent, error)
}

// SubmissionGuard reserves an idempotency key while a submission is in flight.
type SubmissionGuard interface {
	// Reserve returns false when key is already reserved for userID.
	Reserve(ctx context.Context, userID, key string) (bool, error)
	// Release frees a reservation whose submission was not stored.
	Release(ctx context.Context, userID, key string) error
}

// ChatThrottle bounds how many chat messages a user may post per window.
type ChatThrottle interface {
	Allow(ctx context.Context, userID string) (bool, error)
}
