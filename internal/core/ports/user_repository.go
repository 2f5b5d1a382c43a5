package ports

import (
	"context"

	"github.com/hyperlocal/community/internal/core/domain"
)

// UserRepository persists users. Implementations enforce a unique email and
// return domain.ErrEmailTaken when it would be violated.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// EmailTakenByOther reports whether email belongs to a user other than excludeID.
	EmailTakenByOther(ctx context.Context, email, excludeID string) (bool, error)
	// Update applies patch to the user atomically.
	Update(ctx context.Context, id string, patch domain.UserPatch) error
	// ListResidents returns non-secretary users, newest first. limit <= 0 means all.
	ListResidents(ctx context.Context, limit int) ([]*domain.User, error)
	CountResidents(ctx context.Context) (int64, error)
}
