package ports

import (
	"context"

	"github.com/hyperlocal/community/internal/core/domain"
)

// ProfileInput carries a self-service profile edit. Blank fields are ignored.
type ProfileInput struct {
	Name            string
	Apartment       string
	Email           string
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// ProfileResult lists the fields that changed. An empty list means the
// request was a no-op.
type ProfileResult struct {
	Changed []string
}

func (r *ProfileResult) NoChanges() bool {
	return r == nil || len(r.Changed) == 0
}

type ProfileService interface {
	Update(ctx context.Context, actor *domain.User, input ProfileInput) (*ProfileResult, error)
}
