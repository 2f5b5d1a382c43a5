package ports

import (
	"context"

	"github.com/hyperlocal/community/internal/core/domain"
)

// RegisterInput is the self-registration form. Only residents register.
type RegisterInput struct {
	Name            string
	Email           string
	Apartment       string
	Password        string
	ConfirmPassword string
}

type AuthService interface {
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	RegisterResident(ctx context.Context, input RegisterInput) (*domain.User, error)
	// IssueToken signs a bearer token identifying user.
	IssueToken(user *domain.User) (string, error)
	// ParseToken verifies a bearer token and returns the user id it names.
	ParseToken(token string) (string, error)
	// CurrentUser resolves a session or token user id to the stored user.
	CurrentUser(ctx context.Context, id string) (*domain.User, error)
}
