package ports

import (
	"context"

	"github.com/hyperlocal/community/internal/core/domain"
)

type ChatService interface {
	Post(ctx context.Context, actor *domain.User, content string) (*domain.ChatMessage, error)
	// History returns the newest n messages in display order (oldest first).
	// n <= 0 selects the configured default.
	History(ctx context.Context, actor *domain.User, n int) ([]*domain.ChatMessage, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
}
