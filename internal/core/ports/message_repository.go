package ports

import (
	"context"

	"github.com/hyperlocal/community/internal/core/domain"
)

// MessageRepository persists chat messages.
type MessageRepository interface {
	Create(ctx context.Context, m *domain.ChatMessage) error
	FindByID(ctx context.Context, id string) (*domain.ChatMessage, error)
	// Recent returns up to limit messages, newest first.
	Recent(ctx context.Context, limit int) ([]*domain.ChatMessage, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
