package ports

import (
	"context"

	"github.com/hyperlocal/community/internal/core/domain"
)

type PostNoticeInput struct {
	Title    string
	Content  string
	Priority string
}

type NoticeService interface {
	Post(ctx context.Context, actor *domain.User, input PostNoticeInput) (*domain.Notice, error)
	List(ctx context.Context, actor *domain.User, limit int) ([]*domain.Notice, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
}
