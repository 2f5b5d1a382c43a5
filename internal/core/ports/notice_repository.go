package ports

import (
	"context"

	"github.com/hyperlocal/community/internal/core/domain"
)

// NoticeRepository persists notices.
type NoticeRepository interface {
	Create(ctx context.Context, n *domain.Notice) error
	// List returns notices newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]*domain.Notice, error)
	// Delete removes a notice, returning domain.ErrNoticeNotFound when absent.
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
