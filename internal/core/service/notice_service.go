package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hyperlocal/community/internal/core/domain"
	"github.com/hyperlocal/community/internal/core/policy"
	"github.com/hyperlocal/community/internal/core/ports"
)

type NoticeService struct {
	repo     ports.NoticeRepository
	activity ports.ActivityRecorder
	logger   zerolog.Logger
}

func NewNoticeService(repo ports.NoticeRepository, activity ports.ActivityRecorder, logger zerolog.Logger) *NoticeService {
	return &NoticeService{repo: repo, activity: activity, logger: logger}
}

// Post publishes a notice. Secretary only.
func (s *NoticeService) Post(ctx context.Context, actor *domain.User, in ports.PostNoticeInput) (*domain.Notice, error) {
	if err := policy.Authorize(actor, policy.PostNotice, nil); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	priority := domain.Priority(strings.TrimSpace(in.Priority))

	switch {
	case title == "":
		return nil, domain.Invalid("title", "is required")
	case content == "":
		return nil, domain.Invalid("content", "is required")
	case !priority.Valid():
		return nil, domain.Invalid("priority", "must be one of urgent, high, medium, low")
	}

	notice := &domain.Notice{
		Title:     title,
		Content:   content,
		Priority:  priority,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, notice); err != nil {
		s.logger.Error().Err(err).Msg("failed to create notice")
		return nil, err
	}

	s.logger.Info().Str("notice_id", notice.ID).Str("priority", string(priority)).Msg("notice posted")
	s.activity.Record(domain.NewActivity(domain.ActivityNoticePosted, actor, notice.ID, notice.Title))
	return notice, nil
}

// List returns notices newest first. limit <= 0 returns all of them.
func (s *NoticeService) List(ctx context.Context, actor *domain.User, limit int) ([]*domain.Notice, error) {
	if err := policy.Authorize(actor, policy.ReadNotices, nil); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, limit)
}

// Delete removes a notice. Secretary only. A missing id yields
// domain.ErrNoticeNotFound.
func (s *NoticeService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if err := policy.Authorize(actor, policy.DeleteNotice, nil); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return domain.ErrNoticeNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("notice_id", id).Msg("notice deleted")
	s.activity.Record(domain.NewActivity(domain.ActivityNoticeDeleted, actor, id, ""))
	return nil
}
