package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/hyperlocal/community/internal/core/domain"
	"github.com/hyperlocal/community/internal/core/policy"
	"github.com/hyperlocal/community/internal/core/ports"
)

const (
	defaultChatMaxLength    = 1000
	defaultChatHistoryLimit = 50
)

// ChatOptions bounds message size and history length.
type ChatOptions struct {
	MaxLength    int
	HistoryLimit int
}

type ChatService struct {
	repo     ports.MessageRepository
	throttle ports.ChatThrottle
	activity ports.ActivityRecorder
	opts     ChatOptions
	logger   zerolog.Logger
}

// NewChatService builds the chat stream. throttle may be nil.
func NewChatService(
	repo ports.MessageRepository,
	throttle ports.ChatThrottle,
	activity ports.ActivityRecorder,
	opts ChatOptions,
	logger zerolog.Logger,
) *ChatService {
	if opts.MaxLength <= 0 {
		opts.MaxLength = defaultChatMaxLength
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = defaultChatHistoryLimit
	}
	return &ChatService{repo: repo, throttle: throttle, activity: activity, opts: opts, logger: logger}
}

func (s *ChatService) Post(ctx context.Context, actor *domain.User, content string) (*domain.ChatMessage, error) {
	if err := policy.Authorize(actor, policy.PostChat, nil); err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.Invalid("message", "must not be empty")
	}
	if utf8.RuneCountInString(content) > s.opts.MaxLength {
		return nil, domain.Invalid("message", fmt.Sprintf("must be at most %d characters", s.opts.MaxLength))
	}

	if s.throttle != nil {
		ok, err := s.throttle.Allow(ctx, actor.ID)
		if err != nil {
			s.logger.Warn().Err(err).Str("user_id", actor.ID).Msg("chat throttle unavailable")
		} else if !ok {
			return nil, domain.ErrRateLimited
		}
	}

	msg := &domain.ChatMessage{
		Content:    content,
		UserID:     actor.ID,
		UserName:   actor.Name,
		SenderRole: actor.Role,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// History loads the newest n messages and returns them oldest first, the
// order the chat page shows them in.
func (s *ChatService) History(ctx context.Context, actor *domain.User, n int) ([]*domain.ChatMessage, error) {
	if err := policy.Authorize(actor, policy.ReadChat, nil); err != nil {
		return nil, err
	}
	if n <= 0 {
		n = s.opts.HistoryLimit
	}

	msgs, err := s.repo.Recent(ctx, n)
	if err != nil {
		return nil, err
	}
	slices.Reverse(msgs)
	return msgs, nil
}

// Delete removes a message if actor sent it or is a secretary.
func (s *ChatService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}

	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(actor, policy.DeleteChat, msg); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("message_id", id).Str("by", actor.ID).Bool("own", msg.UserID == actor.ID).Msg("chat message deleted")
	s.activity.Record(domain.NewActivity(domain.ActivityMessageDeleted, actor, id, msg.UserName))
	return nil
}
