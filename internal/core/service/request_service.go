package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hyperlocal/community/internal/core/domain"
	"github.com/hyperlocal/community/internal/core/policy"
	"github.com/hyperlocal/community/internal/core/ports"
)

// RequestOptions tunes the service request lifecycle.
type RequestOptions struct {
	// StrictTransitions enforces the forward-only status machine. When false
	// a secretary may set any valid status from any other status.
	StrictTransitions bool
}

type RequestService struct {
	repo     ports.ServiceRequestRepository
	guard    ports.SubmissionGuard
	activity ports.ActivityRecorder
	opts     RequestOptions
	logger   zerolog.Logger
}

// NewRequestService wires the lifecycle. guard may be nil, in which case
// idempotency keys are only honoured for completed submissions.
func NewRequestService(
	repo ports.ServiceRequestRepository,
	guard ports.SubmissionGuard,
	activity ports.ActivityRecorder,
	opts RequestOptions,
	logger zerolog.Logger,
) *RequestService {
	return &RequestService{repo: repo, guard: guard, activity: activity, opts: opts, logger: logger}
}

// Submit records a new service request for actor. The status is always
// pending whatever the caller sent. A repeated idempotency key returns the
// request created by the first submission.
func (s *RequestService) Submit(ctx context.Context, actor *domain.User, in ports.SubmitRequestInput) (*ports.SubmitResult, error) {
	if err := policy.Authorize(actor, policy.SubmitRequest, nil); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	category := domain.Category(strings.TrimSpace(in.Category))
	priority := domain.Priority(strings.TrimSpace(in.Priority))

	switch {
	case title == "":
		return nil, domain.Invalid("title", "is required")
	case description == "":
		return nil, domain.Invalid("description", "is required")
	case !category.Valid():
		return nil, domain.Invalid("category", "is not a known category")
	case !priority.Valid():
		return nil, domain.Invalid("priority", "must be one of urgent, high, medium, low")
	}

	reserved := false
	if in.IdempotencyKey != "" {
		existing, err := s.repo.FindByIdempotencyKey(ctx, actor.ID, in.IdempotencyKey)
		if err == nil {
			s.logger.Info().Str("idempotency_key", in.IdempotencyKey).Str("request_id", existing.ID).Msg("idempotent replay")
			return &ports.SubmitResult{Request: existing, AlreadyExisted: true}, nil
		}
		if !errors.Is(err, domain.ErrRequestNotFound) {
			return nil, fmt.Errorf("submit request: %w", err)
		}

		if s.guard != nil {
			ok, err := s.guard.Reserve(ctx, actor.ID, in.IdempotencyKey)
			if err != nil {
				s.logger.Warn().Err(err).Str("user_id", actor.ID).Msg("idempotency reservation failed, submitting anyway")
			} else if !ok {
				return nil, domain.ErrDuplicateSubmission
			} else {
				reserved = true
			}
		}
	}

	now := time.Now().UTC()
	req := &domain.ServiceRequest{
		Title:          title,
		Description:    description,
		Category:       category,
		Priority:       priority,
		Status:         domain.StatusPending,
		UserID:         actor.ID,
		UserName:       actor.Name,
		Apartment:      actor.Apartment,
		IdempotencyKey: in.IdempotencyKey,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, req); err != nil {
		s.logger.Error().Err(err).Msg("failed to create service request")
		if reserved {
			// Nothing was stored, so a retry with the same key must be allowed.
			if rerr := s.guard.Release(context.WithoutCancel(ctx), actor.ID, in.IdempotencyKey); rerr != nil {
				s.logger.Warn().Err(rerr).Str("user_id", actor.ID).Msg("failed to release idempotency reservation")
			}
		}
		return nil, err
	}

	s.logger.Info().
		Str("request_id", req.ID).
		Str("user_id", actor.ID).
		Str("category", string(category)).
		Msg("service request submitted")
	s.activity.Record(domain.NewActivity(domain.ActivityRequestSubmitted, actor, req.ID, string(category)))

	return &ports.SubmitResult{Request: req}, nil
}

// Get returns one request if actor may read it.
func (s *RequestService) Get(ctx context.Context, actor *domain.User, id string) (*domain.ServiceRequest, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ReadRequest, req); err != nil {
		return nil, err
	}
	return req, nil
}

// ListForActor returns every request for a secretary and only the caller's
// own requests for anyone else, newest first.
func (s *RequestService) ListForActor(ctx context.Context, actor *domain.User) ([]*domain.ServiceRequest, error) {
	if err := policy.Authorize(actor, policy.SubmitRequest, nil); err != nil {
		return nil, err
	}

	filter := ports.RequestFilter{}
	if !policy.CanPerform(actor, policy.ListAllRequests, nil) {
		filter.UserID = actor.ID
	}
	return s.repo.List(ctx, filter)
}

// SetStatus overwrites the status of a request. Secretary only.
func (s *RequestService) SetStatus(ctx context.Context, actor *domain.User, id, status string) (*domain.ServiceRequest, error) {
	if err := policy.Authorize(actor, policy.SetRequestStatus, nil); err != nil {
		return nil, err
	}

	next := domain.RequestStatus(strings.TrimSpace(status))
	if !next.Valid() {
		return nil, domain.Invalid("status", "must be one of pending, in_progress, resolved, cancelled")
	}

	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	prev := req.Status
	if s.opts.StrictTransitions && !prev.CanTransitionTo(next) {
		return nil, fmt.Errorf("set status: %w (from %s to %s)", domain.ErrInvalidTransition, prev, next)
	}
	if prev == next {
		return req, nil
	}

	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	req.Status = next
	req.UpdatedAt = time.Now().UTC()

	s.logger.Info().
		Str("request_id", id).
		Str("from", string(prev)).
		Str("to", string(next)).
		Msg("service request status changed")
	s.activity.Record(domain.NewActivity(domain.ActivityRequestStatusChanged, actor, id, string(prev)+" -> "+string(next)))

	return req, nil
}
