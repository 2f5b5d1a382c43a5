package ports

import (
	"context"

	"github.com/hyperlocal/community/internal/core/domain"
)

// SubmitRequestInput is what a resident fills in. Status is deliberately absent.
type SubmitRequestInput struct {
	Title          string
	Description    string
	Category       string
	Priority       string
	IdempotencyKey string
}

// SubmitResult is returned after a submission.
type SubmitResult struct {
	Request *domain.ServiceRequest
	// AlreadyExisted is true when the idempotency key matched an earlier submission.
	AlreadyExisted bool
}

type RequestService interface {
	Submit(ctx context.Context, actor *domain.User, input SubmitRequestInput) (*SubmitResult, error)
	Get(ctx context.Context, actor *domain.User, id string) (*domain.ServiceRequest, error)
	// ListForActor returns the caller's own requests, or every request for a secretary.
	ListForActor(ctx context.Context, actor *domain.User) ([]*domain.ServiceRequest, error)
	SetStatus(ctx context.Context, actor *domain.User, id, status string) (*domain.ServiceRequest, error)
}
