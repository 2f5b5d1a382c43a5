package ports

import (
	"context"

	"github.com/hyperlocal/community/internal/core/domain"
)

// RequestFilter narrows a service request query. Zero values mean no filter.
type RequestFilter struct {
	UserID string
	Status domain.RequestStatus
	Limit  int
}

// ServiceRequestRepository persists service requests.
type ServiceRequestRepository interface {
	Create(ctx context.Context, r *domain.ServiceRequest) error
	FindByID(ctx context.Context, id string) (*domain.ServiceRequest, error)
	// FindByIdempotencyKey returns the request userID previously submitted with key.
	FindByIdempotencyKey(ctx context.Context, userID, key string) (*domain.ServiceRequest, error)
	// List returns matching requests newest first.
	List(ctx context.Context, filter RequestFilter) ([]*domain.ServiceRequest, error)
	// UpdateStatus sets the status in a single atomic write. Returns
	// domain.ErrRequestNotFound when no request matches.
	UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) error
	Count(ctx context.Context, filter RequestFilter) (int64, error)
}
