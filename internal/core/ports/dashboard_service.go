package ports

import (
	"context"

	"github.com/hyperlocal/community/internal/core/domain"
)

// ResidentDashboard is the landing page of a resident.
type ResidentDashboard struct {
	Notices  []*domain.Notice
	Requests []*domain.ServiceRequest
	Messages []*domain.ChatMessage
}

// DashboardCounts are the aggregate figures shown to the secretary.
type DashboardCounts struct {
	Residents       int64
	Notices         int64
	PendingRequests int64
	Messages        int64
}

// SecretaryDashboard is the landing page of the secretary.
type SecretaryDashboard struct {
	Counts         DashboardCounts
	RecentRequests []*domain.ServiceRequest
	RecentNotices  []*domain.Notice
	RecentActivity []*domain.ActivityEvent
}

type DashboardService interface {
	Resident(ctx context.Context, actor *domain.User) (*ResidentDashboard, error)
	Secretary(ctx context.Context, actor *domain.User) (*SecretaryDashboard, error)
	Counts(ctx context.Context) (DashboardCounts, error)
	Residents(ctx context.Context, actor *domain.User) ([]*domain.User, error)
}
