package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/hyperlocal/community/internal/core/domain"
	"github.com/hyperlocal/community/internal/core/policy"
	"github.com/hyperlocal/community/internal/core/ports"
)

const (
	residentNoticeCount   = 5
	residentRequestCount  = 3
	residentMessageCount  = 5
	secretaryRequestCount = 5
	secretaryNoticeCount  = 3
	activityCount         = 10
)

// DashboardService assembles the read-only landing pages.
type DashboardService struct {
	users    ports.UserRepository
	notices  ports.NoticeRepository
	requests ports.ServiceRequestRepository
	messages ports.MessageRepository
	activity ports.ActivityRepository
}

func NewDashboardService(
	users ports.UserRepository,
	notices ports.NoticeRepository,
	requests ports.ServiceRequestRepository,
	messages ports.MessageRepository,
	activity ports.ActivityRepository,
) *DashboardService {
	return &DashboardService{users: users, notices: notices, requests: requests, messages: messages, activity: activity}
}

func (s *DashboardService) Resident(ctx context.Context, actor *domain.User) (*ports.ResidentDashboard, error) {
	if err := policy.Authorize(actor, policy.ReadNotices, nil); err != nil {
		return nil, err
	}

	var out ports.ResidentDashboard
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Notices, err = s.notices.List(ctx, residentNoticeCount)
		return err
	})
	g.Go(func() (err error) {
		out.Requests, err = s.requests.List(ctx, ports.RequestFilter{UserID: actor.ID, Limit: residentRequestCount})
		return err
	})
	g.Go(func() (err error) {
		out.Messages, err = s.messages.Recent(ctx, residentMessageCount)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *DashboardService) Secretary(ctx context.Context, actor *domain.User) (*ports.SecretaryDashboard, error) {
	if err := policy.Authorize(actor, policy.ViewDashboardCounts, nil); err != nil {
		return nil, err
	}

	counts, err := s.Counts(ctx)
	if err != nil {
		return nil, err
	}

	out := ports.SecretaryDashboard{Counts: counts}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.RecentRequests, err = s.requests.List(ctx, ports.RequestFilter{Limit: secretaryRequestCount})
		return err
	})
	g.Go(func() (err error) {
		out.RecentNotices, err = s.notices.List(ctx, secretaryNoticeCount)
		return err
	})
	g.Go(func() (err error) {
		out.RecentActivity, err = s.activity.Recent(ctx, activityCount)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

// Counts computes the aggregate figures concurrently. It performs no policy
// check and is meant for trusted callers such as the stats refresher.
func (s *DashboardService) Counts(ctx context.Context) (ports.DashboardCounts, error) {
	var c ports.DashboardCounts
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		c.Residents, err = s.users.CountResidents(ctx)
		return err
	})
	g.Go(func() (err error) {
		c.Notices, err = s.notices.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		c.PendingRequests, err = s.requests.Count(ctx, ports.RequestFilter{Status: domain.StatusPending})
		return err
	})
	g.Go(func() (err error) {
		c.Messages, err = s.messages.Count(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return ports.DashboardCounts{}, err
	}
	return c, nil
}

func (s *DashboardService) Residents(ctx context.Context, actor *domain.User) ([]*domain.User, error) {
	if err := policy.Authorize(actor, policy.ListResidents, nil); err != nil {
		return nil, err
	}
	return s.users.ListResidents(ctx, 0)
}
