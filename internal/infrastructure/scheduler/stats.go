package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/hyperlocal/community/internal/api/metrics"
	"github.com/hyperlocal/community/internal/core/ports"
)

const (
	defaultStatsSpec = "@every 1m"
	refreshTimeout   = 30 * time.Second
)

// CountsSource is the part of the dashboard service the refresher needs.
type CountsSource interface {
	Counts(ctx context.Context) (ports.DashboardCounts, error)
}

// StatsRefresher periodically publishes the community counts as Prometheus
// gauges.
type StatsRefresher struct {
	source CountsSource
	spec   string
	cron   *cron.Cron
	log    zerolog.Logger
}

// NewStatsRefresher schedules refreshes on spec, a cron expression or
// descriptor such as "@every 1m".
func NewStatsRefresher(source CountsSource, spec string, log zerolog.Logger) *StatsRefresher {
	if spec == "" {
		spec = defaultStatsSpec
	}
	return &StatsRefresher{
		source: source,
		spec:   spec,
		cron:   cron.New(),
		log:    log,
	}
}

// Start refreshes once immediately and then on every tick.
func (s *StatsRefresher) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.Refresh); err != nil {
		return err
	}
	s.Refresh()
	s.cron.Start()
	s.log.Info().Str("spec", s.spec).Int("jobs", len(s.cron.Entries())).Msg("stats scheduler started")
	return nil
}

// Stop waits for a running refresh to finish.
func (s *StatsRefresher) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("stats scheduler stopped")
}

func (s *StatsRefresher) Refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	start := time.Now()
	counts, err := s.source.Counts(ctx)
	metrics.StatsRefreshDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.log.Error().Err(err).Msg("stats refresh failed")
		return
	}

	metrics.Residents.Set(float64(counts.Residents))
	metrics.Notices.Set(float64(counts.Notices))
	metrics.PendingRequests.Set(float64(counts.PendingRequests))
	metrics.Messages.Set(float64(counts.Messages))
}
