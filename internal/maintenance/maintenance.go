// Package maintenance runs periodic housekeeping jobs.
package maintenance

import (
	"context"
	"fmt"
	"time"

	"storerate/internal/metrics"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// TokenPurger clears reset tokens whose expiry has passed.
type TokenPurger interface {
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}

// LimiterPruner forgets idle rate-limit buckets.
type LimiterPruner interface {
	Prune(idle time.Duration) int
}

// Scheduler runs the housekeeping jobs on a cron schedule.
type Scheduler struct {
	cron        *cron.Cron
	tokens      TokenPurger
	limiter     LimiterPruner
	limiterIdle time.Duration
	logger      *logrus.Logger
	now         func() time.Time
}

// NewScheduler registers the jobs on spec, a cron expression or descriptor
// such as "@every 1h". limiter may be nil.
func NewScheduler(spec string, tokens TokenPurger, limiter LimiterPruner, logger *logrus.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:        cron.New(),
		tokens:      tokens,
		limiter:     limiter,
		limiterIdle: 10 * time.Minute,
		logger:      logger,
		now:         time.Now,
	}
	if _, err := s.cron.AddFunc(spec, s.RunOnce); err != nil {
		return nil, fmt.Errorf("invalid maintenance schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce executes every job immediately.
func (s *Scheduler) RunOnce() {
	s.purgeResetTokens()
	s.pruneLimiter()
}

func (s *Scheduler) purgeResetTokens() {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cleared, err := s.tokens.ClearExpiredResetTokens(ctx, s.now())
	metrics.RecordMaintenanceRun("purge_reset_tokens", time.Since(start), err == nil)
	if err != nil {
		s.logger.WithError(err).Error("failed to purge expired reset tokens")
		return
	}
	if cleared > 0 {
		s.logger.WithField("cleared", cleared).Info("purged expired reset tokens")
	}
}

func (s *Scheduler) pruneLimiter() {
	if s.limiter == nil {
		return
	}
	start := time.Now()
	removed := s.limiter.Prune(s.limiterIdle)
	metrics.RecordMaintenanceRun("prune_rate_limiter", time.Since(start), true)
	s.logger.WithField("removed", removed).Debug("pruned rate limiter")
}
