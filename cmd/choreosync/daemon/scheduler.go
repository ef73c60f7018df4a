package daemon

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rashadism/choreosync/internal/engine"
	"github.com/rashadism/choreosync/models"
)

// Runner is the reconciliation surface the scheduler drives.
type Runner interface {
	RunOnce(ctx context.Context) (models.RunResult, error)
}

// Scheduler triggers reconciliation runs on a fixed interval with a per-run
// timeout. The engine itself does not guard against overlapping runs; the
// scheduler enforces at-most-one-concurrent-run by skipping a tick while the
// previous run is still in flight.
type Scheduler struct {
	runner   Runner
	tracker  *engine.Tracker
	logger   *zap.Logger
	interval time.Duration
	timeout  time.Duration

	// running is held for the duration of a run.
	running sync.Mutex
}

// SchedulerConfig holds configuration for creating a Scheduler.
type SchedulerConfig struct {
	// Runner performs one reconciliation run per trigger.
	Runner Runner

	// Tracker records each run's result for the ops API.
	Tracker *engine.Tracker

	// Logger is the structured logger.
	Logger *zap.Logger

	// Interval is the time between run triggers.
	Interval time.Duration

	// Timeout bounds each run.
	Timeout time.Duration
}

// NewScheduler creates a new run scheduler.
func NewScheduler(config SchedulerConfig) *Scheduler {
	return &Scheduler{
		runner:   config.Runner,
		tracker:  config.Tracker,
		logger:   config.Logger,
		interval: config.Interval,
		timeout:  config.Timeout,
	}
}

// Run starts the scheduling loop and blocks until the context is cancelled.
// The first run is triggered immediately; subsequent runs follow the
// configured interval.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("sync scheduler started",
		zap.Duration("interval", s.interval),
		zap.Duration("timeout", s.timeout),
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.trigger(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sync scheduler stopped")
			return
		case <-ticker.C:
			s.trigger(ctx)
		}
	}
}

// trigger executes one run unless the previous one is still in flight.
func (s *Scheduler) trigger(ctx context.Context) {
	if !s.running.TryLock() {
		s.logger.Warn("previous run still in progress, skipping this interval")
		return
	}
	defer s.running.Unlock()

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.runner.RunOnce(runCtx)
	s.tracker.Record(result)
	if err != nil {
		s.logger.Error("reconciliation run failed", zap.Error(err))
	}
}
