// Package scheduler runs the periodic session re-check.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"merlin/internal/services"
)

// Refresher is the session operation the scheduler drives.
type Refresher interface {
	Refresh(ctx context.Context) (*services.RefreshResult, error)
}

// Scheduler re-checks active sessions on a cron schedule.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	timeout   time.Duration
	log       *zap.SugaredLogger
}

// New creates a scheduler that calls refresher on schedule. Each pass is
// bounded by timeout. Overlapping passes are skipped.
func New(schedule string, refresher Refresher, timeout time.Duration, log *zap.SugaredLogger) (*Scheduler, error) {
	cronLog := zapCronLogger{log: log}
	c := cron.New(
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)

	s := &Scheduler{cron: c, refresher: refresher, timeout: timeout, log: log}
	if _, err := c.AddFunc(schedule, s.runOnce); err != nil {
		return nil, fmt.Errorf("scheduling session refresh %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins running the schedule in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running pass to finish or ctx
// to end, whichever comes first.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warnw("session refresh still running at shutdown")
	}
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	result, err := s.refresher.Refresh(ctx)
	if err != nil {
		s.log.Errorw("session refresh failed", "error", err)
		return
	}

	s.log.Infow("session refresh completed",
		"checked", result.Checked,
		"expired", result.Expired,
		"updated", result.Updated,
		"failed", result.Failed,
		"duration", time.Since(start).String(),
	)
}

// zapCronLogger adapts a zap logger to cron.Logger.
type zapCronLogger struct {
	log *zap.SugaredLogger
}

func (l zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
