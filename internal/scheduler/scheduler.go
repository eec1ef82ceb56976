package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AdamBeresnev/ski-bracket/internal/bracket"
	"github.com/robfig/cron/v3"
)

// AutoStarter starts every tournament whose settings are due.
type AutoStarter interface {
	CheckAutoStart(ctx context.Context) ([]bracket.Tournament, error)
}

// Scheduler polls an AutoStarter on a cron schedule such as "@every 60s".
type Scheduler struct {
	cron    *cron.Cron
	checker AutoStarter
	timeout time.Duration
}

func New(checker AutoStarter, spec string) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		checker: checker,
		timeout: 30 * time.Second,
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("invalid auto-start schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start runs one check right away and then hands over to the cron schedule.
func (s *Scheduler) Start() {
	slog.Info("auto-start scheduler started")
	s.run()
	s.cron.Start()
}

// Stop halts the schedule and waits for a running check to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
		slog.Info("auto-start scheduler stopped")
	case <-ctx.Done():
		slog.Warn("auto-start scheduler did not stop in time", "error", ctx.Err())
	}
}

// RunOnce performs a single check and returns the tournaments it started.
func (s *Scheduler) RunOnce(ctx context.Context) ([]bracket.Tournament, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.checker.CheckAutoStart(ctx)
}

func (s *Scheduler) run() {
	started, err := s.RunOnce(context.Background())
	if err != nil {
		slog.Error("auto-start check failed", "error", err)
		return
	}
	if len(started) > 0 {
		slog.Info("auto-start check started tournaments", "count", len(started))
	}
}
