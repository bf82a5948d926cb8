package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// SessionSweeper is satisfied by *authstate.Store.
type SessionSweeper interface {
	Sweep(idle time.Duration) int
}

// Sweeper drops idle browser sessions on a cron schedule.
type Sweeper struct {
	store    SessionSweeper
	schedule cron.Schedule
	idle     time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewSweeper parses spec as a standard cron expression or descriptor such as "@every 5m".
func NewSweeper(store SessionSweeper, spec string, idle time.Duration, logger *slog.Logger) (*Sweeper, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parse sweep schedule %q: %w", spec, err)
	}
	return &Sweeper{
		store:    store,
		schedule: sched,
		idle:     idle,
		logger:   logger.With("component", "session_sweeper"),
		now:      time.Now,
	}, nil
}

// Start blocks until ctx is cancelled, sweeping at every scheduled time.
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("session sweeper started", "idle_timeout", s.idle)

	for {
		now := s.now()
		timer := time.NewTimer(s.schedule.Next(now).Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("session sweeper shut down")
			return
		case <-timer.C:
			s.sweep()
		}
	}
}

func (s *Sweeper) sweep() {
	if n := s.store.Sweep(s.idle); n > 0 {
		s.logger.Debug("sweep finished", "removed", n)
	}
}
