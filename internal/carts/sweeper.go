package carts

import (
	"context"
	"fmt"
	"time"

	"seatmap/internal/shared/clock"
	"seatmap/pkg/logger"

	"github.com/go-co-op/gocron/v2"
)

// Sweeper periodically reclaims expired cart positions. Availability does
// not depend on it; queries ignore expired holds on their own, the sweeper
// just keeps the table small.
type Sweeper struct {
	repo      Repository
	clock     clock.Clock
	interval  time.Duration
	log       *logger.Logger
	scheduler gocron.Scheduler
}

func NewSweeper(repo Repository, clk clock.Clock, interval time.Duration, log *logger.Logger) (*Sweeper, error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Sweeper{
		repo:      repo,
		clock:     clk,
		interval:  interval,
		log:       log,
		scheduler: scheduler,
	}, nil
}

// Start registers the sweep job and begins running it.
func (s *Sweeper) Start() error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.SweepOnce, context.Background()),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule cart sweep: %w", err)
	}
	s.scheduler.Start()
	return nil
}

// SweepOnce runs a single sweep pass.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	reclaimed, err := s.repo.DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		s.log.ErrorWithContext(ctx, "cart sweep failed", err, nil)
		return
	}
	if reclaimed > 0 {
		s.log.LogCartSweep(ctx, reclaimed)
	}
}

// Stop shuts the scheduler down, waiting for a running sweep to finish.
func (s *Sweeper) Stop() error {
	return s.scheduler.Shutdown()
}
