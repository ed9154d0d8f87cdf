// Package worker runs background maintenance jobs.
package worker

import (
	"context"
	"time"

	"geohunt_backend/pkg/logger"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// TreasureSweeper is the repository surface the sweep job needs.
type TreasureSweeper interface {
	SweepScheduledTreasures(ctx context.Context, now time.Time) (activated, deactivated int64, err error)
}

// Sweeper periodically flips treasures whose scheduled activation or
// deactivation time has passed.
type Sweeper struct {
	repo      TreasureSweeper
	scheduler gocron.Scheduler
	interval  time.Duration
}

func NewSweeper(repo TreasureSweeper, interval time.Duration) (*Sweeper, error) {
	if interval <= 0 {
		interval = time.Minute
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	return &Sweeper{
		repo:      repo,
		scheduler: scheduler,
		interval:  interval,
	}, nil
}

func (s *Sweeper) Start() error {
	log := logger.With("treasure_sweeper")

	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			activated, deactivated, err := s.repo.SweepScheduledTreasures(ctx, time.Now().UTC())
			if err != nil {
				log.Error("sweep failed", zap.Error(err))
				return
			}
			if activated > 0 || deactivated > 0 {
				log.Info("sweep completed",
					zap.Int64("activated", activated),
					zap.Int64("deactivated", deactivated))
			}
		}),
	)
	if err != nil {
		return err
	}

	s.scheduler.Start()
	return nil
}

func (s *Sweeper) Stop() error {
	return s.scheduler.Shutdown()
}
