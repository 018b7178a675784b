package searchcache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/notionsite/internal/logfields"
)

// Sweepable is a cache that can drop expired entries.
type Sweepable interface {
	Sweep(ctx context.Context) (int64, error)
}

// Sweeper wraps a gocron scheduler that periodically sweeps a cache.
type Sweeper struct {
	scheduler gocron.Scheduler
	target    Sweepable
	logger    *slog.Logger
}

// NewSweeper schedules target.Sweep every interval. Call Start to begin.
func NewSweeper(target Sweepable, interval time.Duration, logger *slog.Logger) (*Sweeper, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	sw := &Sweeper{scheduler: s, target: target, logger: logger}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(sw.sweep),
		gocron.WithName("search-cache-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to create sweep job: %w", err)
	}
	return sw, nil
}

// Start begins the scheduler.
func (s *Sweeper) Start() {
	s.scheduler.Start()
}

// Stop gracefully shuts down the scheduler.
func (s *Sweeper) Stop() error {
	return s.scheduler.Shutdown()
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	start := time.Now()
	n, err := s.target.Sweep(ctx)
	if err != nil {
		s.logger.Warn("Search cache sweep failed", logfields.Error(err))
		return
	}
	if n > 0 {
		s.logger.Debug("Search cache swept", logfields.Count(int(n)), logfields.Since(start))
	}
}
