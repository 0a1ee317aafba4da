package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/OrtegaGeovanny/tiendex/pkg/logger"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

var parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Sweeper is the job run on every tick.
type Sweeper interface {
	SweepAll(ctx context.Context) (int, error)
}

// Scheduler runs the overdue sweep on a cron schedule. A tick that fires
// while the previous sweep is still running is skipped.
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	timeout time.Duration
	running atomic.Bool
}

func New(schedule string, loc *time.Location, sweeper Sweeper, timeout time.Duration) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	if _, err := parser.Parse(schedule); err != nil {
		return nil, errors.Wrapf(err, "invalid sweep schedule %q", schedule)
	}

	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(loc), cron.WithParser(parser)),
		sweeper: sweeper,
		timeout: timeout,
	}
	if _, err := s.cron.AddFunc(schedule, func() { s.RunOnce(context.Background()) }); err != nil {
		return nil, errors.Wrap(err, "add sweep job")
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("[scheduler] started", "entries", len(s.cron.Entries()))
}

// Stop prevents new ticks and waits for a running sweep up to ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		logger.Warn("[scheduler] stop timed out while a sweep was running")
	}
}

// RunOnce runs one sweep. It reports false when another sweep was already
// in progress.
func (s *Scheduler) RunOnce(ctx context.Context) bool {
	if !s.running.CompareAndSwap(false, true) {
		logger.Warn("[scheduler] previous sweep still running, tick skipped")
		return false
	}
	defer s.running.Store(false)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	created, err := s.sweeper.SweepAll(ctx)
	if err != nil {
		logger.Error("[scheduler] sweep finished with errors", "created", created, "error", err, "took", time.Since(start))
		return true
	}
	logger.Info("[scheduler] sweep finished", "created", created, "took", time.Since(start))
	return true
}
