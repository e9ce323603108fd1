package sweeper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/quizchain-api/internal/platform/logger"
	"github.com/phrazzld/quizchain-api/internal/redact"
	"github.com/phrazzld/quizchain-api/internal/store"
	rcron "github.com/robfig/cron/v3"
)

// DefaultSchedule runs a sweep once a minute.
const DefaultSchedule = "@every 1m"

// sweepTimeout bounds a single scheduled sweep.
const sweepTimeout = 30 * time.Second

// stopTimeout bounds how long Run waits for an in-flight sweep on shutdown.
const stopTimeout = 5 * time.Second

// ErrInvalidSchedule is returned for schedules robfig/cron cannot parse.
var ErrInvalidSchedule = errors.New("invalid sweep schedule")

// Sweeper deletes expired tasks on a cron schedule.
type Sweeper struct {
	purger   store.ExpiredTaskPurger
	spec     string
	schedule rcron.Schedule
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a Sweeper. schedule uses the standard five-field cron syntax
// or a descriptor such as "@every 1m"; an empty schedule uses DefaultSchedule.
func New(purger store.ExpiredTaskPurger, schedule string, logger *slog.Logger) (*Sweeper, error) {
	if purger == nil {
		return nil, fmt.Errorf("purger cannot be nil")
	}
	if schedule == "" {
		schedule = DefaultSchedule
	}

	parsed, err := rcron.ParseStandard(schedule)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidSchedule, schedule, err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Sweeper{
		purger:   purger,
		spec:     schedule,
		schedule: parsed,
		logger:   logger.With(slog.String("component", "sweeper")),
		now:      time.Now,
	}, nil
}

// WithClock returns a copy of the sweeper that uses now as the expiry cutoff.
func (s *Sweeper) WithClock(now func() time.Time) *Sweeper {
	clone := *s
	clone.now = now
	return &clone
}

// Sweep deletes every task that has expired by now and returns the count.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cutoff := s.now()
	removed, err := s.purger.DeleteExpired(ctx, cutoff)
	if err != nil {
		log.Error("sweep failed", slog.String("error", redact.Error(err)))
		return 0, fmt.Errorf("sweep expired tasks: %w", err)
	}

	if removed > 0 {
		log.Info("expired tasks removed", slog.Int64("count", removed))
	} else {
		log.Debug("no expired tasks")
	}
	return removed, nil
}

// Run sweeps on the configured schedule until ctx is cancelled.
// Overlapping runs are skipped and a panicking sweep is recovered.
func (s *Sweeper) Run(ctx context.Context) error {
	cronLog := cronLogger{s.logger}
	c := rcron.New(
		rcron.WithLogger(cronLog),
		rcron.WithChain(rcron.Recover(cronLog), rcron.SkipIfStillRunning(cronLog)),
	)

	c.Schedule(s.schedule, rcron.FuncJob(func() {
		sweepCtx, cancel := context.WithTimeout(ctx, sweepTimeout)
		defer cancel()
		_, _ = s.Sweep(sweepCtx)
	}))

	c.Start()
	s.logger.Info("sweeper started", slog.String("schedule", s.spec))

	<-ctx.Done()

	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(stopTimeout):
		s.logger.Warn("timed out waiting for running sweep")
	}

	s.logger.Info("sweeper stopped")
	return nil
}

// cronLogger adapts slog to the robfig/cron logger interface.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", redact.Error(err))...)
}
