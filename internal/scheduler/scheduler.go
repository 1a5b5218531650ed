// Package scheduler runs a callback on a fixed interval until its context ends.
// It drives the day-boundary rollover check.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dsurfergithub/habitorbit/internal/constants"
	"github.com/dsurfergithub/habitorbit/internal/logger"
)

type Scheduler struct {
	mu       sync.Mutex
	interval time.Duration
	now      func() time.Time
	reset    chan time.Duration
	log      *log.Logger
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithClock sets the time source passed to the callback
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithLogger sets the logger
func WithLogger(l *log.Logger) Option {
	return func(s *Scheduler) { s.log = l }
}

// New creates a scheduler ticking every interval, see ClampInterval
func New(interval time.Duration, opts ...Option) *Scheduler {
	s := &Scheduler{
		interval: ClampInterval(interval),
		now:      time.Now,
		reset:    make(chan time.Duration, 1),
		log:      logger.Get(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ClampInterval returns the default for non-positive values and caps the rest at the maximum
func ClampInterval(d time.Duration) time.Duration {
	if d <= 0 {
		return constants.DefaultRolloverInterval
	}
	if d > constants.MaxRolloverInterval {
		return constants.MaxRolloverInterval
	}
	return d
}

// Interval returns the current tick interval
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// SetInterval changes the tick interval of a running scheduler
func (s *Scheduler) SetInterval(d time.Duration) {
	d = ClampInterval(d)
	s.mu.Lock()
	s.interval = d
	s.mu.Unlock()

	// Keep only the latest pending change
	select {
	case <-s.reset:
	default:
	}
	s.reset <- d
}

// Run calls fn with the current time on every tick. It blocks until ctx is done and returns ctx.Err().
func (s *Scheduler) Run(ctx context.Context, fn func(now time.Time)) error {
	ticker := time.NewTicker(s.Interval())
	defer ticker.Stop()
	s.log.Debug("Scheduler started", "interval", s.Interval())

	for {
		select {
		case <-ctx.Done():
			s.log.Debug("Scheduler stopped")
			return ctx.Err()
		case d := <-s.reset:
			ticker.Reset(d)
			s.log.Info("Scheduler interval changed", "interval", d)
		case <-ticker.C:
			fn(s.now())
		}
	}
}
