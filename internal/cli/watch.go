package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dsurfergithub/habitorbit/internal/config"
	"github.com/dsurfergithub/habitorbit/internal/lockfile"
	"github.com/dsurfergithub/habitorbit/internal/logger"
	"github.com/dsurfergithub/habitorbit/internal/scheduler"
)

// WatchCmd keeps running and starts a new day of objectives when the date changes
type WatchCmd struct {
	Interval time.Duration `help:"Day-change check interval (overrides config, max 60s)."`
}

func (c *WatchCmd) Run(ctx *Context) error {
	lock, err := lockfile.Acquire(filepath.Dir(ctx.Store.GetConfigPath()))
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("Failed to release lockfile", "path", lock.Path(), "error", err)
		}
	}()

	if err := ctx.Load(); err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.watch(sigCtx, ctx)
}

func (c *WatchCmd) watch(runCtx context.Context, ctx *Context) error {
	interval := c.Interval
	if interval == 0 {
		interval = ctx.Config.Daily.RolloverInterval
	}
	sched := scheduler.New(interval, scheduler.WithClock(ctx.Now), scheduler.WithLogger(logger.Named("scheduler")))

	if c.Interval == 0 {
		err := config.Watch(ctx.ConfigPath, func(cfg *config.Config) {
			sched.SetInterval(cfg.Daily.RolloverInterval)
			logger.SetLevel(cfg.Log.Level)
		})
		if err != nil {
			logger.Warn("Config changes will not be picked up", "error", err)
		}
	}

	ctx.printf("Watching %s, checking for a new day every %s (Ctrl+C to stop)\n",
		ctx.Store.GetConfigPath(), sched.Interval())

	err := sched.Run(runCtx, func(now time.Time) {
		// Pick up writes from other invocations before rolling over
		rolled, err := ctx.Sync(now)
		if err != nil {
			logger.Error("Daily rollover failed", "error", err)
		}
		if rolled {
			ctx.printf("Started objectives for %s\n", ctx.Tracker.Current().Date)
		}
	})
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
