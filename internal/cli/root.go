package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/dsurfergithub/habitorbit/internal/backup"
	"github.com/dsurfergithub/habitorbit/internal/config"
	apperrors "github.com/dsurfergithub/habitorbit/internal/errors"
	"github.com/dsurfergithub/habitorbit/internal/habits"
	"github.com/dsurfergithub/habitorbit/internal/logger"
	"github.com/dsurfergithub/habitorbit/internal/models"
	"github.com/dsurfergithub/habitorbit/internal/objectives"
	"github.com/dsurfergithub/habitorbit/internal/storage"
	"github.com/dsurfergithub/habitorbit/internal/utils"
)

// Context carries the wired application into every command
type Context struct {
	Config     *config.Config
	ConfigPath string
	Store      storage.Provider
	Habits     *habits.Store
	Tracker    *objectives.Tracker
	Backups    *backup.Manager
	Now        func() time.Time
	Out        io.Writer
	Confirm    func(title string) (bool, error)

	loaded bool
}

// NewContext wires the engine components on top of store
func NewContext(cfg *config.Config, configPath string, store storage.Provider) *Context {
	now := utils.Clock(cfg.Location())
	hs := habits.New(store, habits.WithClock(now), habits.WithLogger(logger.Named("habits")))
	tracker := objectives.New(store, objectives.WithLogger(logger.Named("objectives")))

	return &Context{
		Config:     cfg,
		ConfigPath: configPath,
		Store:      store,
		Habits:     hs,
		Tracker:    tracker,
		Backups: backup.NewManager(store.GetConfigPath(), hs, tracker,
			backup.WithMaxBackups(cfg.Backup.MaxBackups),
			backup.WithLogger(logger.Named("backup")),
		),
		Now:     now,
		Out:     os.Stdout,
		Confirm: confirmPrompt,
	}
}

// Load opens the store and reads habits and daily objectives. The daily recovery rollover runs here.
func (c *Context) Load() error {
	if c.loaded {
		return nil
	}
	if err := c.Store.Load(); err != nil {
		return err
	}
	if err := c.Habits.Load(); err != nil {
		return err
	}
	if err := c.Tracker.Load(c.Now()); err != nil {
		if !errors.Is(err, apperrors.ErrStorage) {
			return err
		}
		logger.Warn("Daily objectives could not be saved after load", "error", err)
	}
	c.loaded = true
	return nil
}

// Sync rereads everything from the store, so writes made by other invocations are kept,
// then rolls the daily objectives over against now. It reports whether a rollover happened.
func (c *Context) Sync(now time.Time) (bool, error) {
	if err := c.Store.Load(); err != nil {
		return false, err
	}
	if err := c.Habits.Load(); err != nil {
		return false, err
	}
	rolled, err := c.Tracker.Sync(now)
	if err == nil {
		c.loaded = true
	}
	return rolled, err
}

// Close releases the store
func (c *Context) Close() error {
	return c.Store.Close()
}

// Today returns the day-key of the current date in the configured time zone
func (c *Context) Today() string {
	return utils.DayKey(c.Now())
}

func (c *Context) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}

// confirm asks before a destructive change unless yes is set
func (c *Context) confirm(yes bool, title string) (bool, error) {
	if yes {
		return true, nil
	}
	if c.Confirm == nil {
		return false, fmt.Errorf("confirmation required, rerun with --yes")
	}
	return c.Confirm(title)
}

func confirmPrompt(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	return ok, nil
}

// isStorageErr reports a persistence failure after the change was applied in memory
func isStorageErr(err error) bool {
	return errors.Is(err, apperrors.ErrStorage)
}

// resolveHabit accepts a habit id or a case-insensitive name
func (c *Context) resolveHabit(ref string) (models.Habit, error) {
	h, err := c.Habits.Get(ref)
	if err == nil {
		return h, nil
	}
	if !errors.Is(err, apperrors.ErrHabitNotFound) {
		return models.Habit{}, err
	}
	return c.Habits.FindByName(ref)
}

// parseDay accepts "today", "yesterday" or a YYYY-MM-DD key
func parseDay(arg string, now time.Time) (string, error) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "", "today":
		return utils.DayKey(now), nil
	case "yesterday":
		return utils.DayKey(now.AddDate(0, 0, -1)), nil
	}
	if !utils.ValidateDayKey(arg) {
		return "", apperrors.Validationf("invalid day %q (expected YYYY-MM-DD, today or yesterday)", arg)
	}
	return arg, nil
}

var (
	completedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	breakStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle     = lipgloss.NewStyle().Bold(true)
)

func statusGlyph(s models.DayStatus) string {
	switch s {
	case models.StatusCompleted:
		return completedStyle.Render("✓")
	case models.StatusFailed:
		return failedStyle.Render("✗")
	case models.StatusBreak:
		return breakStyle.Render("~")
	default:
		return mutedStyle.Render("·")
	}
}

func habitName(h models.Habit) string {
	if h.Color == "" {
		return titleStyle.Render(h.Name)
	}
	return titleStyle.Foreground(lipgloss.Color(h.Color)).Render(h.Name)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
