// Package objectives tracks the seven daily tasks and rolls each day into a bounded history.
package objectives

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dsurfergithub/habitorbit/internal/constants"
	apperrors "github.com/dsurfergithub/habitorbit/internal/errors"
	"github.com/dsurfergithub/habitorbit/internal/logger"
	"github.com/dsurfergithub/habitorbit/internal/models"
	"github.com/dsurfergithub/habitorbit/internal/storage"
	"github.com/dsurfergithub/habitorbit/internal/utils"
	"github.com/dsurfergithub/habitorbit/internal/validation"
)

// Tracker owns the current daily record and the archived history, newest first
type Tracker struct {
	provider     storage.Provider
	current      models.DailyObjectiveRecord
	history      []models.DailyObjectiveRecord
	historyLimit int
	log          *log.Logger
}

// Option configures a Tracker
type Option func(*Tracker)

// WithLogger sets the logger
func WithLogger(l *log.Logger) Option {
	return func(t *Tracker) { t.log = l }
}

// WithHistoryLimit overrides how many archived records are kept
func WithHistoryLimit(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.historyLimit = n
		}
	}
}

// New creates a Tracker backed by provider. Call Load before use.
func New(provider storage.Provider, opts ...Option) *Tracker {
	t := &Tracker{
		provider:     provider,
		history:      []models.DailyObjectiveRecord{},
		historyLimit: constants.MaxDailyHistory,
		log:          logger.Get(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewRecord returns an empty pending record for the day of now
func NewRecord(now time.Time) models.DailyObjectiveRecord {
	return models.DailyObjectiveRecord{
		Date:   utils.DayKey(now),
		Status: models.ObjectivePending,
		Tasks:  validation.NewTasks(),
	}
}

// Load reads the persisted records and runs the recovery rollover against now,
// so a day that passed while nothing was running is archived exactly once.
func (t *Tracker) Load(now time.Time) error {
	_, err := t.Sync(now)
	return err
}

// Sync replaces the in-memory records with the persisted ones, picking up writes made by other
// processes, then rolls over against now. It reports whether a rollover happened.
func (t *Tracker) Sync(now time.Time) (bool, error) {
	var history []models.DailyObjectiveRecord
	if _, err := storage.ReadJSON(t.provider, storage.SlotDailyHistory, &history); err != nil {
		return false, apperrors.Wrap("load", "daily history", "", err)
	}
	t.history = validation.NormalizeDailyHistory(history, t.historyLimit)

	var current models.DailyObjectiveRecord
	found, err := storage.ReadJSON(t.provider, storage.SlotCurrentDaily, &current)
	if err != nil {
		return false, apperrors.Wrap("load", "current daily", "", err)
	}
	if !found || current.Date == "" {
		t.current = NewRecord(now)
		t.log.Debug("No current daily record, starting fresh", "date", t.current.Date)
		return false, t.saveCurrent()
	}
	t.current = validation.NormalizeRecord(current)

	return t.RolloverIfDayChanged(now)
}

// ToggleTask flips completion of one task of the current record. Unknown ids are ignored.
func (t *Tracker) ToggleTask(taskID string) error {
	for i := range t.current.Tasks {
		if t.current.Tasks[i].ID == taskID {
			t.current.Tasks[i].Completed = !t.current.Tasks[i].Completed
			return t.saveCurrent()
		}
	}
	return nil
}

// SetTaskText replaces the text of one task of the current record. Unknown ids are ignored.
func (t *Tracker) SetTaskText(taskID, text string) error {
	for i := range t.current.Tasks {
		if t.current.Tasks[i].ID == taskID {
			t.current.Tasks[i].Text = text
			return t.saveCurrent()
		}
	}
	return nil
}

// RolloverIfDayChanged archives the current record when now falls on a different day and starts
// a fresh one. It reports whether a rollover happened. Calling it again for the same day is a no-op.
func (t *Tracker) RolloverIfDayChanged(now time.Time) (bool, error) {
	today := utils.DayKey(now)
	if t.current.Date == today {
		return false, nil
	}

	archived := false
	if t.current.HasContent() {
		closed := t.current.Clone()
		if closed.AllCompleted() {
			closed.Status = models.ObjectiveChecked
		} else {
			closed.Status = models.ObjectiveFailed
		}
		if !t.hasDate(closed.Date) {
			t.history = append([]models.DailyObjectiveRecord{closed}, t.history...)
			if len(t.history) > t.historyLimit {
				t.history = t.history[:t.historyLimit]
			}
			archived = true
		}
		t.log.Info("Daily objectives closed", "date", closed.Date, "status", closed.Status)
	}

	t.current = NewRecord(now)

	if archived {
		if err := t.saveHistory(); err != nil {
			return true, err
		}
	}
	return true, t.saveCurrent()
}

// Current returns a copy of today's record
func (t *Tracker) Current() models.DailyObjectiveRecord {
	return t.current.Clone()
}

// History returns copies of the archived records, newest first
func (t *Tracker) History() []models.DailyObjectiveRecord {
	out := make([]models.DailyObjectiveRecord, 0, len(t.history))
	for _, r := range t.history {
		out = append(out, r.Clone())
	}
	return out
}

// Progress summarizes completion of the current record
type Progress struct {
	Completed int
	Total     int
}

// IsPerfect reports whether every task is completed
func (p Progress) IsPerfect() bool {
	return p.Total > 0 && p.Completed == p.Total
}

// Percent returns completion as a whole percentage
func (p Progress) Percent() int {
	if p.Total == 0 {
		return 0
	}
	return p.Completed * 100 / p.Total
}

// Progress counts completed tasks out of the fixed daily total
func (t *Tracker) Progress() Progress {
	p := Progress{Total: constants.TasksPerDay}
	for _, task := range t.current.Tasks {
		if task.Completed {
			p.Completed++
		}
	}
	return p
}

// Replace swaps in imported state. A nil argument leaves that part unchanged.
func (t *Tracker) Replace(current *models.DailyObjectiveRecord, history []models.DailyObjectiveRecord) error {
	if history != nil {
		t.history = validation.NormalizeDailyHistory(history, t.historyLimit)
	}
	if current != nil {
		t.current = validation.NormalizeRecord(*current)
	}

	var firstErr error
	if history != nil {
		firstErr = t.saveHistory()
	}
	if current != nil {
		if err := t.saveCurrent(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t *Tracker) hasDate(date string) bool {
	for _, r := range t.history {
		if r.Date == date {
			return true
		}
	}
	return false
}

func (t *Tracker) saveHistory() error {
	if err := storage.WriteJSON(t.provider, storage.SlotDailyHistory, t.history); err != nil {
		t.log.Error("Failed to persist daily history", "error", err)
		return apperrors.Storage(fmt.Errorf("failed to save daily history: %w", err))
	}
	return nil
}

func (t *Tracker) saveCurrent() error {
	if err := storage.WriteJSON(t.provider, storage.SlotCurrentDaily, t.current); err != nil {
		t.log.Error("Failed to persist current daily record", "error", err)
		return apperrors.Storage(fmt.Errorf("failed to save current daily record: %w", err))
	}
	return nil
}
