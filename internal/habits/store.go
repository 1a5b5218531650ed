// Package habits owns the habit collection and is the only path that mutates habit history.
package habits

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dsurfergithub/habitorbit/internal/constants"
	apperrors "github.com/dsurfergithub/habitorbit/internal/errors"
	"github.com/dsurfergithub/habitorbit/internal/ids"
	"github.com/dsurfergithub/habitorbit/internal/logger"
	"github.com/dsurfergithub/habitorbit/internal/milestone"
	"github.com/dsurfergithub/habitorbit/internal/models"
	"github.com/dsurfergithub/habitorbit/internal/storage"
	"github.com/dsurfergithub/habitorbit/internal/utils"
	"github.com/dsurfergithub/habitorbit/internal/validation"
)

// Store holds the ordered habit collection and persists it to the habits slot
type Store struct {
	provider storage.Provider
	habits   []models.Habit
	now      func() time.Time
	ids      ids.Generator
	log      *log.Logger
}

// Option configures a Store
type Option func(*Store)

// WithClock sets the time source used for createdAt
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDs sets the id generator for habits and milestone suffixes
func WithIDs(g ids.Generator) Option {
	return func(s *Store) { s.ids = g }
}

// WithLogger sets the logger
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New creates an empty Store backed by provider
func New(provider storage.Provider, opts ...Option) *Store {
	s := &Store{
		provider: provider,
		habits:   []models.Habit{},
		now:      time.Now,
		ids:      ids.Default,
		log:      logger.Get(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the habits slot. A missing slot is an empty collection.
func (s *Store) Load() error {
	var loaded []models.Habit
	if _, err := storage.ReadJSON(s.provider, storage.SlotHabits, &loaded); err != nil {
		return apperrors.Wrap("load", "habits", "", err)
	}

	s.habits = make([]models.Habit, 0, len(loaded))
	for _, h := range loaded {
		s.habits = append(s.habits, validation.NormalizeHabit(h))
	}
	s.log.Debug("Loaded habits", "count", len(s.habits))
	return nil
}

// CreateParams holds the user-supplied fields of a new habit
type CreateParams struct {
	Name             string
	Color            string
	Frequency        int
	CumulativeTarget int // 0 means the default cadence
	RewardTemplate   string
	EmojiTemplate    string
}

// Create validates params and appends a new habit
func (s *Store) Create(p CreateParams) (models.Habit, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return models.Habit{}, apperrors.Validationf("habit name cannot be empty")
	}
	if p.Frequency < constants.MinFrequency || p.Frequency > constants.MaxFrequency {
		return models.Habit{}, apperrors.Validationf("frequency must be between %d and %d, got %d",
			constants.MinFrequency, constants.MaxFrequency, p.Frequency)
	}
	if p.CumulativeTarget < 0 {
		return models.Habit{}, apperrors.Validationf("milestone target must be positive, got %d", p.CumulativeTarget)
	}
	target := p.CumulativeTarget
	if target == 0 {
		target = constants.DefaultCumulativeTarget
	}
	emoji := p.EmojiTemplate
	if emoji == "" {
		emoji = constants.DefaultMilestoneEmoji
	}

	h := models.Habit{
		ID:               s.ids.NewID(),
		Name:             name,
		Color:            p.Color,
		Frequency:        p.Frequency,
		History:          models.History{},
		Milestones:       []models.Milestone{},
		CumulativeTarget: target,
		RewardTemplate:   p.RewardTemplate,
		EmojiTemplate:    emoji,
		CreatedAt:        s.now(),
	}
	s.habits = append(s.habits, h)
	s.log.Info("Created habit", "id", h.ID, "name", h.Name)

	return h.Clone(), s.save()
}

// SetDayStatus records status for habit on day and returns any milestone earned by the change.
// StatusNone removes the day. On a storage failure the change is kept in memory and the returned
// error matches ErrStorage.
func (s *Store) SetDayStatus(habitID, day string, status models.DayStatus) (*models.Milestone, error) {
	if !status.Valid() {
		return nil, apperrors.Validationf("unknown day status %q", status)
	}
	if !utils.ValidateDayKey(day) {
		return nil, apperrors.Validationf("invalid day %q, expected YYYY-MM-DD", day)
	}
	h, err := s.find(habitID)
	if err != nil {
		return nil, err
	}

	if status == models.StatusNone {
		delete(h.History, day)
	} else {
		h.History[day] = status
	}

	m := milestone.Detect(*h, h.History, day, status, ids.Suffix(s.ids))
	if m != nil {
		h.Milestones = append(h.Milestones, *m)
		s.log.Info("Milestone earned", "habit", h.ID, "count", m.DayIndex, "id", m.ID)
	}

	return copyMilestone(m), s.save()
}

// CycleDayStatus advances day to the next status of the click cycle
func (s *Store) CycleDayStatus(habitID, day string) (models.DayStatus, *models.Milestone, error) {
	h, err := s.find(habitID)
	if err != nil {
		return "", nil, err
	}
	next := h.History.Status(day).Next()
	m, err := s.SetDayStatus(habitID, day, next)
	return next, m, err
}

// Archive hides a habit from active views, keeping its history
func (s *Store) Archive(habitID string) error {
	return s.setArchived(habitID, true)
}

// Unarchive returns a habit to active views
func (s *Store) Unarchive(habitID string) error {
	return s.setArchived(habitID, false)
}

func (s *Store) setArchived(habitID string, archived bool) error {
	h, err := s.find(habitID)
	if err != nil {
		return err
	}
	h.IsArchived = archived
	return s.save()
}

// Delete removes a habit and its milestones permanently
func (s *Store) Delete(habitID string) error {
	for i := range s.habits {
		if s.habits[i].ID == habitID {
			s.habits = append(s.habits[:i], s.habits[i+1:]...)
			s.log.Info("Deleted habit", "id", habitID)
			return s.save()
		}
	}
	return notFound("delete", habitID)
}

// ApplyMilestoneReward sets the templates used for the next auto milestone.
// Past milestones are never changed.
func (s *Store) ApplyMilestoneReward(habitID, reward, emoji string, targetDays int) error {
	if targetDays <= 0 {
		return apperrors.Validationf("milestone target must be positive, got %d", targetDays)
	}
	h, err := s.find(habitID)
	if err != nil {
		return err
	}
	h.RewardTemplate = reward
	h.EmojiTemplate = emoji
	h.CumulativeTarget = targetDays
	return s.save()
}

// Get returns a copy of the habit with id
func (s *Store) Get(habitID string) (models.Habit, error) {
	h, err := s.find(habitID)
	if err != nil {
		return models.Habit{}, err
	}
	return h.Clone(), nil
}

// FindByName returns the first habit whose name matches, ignoring case
func (s *Store) FindByName(name string) (models.Habit, error) {
	for _, h := range s.habits {
		if strings.EqualFold(h.Name, strings.TrimSpace(name)) {
			return h.Clone(), nil
		}
	}
	return models.Habit{}, apperrors.Wrap("find", "habit", name, apperrors.ErrHabitNotFound)
}

// All returns copies of every habit in creation order
func (s *Store) All() []models.Habit {
	return s.filter(func(models.Habit) bool { return true })
}

// Active returns copies of the habits not archived
func (s *Store) Active() []models.Habit {
	return s.filter(func(h models.Habit) bool { return !h.IsArchived })
}

// Archived returns copies of the archived habits
func (s *Store) Archived() []models.Habit {
	return s.filter(func(h models.Habit) bool { return h.IsArchived })
}

// Replace swaps the whole collection. Callers validate habits first.
func (s *Store) Replace(habits []models.Habit) error {
	next := make([]models.Habit, 0, len(habits))
	for _, h := range habits {
		next = append(next, validation.NormalizeHabit(h))
	}
	s.habits = next
	return s.save()
}

func (s *Store) filter(keep func(models.Habit) bool) []models.Habit {
	out := []models.Habit{}
	for _, h := range s.habits {
		if keep(h) {
			out = append(out, h.Clone())
		}
	}
	return out
}

func (s *Store) find(habitID string) (*models.Habit, error) {
	for i := range s.habits {
		if s.habits[i].ID == habitID {
			return &s.habits[i], nil
		}
	}
	return nil, notFound("find", habitID)
}

func (s *Store) save() error {
	if err := storage.WriteJSON(s.provider, storage.SlotHabits, s.habits); err != nil {
		s.log.Error("Failed to persist habits", "error", err)
		return apperrors.Storage(fmt.Errorf("failed to save habits: %w", err))
	}
	return nil
}

func notFound(op, habitID string) error {
	return apperrors.Wrap(op, "habit", habitID, apperrors.ErrHabitNotFound)
}

func copyMilestone(m *models.Milestone) *models.Milestone {
	if m == nil {
		return nil
	}
	out := *m
	return &out
}
