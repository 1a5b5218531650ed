package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dsurfergithub/habitorbit/internal/constants"
	"github.com/dsurfergithub/habitorbit/internal/models"
	"github.com/dsurfergithub/habitorbit/internal/utils"
)

// ConflictType represents the type of integrity problem
type ConflictType string

const (
	ConflictMissingHabitID       ConflictType = "missing_habit_id"
	ConflictDuplicateHabitID     ConflictType = "duplicate_habit_id"
	ConflictEmptyHabitName       ConflictType = "empty_habit_name"
	ConflictInvalidDayKey        ConflictType = "invalid_day_key"
	ConflictInvalidStatus        ConflictType = "invalid_status"
	ConflictDuplicateMilestone   ConflictType = "duplicate_milestone"
	ConflictInvalidRecordDate    ConflictType = "invalid_record_date"
	ConflictInvalidRecordStatus  ConflictType = "invalid_record_status"
	ConflictDuplicateRecordDate  ConflictType = "duplicate_record_date"
	ConflictInvalidTaskCount     ConflictType = "invalid_task_count"
	ConflictFrequencyOutOfRange  ConflictType = "frequency_out_of_range"
	ConflictNonPositiveTarget    ConflictType = "non_positive_target"
	ConflictHistoryLimitExceeded ConflictType = "history_limit_exceeded"
)

// fixable lists the conflict types Normalize repairs on its own
var fixable = map[ConflictType]bool{
	ConflictInvalidTaskCount:     true,
	ConflictFrequencyOutOfRange:  true,
	ConflictNonPositiveTarget:    true,
	ConflictDuplicateRecordDate:  true,
	ConflictHistoryLimitExceeded: true,
}

// Conflict represents a detected problem in habits or daily records
type Conflict struct {
	Type        ConflictType
	Description string
	HabitID     string // set for habit conflicts
	Date        string // YYYY-MM-DD format (if applicable)
}

// Fixable reports whether normalization repairs this conflict
func (c Conflict) Fixable() bool {
	return fixable[c.Type]
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Fatal returns the conflicts normalization cannot repair
func (vr *ValidationResult) Fatal() []Conflict {
	var out []Conflict
	for _, c := range vr.Conflicts {
		if !c.Fixable() {
			out = append(out, c)
		}
	}
	return out
}

// Err returns an error describing the first unrepairable conflict, or nil
func (vr *ValidationResult) Err() error {
	fatal := vr.Fatal()
	if len(fatal) == 0 {
		return nil
	}
	if len(fatal) == 1 {
		return fmt.Errorf("%s", fatal[0].Description)
	}
	return fmt.Errorf("%s (and %d more)", fatal[0].Description, len(fatal)-1)
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		marker := ""
		if conflict.Fixable() {
			marker = " (fixable)"
		}
		fmt.Fprintf(&b, "- %s%s\n", conflict.Description, marker)
	}
	return b.String()
}

// Validator checks habits and daily records for integrity problems
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateHabits checks habit records as loaded or imported
func (v *Validator) ValidateHabits(habits []models.Habit) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	seen := make(map[string]bool)

	for i, h := range habits {
		label := h.ID
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}

		if h.ID == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictMissingHabitID,
				Description: fmt.Sprintf("Habit %s has no id", label),
			})
		} else if seen[h.ID] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateHabitID,
				Description: fmt.Sprintf("Duplicate habit id: %s", h.ID),
				HabitID:     h.ID,
			})
		}
		seen[h.ID] = true

		if strings.TrimSpace(h.Name) == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictEmptyHabitName,
				Description: fmt.Sprintf("Habit %s has an empty name", label),
				HabitID:     h.ID,
			})
		}

		if h.Frequency < constants.MinFrequency || h.Frequency > constants.MaxFrequency {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictFrequencyOutOfRange,
				Description: fmt.Sprintf("Habit %s has frequency %d outside %d-%d", label, h.Frequency, constants.MinFrequency, constants.MaxFrequency),
				HabitID:     h.ID,
			})
		}

		if h.CumulativeTarget <= 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictNonPositiveTarget,
				Description: fmt.Sprintf("Habit %s has no positive milestone target", label),
				HabitID:     h.ID,
			})
		}

		for _, day := range h.History.SortedDays() {
			if !utils.ValidateDayKey(day) {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictInvalidDayKey,
					Description: fmt.Sprintf("Habit %s has invalid day key %q", label, day),
					HabitID:     h.ID,
					Date:        day,
				})
			}
			st := h.History[day]
			// none is never stored; an explicit none is a malformed entry
			if !st.Valid() || st == models.StatusNone {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictInvalidStatus,
					Description: fmt.Sprintf("Habit %s has invalid status %q on %s", label, st, day),
					HabitID:     h.ID,
					Date:        day,
				})
			}
		}

		ids := make(map[string]bool)
		for _, m := range h.Milestones {
			if m.ID == "" || ids[m.ID] {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictDuplicateMilestone,
					Description: fmt.Sprintf("Habit %s has a missing or duplicate milestone id %q", label, m.ID),
					HabitID:     h.ID,
					Date:        m.Date,
				})
			}
			ids[m.ID] = true
		}
	}

	return result
}

// ValidateRecord checks one daily objective record
func (v *Validator) ValidateRecord(r models.DailyObjectiveRecord) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	v.checkRecord(&result, r)
	return result
}

// ValidateDailyHistory checks archived records: each must be valid, dates unique, within the limit
func (v *Validator) ValidateDailyHistory(records []models.DailyObjectiveRecord) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	seen := make(map[string]bool)

	for _, r := range records {
		v.checkRecord(&result, r)
		if seen[r.Date] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateRecordDate,
				Description: fmt.Sprintf("Daily history has more than one record for %s", r.Date),
				Date:        r.Date,
			})
		}
		seen[r.Date] = true
	}

	if len(records) > constants.MaxDailyHistory {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictHistoryLimitExceeded,
			Description: fmt.Sprintf("Daily history holds %d records, limit is %d", len(records), constants.MaxDailyHistory),
		})
	}

	return result
}

func (v *Validator) checkRecord(result *ValidationResult, r models.DailyObjectiveRecord) {
	if !utils.ValidateDayKey(r.Date) {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictInvalidRecordDate,
			Description: fmt.Sprintf("Daily record has invalid date %q", r.Date),
			Date:        r.Date,
		})
	}

	switch r.Status {
	case models.ObjectivePending, models.ObjectiveChecked, models.ObjectiveFailed, "":
	default:
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictInvalidRecordStatus,
			Description: fmt.Sprintf("Daily record %s has invalid status %q", r.Date, r.Status),
			Date:        r.Date,
		})
	}

	if len(r.Tasks) != constants.TasksPerDay {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictInvalidTaskCount,
			Description: fmt.Sprintf("Daily record %s has %d tasks, expected %d", r.Date, len(r.Tasks), constants.TasksPerDay),
			Date:        r.Date,
		})
	}
}

// NormalizeHabit repairs the fixable problems of a habit and fills nil collections
func NormalizeHabit(h models.Habit) models.Habit {
	out := h.Clone()
	if out.History == nil {
		out.History = models.History{}
	}
	if out.CumulativeTarget <= 0 {
		out.CumulativeTarget = constants.DefaultCumulativeTarget
	}
	if out.Frequency < constants.MinFrequency {
		out.Frequency = constants.MinFrequency
	}
	if out.Frequency > constants.MaxFrequency {
		out.Frequency = constants.MaxFrequency
	}
	return out
}

// NewTasks returns an empty task list with positional ids "1".."7"
func NewTasks() []models.Task {
	tasks := make([]models.Task, constants.TasksPerDay)
	for i := range tasks {
		tasks[i] = models.Task{ID: strconv.Itoa(i + 1)}
	}
	return tasks
}

// NormalizeRecord pads or truncates the task list to the fixed size and defaults the status
func NormalizeRecord(r models.DailyObjectiveRecord) models.DailyObjectiveRecord {
	out := r.Clone()
	if out.Status == "" {
		out.Status = models.ObjectivePending
	}
	if len(out.Tasks) > constants.TasksPerDay {
		out.Tasks = out.Tasks[:constants.TasksPerDay]
	}
	present := make(map[string]bool, len(out.Tasks))
	for _, task := range out.Tasks {
		present[task.ID] = true
	}
	// Padding takes the lowest ids not already used
	for n := 1; len(out.Tasks) < constants.TasksPerDay; n++ {
		id := strconv.Itoa(n)
		if present[id] {
			continue
		}
		out.Tasks = append(out.Tasks, models.Task{ID: id})
	}
	return out
}

// NormalizeDailyHistory normalizes each record, keeps the first record per date and trims to limit
func NormalizeDailyHistory(records []models.DailyObjectiveRecord, limit int) []models.DailyObjectiveRecord {
	out := make([]models.DailyObjectiveRecord, 0, len(records))
	seen := make(map[string]bool)
	for _, r := range records {
		if seen[r.Date] {
			continue
		}
		seen[r.Date] = true
		out = append(out, NormalizeRecord(r))
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
