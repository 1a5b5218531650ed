// Package stats derives read-only summaries from habit histories.
package stats

import (
	"sort"
	"time"

	"github.com/dsurfergithub/habitorbit/internal/constants"
	"github.com/dsurfergithub/habitorbit/internal/milestone"
	"github.com/dsurfergithub/habitorbit/internal/models"
	"github.com/dsurfergithub/habitorbit/internal/utils"
)

// CompletedCount counts the completed days of a history
func CompletedCount(history models.History) int {
	return milestone.CompletedCount(history)
}

// Streak walks recorded days from newest to oldest, counting completed and break days,
// and stops at the first other status. Unrecorded days do not break the streak.
func Streak(history models.History) int {
	days := history.SortedDays()
	streak := 0
	for i := len(days) - 1; i >= 0; i-- {
		st := history[days[i]]
		if st != models.StatusCompleted && st != models.StatusBreak {
			break
		}
		streak++
	}
	return streak
}

// GlobalIntensity is the share of habits completed on day, 0 when there are no habits
func GlobalIntensity(habits []models.Habit, day string) float64 {
	if len(habits) == 0 {
		return 0
	}
	completed := 0
	for _, h := range habits {
		if h.History.Status(day) == models.StatusCompleted {
			completed++
		}
	}
	return float64(completed) / float64(len(habits))
}

// HeatmapCell is one cell of the month/day heatmap. Exists is false for dates like Feb 30.
type HeatmapCell struct {
	Date      string
	Exists    bool
	Intensity float64
}

// Heatmap is indexed [day-1][month-1]
type Heatmap [utils.MatrixRows][utils.MatrixColumns]HeatmapCell

// BuildHeatmap computes the global intensity of every day of year
func BuildHeatmap(habits []models.Habit, year int, loc *time.Location) Heatmap {
	var hm Heatmap
	matrix := utils.BuildMonthDayMatrix(year, loc)
	for d := range matrix {
		for m := range matrix[d] {
			date := matrix[d][m]
			if date == nil {
				continue
			}
			key := utils.DayKey(*date)
			hm[d][m] = HeatmapCell{
				Date:      key,
				Exists:    true,
				Intensity: GlobalIntensity(habits, key),
			}
		}
	}
	return hm
}

// Momentum labels how much of today's work is done across habits
type Momentum string

const (
	MomentumStarting Momentum = "starting"
	MomentumStable   Momentum = "stable"
	MomentumOnTrack  Momentum = "on_track"
	MomentumRegain   Momentum = "regain"
)

// MomentumFor classifies the ratio of habits completed today
func MomentumFor(habits []models.Habit, today string) Momentum {
	if len(habits) == 0 {
		return MomentumStarting
	}
	ratio := GlobalIntensity(habits, today)
	switch {
	case ratio >= 0.8:
		return MomentumStable
	case ratio >= 0.4:
		return MomentumOnTrack
	default:
		return MomentumRegain
	}
}

// IsAutoFailed reports whether an unrecorded day should be shown as failed: it lies at least
// the grace period in the past and not before the habit was created.
func IsAutoFailed(h models.Habit, date, today time.Time) bool {
	if h.History.Status(utils.DayKey(date)) != models.StatusNone {
		return false
	}
	if h.CreatedAt.IsZero() {
		return false
	}
	if utils.DaysBetween(date, today) < constants.AutoFailGraceDays {
		return false
	}
	created := h.CreatedAt.In(date.Location())
	return utils.DaysBetween(created, date) >= 0
}

// Trophy is a milestone together with the habit that earned it
type Trophy struct {
	HabitID    string
	HabitName  string
	HabitColor string
	models.Milestone
}

// Trophies flattens every milestone, newest date first
func Trophies(habits []models.Habit) []Trophy {
	out := []Trophy{}
	for _, h := range habits {
		for _, m := range h.Milestones {
			out = append(out, Trophy{
				HabitID:    h.ID,
				HabitName:  h.Name,
				HabitColor: h.Color,
				Milestone:  m,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out
}

// TrophySummary counts milestones per habit
type TrophySummary struct {
	HabitID string
	Name    string
	Color   string
	Count   int
	Emoji   string
}

// SummarizeTrophies returns one entry per habit that has at least one milestone
func SummarizeTrophies(habits []models.Habit) []TrophySummary {
	out := []TrophySummary{}
	for _, h := range habits {
		if len(h.Milestones) == 0 {
			continue
		}
		emoji := h.EmojiTemplate
		if emoji == "" {
			emoji = constants.DefaultMilestoneEmoji
		}
		out = append(out, TrophySummary{
			HabitID: h.ID,
			Name:    h.Name,
			Color:   h.Color,
			Count:   len(h.Milestones),
			Emoji:   emoji,
		})
	}
	return out
}
