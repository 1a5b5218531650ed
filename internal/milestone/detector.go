// Package milestone decides when a habit earns an automatic milestone.
package milestone

import (
	"fmt"
	"strings"

	"github.com/dsurfergithub/habitorbit/internal/constants"
	"github.com/dsurfergithub/habitorbit/internal/models"
)

// AutoPrefix returns the id prefix shared by every auto milestone earned at count
func AutoPrefix(count int) string {
	return fmt.Sprintf("%s%d-", constants.AutoMilestonePrefix, count)
}

// Target returns the habit's cadence, falling back to the default when unset
func Target(h models.Habit) int {
	if h.CumulativeTarget <= 0 {
		return constants.DefaultCumulativeTarget
	}
	return h.CumulativeTarget
}

// CompletedCount counts the days recorded as completed
func CompletedCount(history models.History) int {
	count := 0
	for _, st := range history {
		if st == models.StatusCompleted {
			count++
		}
	}
	return count
}

// Detect returns the milestone earned by setting day to status, or nil.
// history must already contain the update. suffix makes the id unique.
func Detect(h models.Habit, history models.History, day string, status models.DayStatus, suffix string) *models.Milestone {
	if status != models.StatusCompleted {
		return nil
	}

	count := CompletedCount(history)
	if count == 0 || count%Target(h) != 0 {
		return nil
	}

	prefix := AutoPrefix(count)
	for _, m := range h.Milestones {
		if strings.HasPrefix(m.ID, prefix) {
			return nil
		}
	}

	return &models.Milestone{
		ID:              prefix + suffix,
		DayIndex:        count,
		Label:           fmt.Sprintf("%d %s", count, constants.MilestoneLabelSuffix),
		Date:            day,
		Emoji:           h.EmojiTemplate,
		Reward:          h.RewardTemplate,
		IsAutoGenerated: true,
	}
}

// Progress describes how far a habit is from its next milestone
type Progress struct {
	Completed int
	Target    int
	Next      int // completed count at which the next milestone fires
	Remaining int
}

// ProgressOf computes milestone progress from the habit's history
func ProgressOf(h models.Habit) Progress {
	target := Target(h)
	completed := CompletedCount(h.History)
	next := (completed/target + 1) * target
	return Progress{
		Completed: completed,
		Target:    target,
		Next:      next,
		Remaining: next - completed,
	}
}
