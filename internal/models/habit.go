package models

import (
	"sort"
	"time"
)

// DayStatus represents the recorded state of a habit on a given day
type DayStatus string

const (
	StatusNone      DayStatus = "none"
	StatusCompleted DayStatus = "completed"
	StatusFailed    DayStatus = "failed"
	StatusBreak     DayStatus = "break"
)

// statusCycle is the click-to-cycle order used by collaborators
var statusCycle = []DayStatus{StatusNone, StatusCompleted, StatusFailed, StatusBreak}

// Valid reports whether s is one of the four known statuses
func (s DayStatus) Valid() bool {
	switch s {
	case StatusNone, StatusCompleted, StatusFailed, StatusBreak:
		return true
	}
	return false
}

// Next returns the status following s in the cycle none → completed → failed → break → none.
// Unknown values restart the cycle at completed.
func (s DayStatus) Next() DayStatus {
	for i, st := range statusCycle {
		if st == s {
			return statusCycle[(i+1)%len(statusCycle)]
		}
	}
	return StatusCompleted
}

// History maps a day-key (YYYY-MM-DD) to the status recorded on that day.
// A missing key means StatusNone.
type History map[string]DayStatus

// Status returns the status for day, StatusNone when unset
func (h History) Status(day string) DayStatus {
	if st, ok := h[day]; ok {
		return st
	}
	return StatusNone
}

// SortedDays returns the recorded day-keys in chronological order
func (h History) SortedDays() []string {
	days := make([]string, 0, len(h))
	for day := range h {
		days = append(days, day)
	}
	sort.Strings(days)
	return days
}

// Clone returns an independent copy of the history
func (h History) Clone() History {
	out := make(History, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

// Habit represents a tracked recurring behavior with its completion history and milestone ledger
type Habit struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Color            string      `json:"color"`
	Frequency        int         `json:"frequency"` // target days per week, informational
	History          History     `json:"history"`
	Milestones       []Milestone `json:"milestones"`
	CumulativeTarget int         `json:"cumulativeTarget"`
	RewardTemplate   string      `json:"rewardTemplate"`
	EmojiTemplate    string      `json:"emojiTemplate"`
	IsArchived       bool        `json:"isArchived,omitempty"`
	CreatedAt        time.Time   `json:"createdAt"`
}

// Clone returns a deep copy so callers cannot mutate store-owned maps and slices
func (h Habit) Clone() Habit {
	out := h
	out.History = h.History.Clone()
	out.Milestones = append([]Milestone(nil), h.Milestones...)
	if out.Milestones == nil {
		out.Milestones = []Milestone{}
	}
	return out
}

// Milestone is a reward unlocked when the cumulative completed-day count reaches a multiple
// of the habit's target cadence
type Milestone struct {
	ID              string `json:"id"`
	DayIndex        int    `json:"dayIndex"`
	Label           string `json:"label"`
	Date            string `json:"date"` // YYYY-MM-DD format
	Emoji           string `json:"emoji"`
	Reward          string `json:"reward"`
	IsAutoGenerated bool   `json:"isAutoGenerated"`
}
