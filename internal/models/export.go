package models

import "time"

// ViewMode identifies the screen a collaborator last showed
type ViewMode string

const (
	ViewDailyObjectives ViewMode = "daily_objectives"
	ViewOverview        ViewMode = "overview"
	ViewIndividual      ViewMode = "individual"
	ViewGroup           ViewMode = "group"
	ViewTrophies        ViewMode = "trophies"
)

// Valid reports whether v is a known view mode
func (v ViewMode) Valid() bool {
	switch v {
	case ViewDailyObjectives, ViewOverview, ViewIndividual, ViewGroup, ViewTrophies:
		return true
	}
	return false
}

// ExportDocument is the full-state backup shape. Field names are part of the file format.
type ExportDocument struct {
	Habits       []Habit                `json:"habits"`
	DailyHistory []DailyObjectiveRecord `json:"dailyHistory"`
	CurrentDaily DailyObjectiveRecord   `json:"currentDaily"`
	ExportedAt   time.Time              `json:"exportedAt"`
}
