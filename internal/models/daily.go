package models

// ObjectiveStatus is the lifecycle state of a daily objective record
type ObjectiveStatus string

const (
	ObjectivePending ObjectiveStatus = "pending"
	ObjectiveChecked ObjectiveStatus = "checked"
	ObjectiveFailed  ObjectiveStatus = "failed"
)

// Task is one free-text objective of a daily record
type Task struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// DailyObjectiveRecord holds the fixed set of tasks a user commits to for one calendar day
type DailyObjectiveRecord struct {
	Date   string          `json:"date"` // YYYY-MM-DD format
	Status ObjectiveStatus `json:"status"`
	Tasks  []Task          `json:"tasks"`
}

// HasContent reports whether any task carries text
func (r DailyObjectiveRecord) HasContent() bool {
	for _, t := range r.Tasks {
		if t.Text != "" {
			return true
		}
	}
	return false
}

// AllCompleted reports whether every task is either completed or empty
func (r DailyObjectiveRecord) AllCompleted() bool {
	for _, t := range r.Tasks {
		if !t.Completed && t.Text != "" {
			return false
		}
	}
	return true
}

// Clone returns a copy with its own task slice
func (r DailyObjectiveRecord) Clone() DailyObjectiveRecord {
	out := r
	out.Tasks = append([]Task(nil), r.Tasks...)
	return out
}
