package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	apperrors "github.com/dsurfergithub/habitorbit/internal/errors"
	"github.com/dsurfergithub/habitorbit/internal/models"
	"github.com/dsurfergithub/habitorbit/internal/validation"
)

type fakeHabits struct {
	habits   []models.Habit
	replaced int
}

func (f *fakeHabits) All() []models.Habit { return f.habits }

func (f *fakeHabits) Replace(habits []models.Habit) error {
	f.habits = habits
	f.replaced++
	return nil
}

type fakeDaily struct {
	current  models.DailyObjectiveRecord
	history  []models.DailyObjectiveRecord
	replaced int
}

func (f *fakeDaily) Current() models.DailyObjectiveRecord { return f.current }
func (f *fakeDaily) History() []models.DailyObjectiveRecord { return f.history }

func (f *fakeDaily) Replace(current *models.DailyObjectiveRecord, history []models.DailyObjectiveRecord) error {
	if current != nil {
		f.current = *current
	}
	if history != nil {
		f.history = history
	}
	f.replaced++
	return nil
}

func sampleState() (*fakeHabits, *fakeDaily) {
	habits := &fakeHabits{habits: []models.Habit{{
		ID:               "h1",
		Name:             "Read",
		Frequency:        5,
		CumulativeTarget: 10,
		History:          models.History{"2024-01-01": models.StatusCompleted},
		Milestones:       []models.Milestone{},
	}}}
	daily := &fakeDaily{
		current: models.DailyObjectiveRecord{Date: "2024-01-02", Status: models.ObjectivePending, Tasks: validation.NewTasks()},
		history: []models.DailyObjectiveRecord{
			{Date: "2024-01-01", Status: models.ObjectiveChecked, Tasks: validation.NewTasks()},
		},
	}
	return habits, daily
}

func TestExportShape(t *testing.T) {
	habits, daily := sampleState()
	exportedAt := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	if err := WriteExport(&buf, Export(habits, daily, exportedAt)); err != nil {
		t.Fatalf("WriteExport failed: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("export is not a JSON object: %v", err)
	}
	for _, key := range []string{"habits", "dailyHistory", "currentDaily", "exportedAt"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("expected key %q in export", key)
		}
	}
	if string(raw["exportedAt"]) != `"2024-01-02T12:00:00Z"` {
		t.Errorf("unexpected exportedAt: %s", raw["exportedAt"])
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	habits, daily := sampleState()
	var buf bytes.Buffer
	if err := WriteExport(&buf, Export(habits, daily, time.Now())); err != nil {
		t.Fatal(err)
	}

	targetHabits, targetDaily := &fakeHabits{}, &fakeDaily{}
	result, err := Import(buf.Bytes(), targetHabits, targetDaily)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Habits != 1 || !result.HistoryReplaced || !result.CurrentReplaced {
		t.Errorf("unexpected result: %+v", result)
	}
	if targetHabits.habits[0].History.Status("2024-01-01") != models.StatusCompleted {
		t.Error("expected history to round-trip")
	}
	if targetDaily.current.Date != "2024-01-02" || len(targetDaily.history) != 1 {
		t.Errorf("expected daily state to round-trip, got %+v", targetDaily)
	}
}

func TestImportWithoutDailyKeepsExisting(t *testing.T) {
	habits, daily := sampleState()
	doc := `{"habits":[{"id":"n1","name":"Stretch","frequency":3,"history":{}}]}`

	result, err := Import([]byte(doc), habits, daily)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.HistoryReplaced || result.CurrentReplaced {
		t.Errorf("expected daily state untouched, got %+v", result)
	}
	if len(habits.habits) != 1 || habits.habits[0].ID != "n1" {
		t.Errorf("expected habits replaced, got %+v", habits.habits)
	}
	if len(daily.history) != 1 || daily.history[0].Date != "2024-01-01" {
		t.Error("expected existing daily history kept")
	}
	if daily.current.Date != "2024-01-02" {
		t.Error("expected existing current record kept")
	}
}

func TestImportRejectsWithoutChanges(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{habits: oops`},
		{"array", `[]`},
		{"no habits", `{"dailyHistory":[]}`},
		{"null habits", `{"habits":null}`},
		{"habits not a list", `{"habits":{"id":"x"}}`},
		{"habit without id", `{"habits":[{"name":"A","frequency":1}]}`},
		{"invalid status", `{"habits":[{"id":"a","name":"A","frequency":1,"history":{"2024-01-01":"done"}}]}`},
		{"bad history record", `{"habits":[],"dailyHistory":[{"date":"someday","status":"checked"}]}`},
		{"bad current record", `{"habits":[],"currentDaily":{"date":"2024-01-01","status":"maybe"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			habits, daily := sampleState()
			_, err := Import([]byte(tt.doc), habits, daily)
			if !errors.Is(err, apperrors.ErrInvalidImport) {
				t.Errorf("expected ErrInvalidImport, got %v", err)
			}
			if habits.replaced != 0 || daily.replaced != 0 {
				t.Error("expected no state to be replaced")
			}
			if habits.habits[0].ID != "h1" {
				t.Error("expected habits untouched")
			}
		})
	}
}

func TestParseAcceptsFixableRecords(t *testing.T) {
	doc := `{
		"habits":[{"id":"a","name":"A","frequency":0,"cumulativeTarget":0}],
		"dailyHistory":[{"date":"2024-01-01","status":"checked","tasks":[]}],
		"currentDaily":{"date":"2024-01-02","tasks":[{"id":"1","text":"x"}]}
	}`
	parsed, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("expected fixable document to parse, got %v", err)
	}
	if parsed.CurrentDaily == nil || parsed.DailyHistory == nil {
		t.Error("expected daily parts to be present")
	}
}
