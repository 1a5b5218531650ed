package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	apperrors "github.com/dsurfergithub/habitorbit/internal/errors"
	"github.com/dsurfergithub/habitorbit/internal/models"
	"github.com/dsurfergithub/habitorbit/internal/validation"
)

// Habits is the habit collection as seen by export and import
type Habits interface {
	All() []models.Habit
	Replace(habits []models.Habit) error
}

// Daily is the daily objective state as seen by export and import
type Daily interface {
	Current() models.DailyObjectiveRecord
	History() []models.DailyObjectiveRecord
	Replace(current *models.DailyObjectiveRecord, history []models.DailyObjectiveRecord) error
}

// Export snapshots the full application state
func Export(habits Habits, daily Daily, now time.Time) models.ExportDocument {
	return models.ExportDocument{
		Habits:       habits.All(),
		DailyHistory: daily.History(),
		CurrentDaily: daily.Current(),
		ExportedAt:   now,
	}
}

// WriteExport writes doc as indented JSON
func WriteExport(w io.Writer, doc models.ExportDocument) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// Document is a parsed and validated import. Nil fields were absent from the file.
type Document struct {
	Habits       []models.Habit
	DailyHistory []models.DailyObjectiveRecord
	CurrentDaily *models.DailyObjectiveRecord
}

// ImportResult reports what an import replaced
type ImportResult struct {
	Habits          int
	DailyHistory    int
	HistoryReplaced bool
	CurrentReplaced bool
}

// Parse decodes and validates an export document without applying it.
// A document without habits, or with any record that cannot be repaired, is rejected whole.
func Parse(data []byte) (*Document, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(data), &raw); err != nil {
		return nil, invalid("document is not a JSON object: %v", err)
	}

	habitsRaw, ok := raw["habits"]
	if !ok || isNull(habitsRaw) {
		return nil, invalid("document has no habits")
	}

	doc := &Document{}
	if err := json.Unmarshal(habitsRaw, &doc.Habits); err != nil {
		return nil, invalid("malformed habits: %v", err)
	}
	if doc.Habits == nil {
		doc.Habits = []models.Habit{}
	}

	validator := validation.New()
	result := validator.ValidateHabits(doc.Habits)
	if err := result.Err(); err != nil {
		return nil, invalid("%v", err)
	}

	if historyRaw, ok := raw["dailyHistory"]; ok && !isNull(historyRaw) {
		if err := json.Unmarshal(historyRaw, &doc.DailyHistory); err != nil {
			return nil, invalid("malformed dailyHistory: %v", err)
		}
		if doc.DailyHistory == nil {
			doc.DailyHistory = []models.DailyObjectiveRecord{}
		}
		result := validator.ValidateDailyHistory(doc.DailyHistory)
		if err := result.Err(); err != nil {
			return nil, invalid("%v", err)
		}
	}

	if currentRaw, ok := raw["currentDaily"]; ok && !isNull(currentRaw) {
		var current models.DailyObjectiveRecord
		if err := json.Unmarshal(currentRaw, &current); err != nil {
			return nil, invalid("malformed currentDaily: %v", err)
		}
		result := validator.ValidateRecord(current)
		if err := result.Err(); err != nil {
			return nil, invalid("%v", err)
		}
		doc.CurrentDaily = &current
	}

	return doc, nil
}

// Apply replaces state with a parsed document. Parts absent from the document are left as they are.
func Apply(doc *Document, habits Habits, daily Daily) (ImportResult, error) {
	result := ImportResult{
		Habits:          len(doc.Habits),
		DailyHistory:    len(doc.DailyHistory),
		HistoryReplaced: doc.DailyHistory != nil,
		CurrentReplaced: doc.CurrentDaily != nil,
	}

	habitsErr := habits.Replace(doc.Habits)
	dailyErr := daily.Replace(doc.CurrentDaily, doc.DailyHistory)
	if habitsErr != nil {
		return result, habitsErr
	}
	return result, dailyErr
}

// Import parses data and applies it. On a parse or validation error nothing is changed.
func Import(data []byte, habits Habits, daily Daily) (ImportResult, error) {
	doc, err := Parse(data)
	if err != nil {
		return ImportResult{}, err
	}
	return Apply(doc, habits, daily)
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", apperrors.ErrInvalidImport, fmt.Sprintf(format, args...))
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
