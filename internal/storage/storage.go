package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dsurfergithub/habitorbit/internal/models"
)

// NewProvider picks the storage backend from the file extension: .json uses a JSONStore,
// anything else a SQLite database.
func NewProvider(path string) Provider {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return NewJSONStore(path)
	}
	return NewSQLiteStore(path)
}

// ReadJSON decodes slot into v. It reports found=false, with no error, when the slot was never written.
func ReadJSON(p Provider, slot Slot, v any) (bool, error) {
	data, err := p.Read(slot)
	if err != nil {
		if errors.Is(err, ErrSlotNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("failed to parse slot %s: %w", slot, err)
	}
	return true, nil
}

// WriteJSON encodes v and replaces the whole slot with it
func WriteJSON(p Provider, slot Slot, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize slot %s: %w", slot, err)
	}
	return p.Write(slot, data)
}

// LoadLastView returns the persisted view mode, or the daily objectives view when none is stored
// or the stored value is unknown.
func LoadLastView(p Provider) (models.ViewMode, error) {
	var view models.ViewMode
	found, err := ReadJSON(p, SlotLastView, &view)
	if err != nil {
		return models.ViewDailyObjectives, err
	}
	if !found || !view.Valid() {
		return models.ViewDailyObjectives, nil
	}
	return view, nil
}

// SaveLastView persists the view mode
func SaveLastView(p Provider, view models.ViewMode) error {
	if !view.Valid() {
		return fmt.Errorf("unknown view mode %q", view)
	}
	return WriteJSON(p, SlotLastView, view)
}
