package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dsurfergithub/habitorbit/internal/constants"
)

// document is the on-disk layout of a JSONStore
type document struct {
	Version int                      `json:"version"`
	Slots   map[Slot]json.RawMessage `json:"slots"`
}

// JSONStore keeps every slot in one JSON file that is rewritten on each write.
//
// Concurrency note: a JSONStore is not safe for concurrent use by multiple goroutines without
// external synchronization, and two processes sharing the same file may lose writes.
type JSONStore struct {
	path string
	doc  *document
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.doc = &document{
		Version: 1,
		Slots:   make(map[Slot]json.RawMessage),
	}

	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Slots == nil {
		doc.Slots = make(map[Slot]json.RawMessage)
	}
	s.doc = doc

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) Read(slot Slot) ([]byte, error) {
	if s.doc == nil {
		return nil, fmt.Errorf("storage not loaded")
	}

	raw, ok := s.doc.Slots[slot]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSlotNotFound, slot)
	}
	return append([]byte(nil), raw...), nil
}

func (s *JSONStore) Write(slot Slot, data []byte) error {
	if s.doc == nil {
		return fmt.Errorf("storage not loaded")
	}
	if !json.Valid(data) {
		return fmt.Errorf("refusing to write invalid JSON to slot %s", slot)
	}

	prev, existed := s.doc.Slots[slot]
	s.doc.Slots[slot] = append(json.RawMessage(nil), data...)
	if err := s.save(); err != nil {
		// Keep the cached document in step with the file on disk
		if existed {
			s.doc.Slots[slot] = prev
		} else {
			delete(s.doc.Slots, slot)
		}
		return err
	}
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	// Write to a temporary file and rename so a crash never leaves a truncated store
	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

// GetConfigPath returns the path to the underlying storage file.
func (s *JSONStore) GetConfigPath() string {
	return s.path
}
