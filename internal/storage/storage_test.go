package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dsurfergithub/habitorbit/internal/models"
)

func setupTestSQLiteStore(t *testing.T) (*SQLiteStore, func()) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}

	cleanup := func() {
		store.Close()
	}

	return store, cleanup
}

func setupTestJSONStore(t *testing.T) (*JSONStore, func()) {
	path := filepath.Join(t.TempDir(), "test.json")

	store := NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}

	return store, func() { store.Close() }
}

// providers runs fn against every backend
func providers(t *testing.T, fn func(t *testing.T, p Provider)) {
	t.Run("sqlite", func(t *testing.T) {
		store, cleanup := setupTestSQLiteStore(t)
		defer cleanup()
		fn(t, store)
	})
	t.Run("json", func(t *testing.T) {
		store, cleanup := setupTestJSONStore(t)
		defer cleanup()
		fn(t, store)
	})
}

func TestReadMissingSlot(t *testing.T) {
	providers(t, func(t *testing.T, p Provider) {
		_, err := p.Read(SlotHabits)
		if !errors.Is(err, ErrSlotNotFound) {
			t.Errorf("expected ErrSlotNotFound, got %v", err)
		}
	})
}

func TestWriteThenRead(t *testing.T) {
	providers(t, func(t *testing.T, p Provider) {
		if err := p.Write(SlotHabits, []byte(`[{"id":"a"}]`)); err != nil {
			t.Fatalf("failed to write slot: %v", err)
		}
		if err := p.Write(SlotHabits, []byte(`[{"id":"b"}]`)); err != nil {
			t.Fatalf("failed to overwrite slot: %v", err)
		}

		data, err := p.Read(SlotHabits)
		if err != nil {
			t.Fatalf("failed to read slot: %v", err)
		}
		if string(data) != `[{"id":"b"}]` {
			t.Errorf("expected last write to win, got %s", data)
		}

		// Other slots are independent
		if _, err := p.Read(SlotDailyHistory); !errors.Is(err, ErrSlotNotFound) {
			t.Errorf("expected dailyHistory to be unset, got %v", err)
		}
	})
}

func TestSlotsSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"data.db", "data.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			p := NewProvider(path)
			if err := p.Init(); err != nil {
				t.Fatalf("failed to init: %v", err)
			}
			if err := WriteJSON(p, SlotCurrentDaily, map[string]string{"date": "2024-01-01"}); err != nil {
				t.Fatalf("failed to write: %v", err)
			}
			p.Close()

			reopened := NewProvider(path)
			if err := reopened.Load(); err != nil {
				t.Fatalf("failed to load: %v", err)
			}
			defer reopened.Close()

			var got map[string]string
			found, err := ReadJSON(reopened, SlotCurrentDaily, &got)
			if err != nil || !found {
				t.Fatalf("expected slot after reopen, found=%v err=%v", found, err)
			}
			if got["date"] != "2024-01-01" {
				t.Errorf("expected date 2024-01-01, got %q", got["date"])
			}
		})
	}
}

func TestLoadUninitialized(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []Provider{
		NewSQLiteStore(filepath.Join(dir, "missing.db")),
		NewJSONStore(filepath.Join(dir, "missing.json")),
	} {
		err := p.Load()
		if err == nil || !strings.Contains(err.Error(), "not initialized") {
			t.Errorf("expected not initialized error, got %v", err)
		}
	}
}

func TestJSONStoreInitTwice(t *testing.T) {
	store, cleanup := setupTestJSONStore(t)
	defer cleanup()

	again := NewJSONStore(store.GetConfigPath())
	if err := again.Init(); err == nil {
		t.Error("expected error initializing an existing store")
	}
}

func TestJSONStoreRejectsInvalidJSON(t *testing.T) {
	store, cleanup := setupTestJSONStore(t)
	defer cleanup()

	if err := store.Write(SlotHabits, []byte("{not json")); err == nil {
		t.Error("expected error writing invalid JSON")
	}
	if _, err := store.Read(SlotHabits); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("expected slot to stay unset, got %v", err)
	}
}

func TestJSONStoreWriteFailureKeepsCache(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	dir := filepath.Join(t.TempDir(), "store")
	store := NewJSONStore(filepath.Join(dir, "data.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init: %v", err)
	}
	if err := store.Write(SlotLastView, []byte(`"overview"`)); err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	if err := os.Chmod(dir, 0500); err != nil {
		t.Fatalf("failed to chmod: %v", err)
	}
	defer os.Chmod(dir, 0700)

	if err := store.Write(SlotLastView, []byte(`"trophies"`)); err == nil {
		t.Fatal("expected write to fail on a read-only directory")
	}
	data, err := store.Read(SlotLastView)
	if err != nil {
		t.Fatalf("failed to read: %v", err)
	}
	if string(data) != `"overview"` {
		t.Errorf("expected cached slot to match disk, got %s", data)
	}
}

func TestUnloadedStore(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "x.json"))
	if _, err := store.Read(SlotHabits); err == nil {
		t.Error("expected error reading before Load")
	}
	if err := store.Write(SlotHabits, []byte(`[]`)); err == nil {
		t.Error("expected error writing before Load")
	}
}

func TestNewProvider(t *testing.T) {
	if _, ok := NewProvider("/tmp/data.JSON").(*JSONStore); !ok {
		t.Error("expected JSONStore for .json path")
	}
	if _, ok := NewProvider("/tmp/data.db").(*SQLiteStore); !ok {
		t.Error("expected SQLiteStore for .db path")
	}
}

func TestReadJSONMalformed(t *testing.T) {
	providers(t, func(t *testing.T, p Provider) {
		if err := p.Write(SlotHabits, []byte(`{"id":"a"}`)); err != nil {
			t.Fatalf("failed to write: %v", err)
		}
		var habits []models.Habit
		found, err := ReadJSON(p, SlotHabits, &habits)
		if !found {
			t.Error("expected found=true for an existing slot")
		}
		if err == nil {
			t.Error("expected parse error decoding an object into a slice")
		}
	})
}

func TestLastView(t *testing.T) {
	providers(t, func(t *testing.T, p Provider) {
		view, err := LoadLastView(p)
		if err != nil {
			t.Fatalf("LoadLastView failed: %v", err)
		}
		if view != models.ViewDailyObjectives {
			t.Errorf("expected default view, got %s", view)
		}

		if err := SaveLastView(p, models.ViewTrophies); err != nil {
			t.Fatalf("SaveLastView failed: %v", err)
		}
		view, err = LoadLastView(p)
		if err != nil {
			t.Fatalf("LoadLastView failed: %v", err)
		}
		if view != models.ViewTrophies {
			t.Errorf("expected trophies view, got %s", view)
		}

		if err := SaveLastView(p, models.ViewMode("grid3d")); err == nil {
			t.Error("expected error saving unknown view")
		}

		// An unknown persisted value falls back to the default
		if err := p.Write(SlotLastView, []byte(`"grid3d"`)); err != nil {
			t.Fatalf("failed to write: %v", err)
		}
		view, _ = LoadLastView(p)
		if view != models.ViewDailyObjectives {
			t.Errorf("expected fallback view, got %s", view)
		}
	})
}

func TestSchemaVersion(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	current, latest, err := store.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if current != latest || current < 1 {
		t.Errorf("expected migrated schema, got current=%d latest=%d", current, latest)
	}

	unloaded := NewSQLiteStore(filepath.Join(t.TempDir(), "x.db"))
	if _, _, err := unloaded.SchemaVersion(); err == nil {
		t.Error("expected error before the store is opened")
	}
}
