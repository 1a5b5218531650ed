package habits

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	apperrors "github.com/dsurfergithub/habitorbit/internal/errors"
	"github.com/dsurfergithub/habitorbit/internal/models"
	"github.com/dsurfergithub/habitorbit/internal/storage"
	"github.com/dsurfergithub/habitorbit/internal/storage/mocks"
)

type seqIDs struct{ n int }

func (g *seqIDs) NewID() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func setupTestStore(t *testing.T) (*Store, storage.Provider, func()) {
	provider := storage.NewJSONStore(filepath.Join(t.TempDir(), "habits.json"))
	if err := provider.Init(); err != nil {
		t.Fatalf("failed to initialize test storage: %v", err)
	}

	store := New(provider,
		WithClock(func() time.Time { return fixedNow }),
		WithIDs(&seqIDs{}),
	)
	if err := store.Load(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}

	return store, provider, func() { provider.Close() }
}

func mustCreate(t *testing.T, s *Store, name string) models.Habit {
	t.Helper()
	h, err := s.Create(CreateParams{Name: name, Color: "blue", Frequency: 5})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}
	return h
}

func day(n int) string {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n).Format("2006-01-02")
}

func TestCreate(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	h := mustCreate(t, store, "  Meditate ")
	if h.Name != "Meditate" {
		t.Errorf("expected trimmed name, got %q", h.Name)
	}
	if h.ID != "id-1" {
		t.Errorf("expected generated id, got %q", h.ID)
	}
	if h.CumulativeTarget != 10 {
		t.Errorf("expected default target 10, got %d", h.CumulativeTarget)
	}
	if len(h.History) != 0 || len(h.Milestones) != 0 || h.IsArchived {
		t.Errorf("expected empty new habit, got %+v", h)
	}
	if !h.CreatedAt.Equal(fixedNow) {
		t.Errorf("expected createdAt %v, got %v", fixedNow, h.CreatedAt)
	}
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		params CreateParams
	}{
		{"empty name", CreateParams{Name: "", Frequency: 3}},
		{"blank name", CreateParams{Name: "   ", Frequency: 3}},
		{"frequency zero", CreateParams{Name: "Run", Frequency: 0}},
		{"frequency eight", CreateParams{Name: "Run", Frequency: 8}},
		{"negative target", CreateParams{Name: "Run", Frequency: 3, CumulativeTarget: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _, cleanup := setupTestStore(t)
			defer cleanup()

			_, err := store.Create(tt.params)
			if !errors.Is(err, apperrors.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
			if len(store.All()) != 0 {
				t.Error("expected no habit to be created")
			}
		})
	}
}

func TestMilestoneEveryTenCompletions(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()
	h := mustCreate(t, store, "Read")

	var earned []*models.Milestone
	for i := 0; i < 20; i++ {
		m, err := store.SetDayStatus(h.ID, day(i), models.StatusCompleted)
		if err != nil {
			t.Fatalf("SetDayStatus failed: %v", err)
		}
		if m != nil {
			earned = append(earned, m)
			if i != 9 && i != 19 {
				t.Errorf("unexpected milestone after %d completions", i+1)
			}
		}
	}

	if len(earned) != 2 {
		t.Fatalf("expected 2 milestones, got %d", len(earned))
	}
	if earned[0].DayIndex != 10 || earned[0].Date != day(9) || earned[0].Label != "10 Logros" {
		t.Errorf("unexpected first milestone: %+v", earned[0])
	}
	if earned[1].DayIndex != 20 {
		t.Errorf("expected second milestone at 20, got %d", earned[1].DayIndex)
	}

	got, _ := store.Get(h.ID)
	if len(got.Milestones) != 2 {
		t.Errorf("expected 2 stored milestones, got %d", len(got.Milestones))
	}
}

func TestMilestoneNotDuplicatedAroundBoundary(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()
	h := mustCreate(t, store, "Read")

	for i := 0; i < 10; i++ {
		if _, err := store.SetDayStatus(h.ID, day(i), models.StatusCompleted); err != nil {
			t.Fatalf("SetDayStatus failed: %v", err)
		}
	}

	// Drop below the boundary and come back; re-apply the same edit too
	if _, err := store.SetDayStatus(h.ID, day(9), models.StatusNone); err != nil {
		t.Fatal(err)
	}
	for _, st := range []models.DayStatus{models.StatusCompleted, models.StatusCompleted} {
		m, err := store.SetDayStatus(h.ID, day(9), st)
		if err != nil {
			t.Fatal(err)
		}
		if m != nil {
			t.Errorf("expected no duplicate milestone, got %+v", m)
		}
	}

	got, _ := store.Get(h.ID)
	count := 0
	for _, m := range got.Milestones {
		if strings.HasPrefix(m.ID, "auto-10-") {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one auto-10- milestone, got %d", count)
	}
}

func TestNonCompletedNeverFires(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	// Ten completed days already on record but no milestone yet
	history := models.History{}
	for i := 0; i < 10; i++ {
		history[day(i)] = models.StatusCompleted
	}
	if err := store.Replace([]models.Habit{{ID: "h1", Name: "Read", Frequency: 3, History: history}}); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	for _, st := range []models.DayStatus{models.StatusFailed, models.StatusBreak, models.StatusNone} {
		m, err := store.SetDayStatus("h1", day(20), st)
		if err != nil {
			t.Fatal(err)
		}
		if m != nil {
			t.Errorf("expected no milestone for %s", st)
		}
	}
}

func TestSetNoneRestoresHistory(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()
	h := mustCreate(t, store, "Read")
	store.SetDayStatus(h.ID, day(0), models.StatusFailed)
	before, _ := store.Get(h.ID)

	store.SetDayStatus(h.ID, day(1), models.StatusBreak)
	store.SetDayStatus(h.ID, day(1), models.StatusNone)

	after, _ := store.Get(h.ID)
	if len(after.History) != len(before.History) {
		t.Fatalf("expected history %v, got %v", before.History, after.History)
	}
	if _, ok := after.History[day(1)]; ok {
		t.Error("expected none to delete the day key")
	}
}

func TestCycleDayStatus(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()
	h := mustCreate(t, store, "Read")

	want := []models.DayStatus{models.StatusCompleted, models.StatusFailed, models.StatusBreak, models.StatusNone, models.StatusCompleted}
	for _, w := range want {
		got, _, err := store.CycleDayStatus(h.ID, day(0))
		if err != nil {
			t.Fatalf("CycleDayStatus failed: %v", err)
		}
		if got != w {
			t.Errorf("expected %s, got %s", w, got)
		}
	}
}

func TestSetDayStatusErrors(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()
	h := mustCreate(t, store, "Read")

	if _, err := store.SetDayStatus("missing", day(0), models.StatusCompleted); !errors.Is(err, apperrors.ErrHabitNotFound) {
		t.Errorf("expected ErrHabitNotFound, got %v", err)
	}
	if _, err := store.SetDayStatus(h.ID, day(0), "done"); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected validation error for status, got %v", err)
	}
	if _, err := store.SetDayStatus(h.ID, "01/02/2024", models.StatusCompleted); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected validation error for day, got %v", err)
	}
}

func TestArchivePreservesData(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()
	h := mustCreate(t, store, "Read")
	for i := 0; i < 10; i++ {
		store.SetDayStatus(h.ID, day(i), models.StatusCompleted)
	}

	if err := store.Archive(h.ID); err != nil {
		t.Fatalf("Archive failed: %v", err)
	}
	if len(store.Active()) != 0 || len(store.Archived()) != 1 {
		t.Error("expected habit to move to archived")
	}

	if err := store.Unarchive(h.ID); err != nil {
		t.Fatalf("Unarchive failed: %v", err)
	}
	got, _ := store.Get(h.ID)
	if got.IsArchived || len(got.History) != 10 || len(got.Milestones) != 1 {
		t.Errorf("expected history and milestones intact, got %+v", got)
	}
}

func TestDelete(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()
	a := mustCreate(t, store, "A")
	b := mustCreate(t, store, "B")

	if err := store.Delete(a.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	all := store.All()
	if len(all) != 1 || all[0].ID != b.ID {
		t.Errorf("expected only B to remain, got %+v", all)
	}
	if err := store.Delete(a.ID); !errors.Is(err, apperrors.ErrHabitNotFound) {
		t.Errorf("expected ErrHabitNotFound, got %v", err)
	}
}

func TestApplyMilestoneReward(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()
	h := mustCreate(t, store, "Read")
	for i := 0; i < 10; i++ {
		store.SetDayStatus(h.ID, day(i), models.StatusCompleted)
	}

	if err := store.ApplyMilestoneReward(h.ID, "New book", "📚", 5); err != nil {
		t.Fatalf("ApplyMilestoneReward failed: %v", err)
	}
	if err := store.ApplyMilestoneReward(h.ID, "x", "y", 0); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected validation error for zero target, got %v", err)
	}

	m, _ := store.SetDayStatus(h.ID, day(14), models.StatusCompleted)
	m2, _ := store.SetDayStatus(h.ID, day(15), models.StatusCompleted)
	if m != nil {
		t.Errorf("expected no milestone at 11, got %+v", m)
	}
	for i := 16; i < 19; i++ {
		m2, _ = store.SetDayStatus(h.ID, day(i), models.StatusCompleted)
	}
	if m2 == nil || m2.DayIndex != 15 || m2.Reward != "New book" || m2.Emoji != "📚" {
		t.Fatalf("expected milestone at 15 with new templates, got %+v", m2)
	}

	got, _ := store.Get(h.ID)
	if got.Milestones[0].Reward != "" {
		t.Errorf("expected past milestone unchanged, got reward %q", got.Milestones[0].Reward)
	}
}

func TestQueriesReturnCopies(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()
	h := mustCreate(t, store, "Read")

	got, _ := store.Get(h.ID)
	got.History[day(0)] = models.StatusCompleted
	got.Name = "changed"

	again, _ := store.Get(h.ID)
	if len(again.History) != 0 || again.Name != "Read" {
		t.Error("expected store state to be unaffected by caller mutation")
	}

	found, err := store.FindByName("read")
	if err != nil || found.ID != h.ID {
		t.Errorf("expected case-insensitive lookup, got %v", err)
	}
}

func TestPersistAndReload(t *testing.T) {
	store, provider, cleanup := setupTestStore(t)
	defer cleanup()
	h := mustCreate(t, store, "Read")
	for i := 0; i < 10; i++ {
		store.SetDayStatus(h.ID, day(i), models.StatusCompleted)
	}

	reloaded := New(provider)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	got, err := reloaded.Get(h.ID)
	if err != nil {
		t.Fatalf("expected habit after reload: %v", err)
	}
	if len(got.History) != 10 || len(got.Milestones) != 1 {
		t.Errorf("expected persisted history and milestone, got %+v", got)
	}
}

func TestStorageFailureKeepsMemoryState(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().Read(storage.SlotHabits).Return(nil, storage.ErrSlotNotFound)
	provider.EXPECT().Write(storage.SlotHabits, gomock.Any()).Return(nil)
	provider.EXPECT().Write(storage.SlotHabits, gomock.Any()).Return(errors.New("disk full"))

	store := New(provider, WithIDs(&seqIDs{}))
	if err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	h := mustCreate(t, store, "Read")

	_, err := store.SetDayStatus(h.ID, day(0), models.StatusCompleted)
	if !errors.Is(err, apperrors.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
	got, _ := store.Get(h.ID)
	if got.History.Status(day(0)) != models.StatusCompleted {
		t.Error("expected in-memory mutation to survive the failed write")
	}
}

func TestStorageFailureStillReturnsMilestone(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().Write(storage.SlotHabits, gomock.Any()).Return(errors.New("disk full")).AnyTimes()

	store := New(provider, WithIDs(&seqIDs{}))
	h, err := store.Create(CreateParams{Name: "Read", Frequency: 1, CumulativeTarget: 1})
	if !errors.Is(err, apperrors.ErrStorage) {
		t.Fatalf("expected ErrStorage from Create, got %v", err)
	}

	m, err := store.SetDayStatus(h.ID, day(0), models.StatusCompleted)
	if !errors.Is(err, apperrors.ErrStorage) {
		t.Errorf("expected ErrStorage, got %v", err)
	}
	if m == nil || m.DayIndex != 1 {
		t.Errorf("expected milestone alongside the storage error, got %+v", m)
	}
}

func TestLoadMalformedSlot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().Read(storage.SlotHabits).Return([]byte(`{"not":"a list"}`), nil)

	if err := New(provider).Load(); err == nil {
		t.Error("expected error loading a malformed habits slot")
	}
}
