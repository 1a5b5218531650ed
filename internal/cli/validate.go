package cli

import (
	"fmt"

	"github.com/dsurfergithub/habitorbit/internal/models"
	"github.com/dsurfergithub/habitorbit/internal/storage"
	"github.com/dsurfergithub/habitorbit/internal/validation"
)

type ValidateCmd struct {
	Fix bool `help:"Rewrite stored data with fixable conflicts repaired."`
}

func (cmd *ValidateCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	result, err := validateStored(ctx.Store)
	if err != nil {
		return err
	}

	ctx.println(result.FormatReport())

	if cmd.Fix && result.HasConflicts() {
		if err := result.Err(); err != nil {
			return fmt.Errorf("cannot fix stored data: %w", err)
		}
		// Loading normalizes; saving writes the repaired form back
		if err := ctx.Habits.Load(); err != nil {
			return err
		}
		if err := ctx.Tracker.Load(ctx.Now()); err != nil && !isStorageErr(err) {
			return err
		}
		if err := ctx.Habits.Replace(ctx.Habits.All()); err != nil {
			return err
		}
		current := ctx.Tracker.Current()
		if err := ctx.Tracker.Replace(&current, ctx.Tracker.History()); err != nil {
			return err
		}
		ctx.println("Fixable conflicts repaired.")
	}

	return nil
}

// validateStored checks the slots as persisted, before any normalization on load
func validateStored(p storage.Provider) (validation.ValidationResult, error) {
	validator := validation.New()
	var combined validation.ValidationResult

	var habits []models.Habit
	if _, err := storage.ReadJSON(p, storage.SlotHabits, &habits); err != nil {
		return combined, fmt.Errorf("failed to read habits: %w", err)
	}
	r := validator.ValidateHabits(habits)
	combined.Conflicts = append(combined.Conflicts, r.Conflicts...)

	var history []models.DailyObjectiveRecord
	if _, err := storage.ReadJSON(p, storage.SlotDailyHistory, &history); err != nil {
		return combined, fmt.Errorf("failed to read daily history: %w", err)
	}
	r = validator.ValidateDailyHistory(history)
	combined.Conflicts = append(combined.Conflicts, r.Conflicts...)

	var current models.DailyObjectiveRecord
	found, err := storage.ReadJSON(p, storage.SlotCurrentDaily, &current)
	if err != nil {
		return combined, fmt.Errorf("failed to read current daily: %w", err)
	}
	if found {
		r = validator.ValidateRecord(current)
		combined.Conflicts = append(combined.Conflicts, r.Conflicts...)
	}

	return combined, nil
}
