package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dsurfergithub/habitorbit/internal/storage"
)

type DebugCmd struct {
	DBPath    DebugDBPathCmd    `cmd:"" name:"db-path" help:"Show storage path."`
	DumpHabit DebugDumpHabitCmd `cmd:"" help:"Dump habit data as JSON."`
	DumpSlot  DebugDumpSlotCmd  `cmd:"" help:"Dump a raw storage slot."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	output := map[string]string{
		"path":    ctx.Store.GetConfigPath(),
		"backups": ctx.Backups.GetBackupDir(),
		"logs":    ctx.Config.Log.Dir,
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	ctx.println(string(jsonBytes))
	return nil
}

type DebugDumpHabitCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	h, err := ctx.resolveHabit(cmd.Habit)
	if err != nil {
		return err
	}

	jsonBytes, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal habit: %w", err)
	}

	ctx.println(string(jsonBytes))
	return nil
}

type DebugDumpSlotCmd struct {
	Slot string `arg:"" enum:"habits,dailyHistory,currentDaily,lastView" help:"Slot to dump (habits, dailyHistory, currentDaily, lastView)."`
}

func (cmd *DebugDumpSlotCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	data, err := ctx.Store.Read(storage.Slot(cmd.Slot))
	if err != nil {
		if errors.Is(err, storage.ErrSlotNotFound) {
			return fmt.Errorf("slot %s has never been written", cmd.Slot)
		}
		return fmt.Errorf("failed to read slot: %w", err)
	}

	ctx.println(string(data))
	return nil
}
