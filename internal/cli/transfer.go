package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dsurfergithub/habitorbit/internal/backup"
)

type ExportCmd struct {
	Output string `short:"o" help:"File to write, - for stdout." default:"-"`
}

func (c *ExportCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	doc := backup.Export(ctx.Habits, ctx.Tracker, ctx.Now())
	if c.Output == "" || c.Output == "-" {
		return backup.WriteExport(ctx.Out, doc)
	}

	if err := os.MkdirAll(filepath.Dir(c.Output), 0o700); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	f, err := os.Create(c.Output)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := backup.WriteExport(f, doc); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close export file: %w", err)
	}

	ctx.printf("Exported %d habits to %s\n", len(doc.Habits), c.Output)
	return nil
}

type ImportCmd struct {
	File string `arg:"" help:"Export file to import, - for stdin."`
	Yes  bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ImportCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if c.File == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(c.File)
	}
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	doc, err := backup.Parse(data)
	if err != nil {
		return err
	}

	ok, err := ctx.confirm(c.Yes, fmt.Sprintf("Replace current data with %d imported habits?", len(doc.Habits)))
	if err != nil {
		return err
	}
	if !ok {
		ctx.println("Import cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()

	result, err := backup.Apply(doc, ctx.Habits, ctx.Tracker)
	if err != nil && !isStorageErr(err) {
		return err
	}

	ctx.printf("Imported %d habits", result.Habits)
	if result.HistoryReplaced {
		ctx.printf(", %d past days", result.DailyHistory)
	}
	if result.CurrentReplaced {
		ctx.printf(", today's objectives")
	}
	ctx.println()
	return err
}
