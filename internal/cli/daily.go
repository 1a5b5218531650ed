package cli

import (
	"fmt"
	"strings"

	"github.com/dsurfergithub/habitorbit/internal/constants"
	apperrors "github.com/dsurfergithub/habitorbit/internal/errors"
	"github.com/dsurfergithub/habitorbit/internal/models"
)

type DailyCmd struct {
	Show     DailyShowCmd     `cmd:"" help:"Show today's objectives." default:"1"`
	Toggle   DailyToggleCmd   `cmd:"" help:"Toggle completion of an objective."`
	Text     DailyTextCmd     `cmd:"" help:"Set the text of an objective."`
	History  DailyHistoryCmd  `cmd:"" help:"Show past days."`
	Rollover DailyRolloverCmd `cmd:"" help:"Archive the current day if the date has changed."`
}

type DailyShowCmd struct{}

func (c *DailyShowCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	rec := ctx.Tracker.Current()
	p := ctx.Tracker.Progress()
	ctx.printf("%s  %d/%d (%d%%)\n", titleStyle.Render("Objectives for "+rec.Date), p.Completed, p.Total, p.Percent())
	for _, t := range rec.Tasks {
		text := t.Text
		if text == "" {
			text = mutedStyle.Render("(empty)")
		}
		ctx.printf("  %s %s. %s\n", checkbox(t.Completed), t.ID, text)
	}
	if p.IsPerfect() {
		ctx.println(completedStyle.Render("Perfect day!"))
	}
	return nil
}

func checkbox(done bool) string {
	if done {
		return completedStyle.Render("[x]")
	}
	return "[ ]"
}

// taskID checks that id names one of the fixed task slots
func taskID(id string) (string, error) {
	for i := 1; i <= constants.TasksPerDay; i++ {
		if id == fmt.Sprint(i) {
			return id, nil
		}
	}
	return "", apperrors.Validationf("task must be between 1 and %d, got %q", constants.TasksPerDay, id)
}

type DailyToggleCmd struct {
	Task string `arg:"" help:"Task number (1-7)."`
}

func (c *DailyToggleCmd) Run(ctx *Context) error {
	id, err := taskID(c.Task)
	if err != nil {
		return err
	}
	if err := ctx.Load(); err != nil {
		return err
	}

	err = ctx.Tracker.ToggleTask(id)
	if err != nil && !isStorageErr(err) {
		return err
	}
	for _, t := range ctx.Tracker.Current().Tasks {
		if t.ID == id {
			ctx.printf("%s %s. %s\n", checkbox(t.Completed), t.ID, t.Text)
		}
	}
	return err
}

type DailyTextCmd struct {
	Task string   `arg:"" help:"Task number (1-7)."`
	Text []string `arg:"" optional:"" help:"Objective text. Omit to clear it."`
}

func (c *DailyTextCmd) Run(ctx *Context) error {
	id, err := taskID(c.Task)
	if err != nil {
		return err
	}
	if err := ctx.Load(); err != nil {
		return err
	}

	text := strings.TrimSpace(strings.Join(c.Text, " "))
	if err := ctx.Tracker.SetTaskText(id, text); err != nil {
		return err
	}
	if text == "" {
		ctx.printf("Cleared objective %s\n", id)
		return nil
	}
	ctx.printf("Objective %s: %s\n", id, text)
	return nil
}

type DailyHistoryCmd struct {
	Limit int `short:"n" help:"Number of days to show (0 for all)." default:"10"`
}

func (c *DailyHistoryCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	history := ctx.Tracker.History()
	if len(history) == 0 {
		ctx.println("No past days recorded")
		return nil
	}
	if c.Limit > 0 && len(history) > c.Limit {
		history = history[:c.Limit]
	}

	for _, rec := range history {
		done := 0
		for _, t := range rec.Tasks {
			if t.Completed {
				done++
			}
		}
		ctx.printf("  %s %s  %d/%d\n", objectiveGlyph(rec.Status), rec.Date, done, len(rec.Tasks))
	}
	return nil
}

func objectiveGlyph(s models.ObjectiveStatus) string {
	switch s {
	case models.ObjectiveChecked:
		return statusGlyph(models.StatusCompleted)
	case models.ObjectiveFailed:
		return statusGlyph(models.StatusFailed)
	default:
		return statusGlyph(models.StatusNone)
	}
}

type DailyRolloverCmd struct{}

func (c *DailyRolloverCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	rolled, err := ctx.Tracker.RolloverIfDayChanged(ctx.Now())
	if err != nil && !isStorageErr(err) {
		return err
	}
	if rolled {
		ctx.printf("Started objectives for %s\n", ctx.Tracker.Current().Date)
	} else {
		ctx.printf("Objectives already current for %s\n", ctx.Tracker.Current().Date)
	}
	return err
}
