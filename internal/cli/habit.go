package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dsurfergithub/habitorbit/internal/constants"
	"github.com/dsurfergithub/habitorbit/internal/habits"
	"github.com/dsurfergithub/habitorbit/internal/milestone"
	"github.com/dsurfergithub/habitorbit/internal/models"
	"github.com/dsurfergithub/habitorbit/internal/stats"
	"github.com/dsurfergithub/habitorbit/internal/utils"
)

type HabitCmd struct {
	Add       HabitAddCmd       `cmd:"" help:"Add a new habit."`
	List      HabitListCmd      `cmd:"" help:"List habits."`
	Show      HabitShowCmd      `cmd:"" help:"Show one habit."`
	Mark      HabitMarkCmd      `cmd:"" help:"Record a day's status."`
	Cycle     HabitCycleCmd     `cmd:"" help:"Advance a day's status to the next one."`
	Archive   HabitArchiveCmd   `cmd:"" help:"Archive a habit."`
	Unarchive HabitUnarchiveCmd `cmd:"" help:"Restore an archived habit."`
	Delete    HabitDeleteCmd    `cmd:"" help:"Delete a habit and its history."`
	Reward    HabitRewardCmd    `cmd:"" help:"Change the reward for future milestones."`
}

type HabitAddCmd struct {
	Name      string `arg:"" help:"Habit name."`
	Color     string `help:"Display color (hex or ANSI code)." default:"#4ade80"`
	Frequency int    `help:"Target days per week (1-7)." default:"7"`
	Target    int    `help:"Completed days per milestone." default:"${default_target}"`
	Reward    string `help:"Reward text for milestones."`
	Emoji     string `help:"Milestone emoji."`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	h, err := ctx.Habits.Create(habits.CreateParams{
		Name:             c.Name,
		Color:            c.Color,
		Frequency:        c.Frequency,
		CumulativeTarget: c.Target,
		RewardTemplate:   c.Reward,
		EmojiTemplate:    c.Emoji,
	})
	if err != nil && !isStorageErr(err) {
		return err
	}

	ctx.printf("Added habit: %s (%s)\n", h.Name, shortID(h.ID))
	return err
}

type HabitListCmd struct {
	Archived bool `help:"Show archived habits instead of active ones."`
	All      bool `help:"Show active and archived habits."`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	var list []models.Habit
	switch {
	case c.All:
		list = ctx.Habits.All()
	case c.Archived:
		list = ctx.Habits.Archived()
	default:
		list = ctx.Habits.Active()
	}

	if len(list) == 0 {
		ctx.println("No habits found")
		return nil
	}

	ctx.println("Habits:")
	for _, h := range list {
		p := milestone.ProgressOf(h)
		state := ""
		if h.IsArchived {
			state = mutedStyle.Render(" [archived]")
		}
		ctx.printf("  %s %s%s  %s  streak %d, %d to next %s\n",
			mutedStyle.Render(shortID(h.ID)), habitName(h), state,
			recentRow(ctx, h, 7), stats.Streak(h.History), p.Remaining, h.EmojiTemplate)
	}
	return nil
}

// recentRow renders the last n days ending today, oldest first
func recentRow(ctx *Context, h models.Habit, n int) string {
	now := ctx.Now()
	var b strings.Builder
	for i := n - 1; i >= 0; i-- {
		d := now.AddDate(0, 0, -i)
		status := h.History.Status(utils.DayKey(d))
		if status == models.StatusNone && stats.IsAutoFailed(h, d, now) {
			status = models.StatusFailed
		}
		b.WriteString(statusGlyph(status))
	}
	return b.String()
}

type HabitShowCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Days  int    `help:"Number of recent days to show." default:"14"`
	JSON  bool   `help:"Print the habit as JSON."`
}

func (c *HabitShowCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	h, err := ctx.resolveHabit(c.Habit)
	if err != nil {
		return err
	}

	if c.JSON {
		b, err := json.MarshalIndent(h, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal habit: %w", err)
		}
		ctx.println(string(b))
		return nil
	}

	p := milestone.ProgressOf(h)
	ctx.printf("%s (%s)\n", habitName(h), h.ID)
	ctx.printf("  Frequency:  %d days/week\n", h.Frequency)
	ctx.printf("  Completed:  %d days, streak %d\n", p.Completed, stats.Streak(h.History))
	ctx.printf("  Next:       %s at %d completed days (%d to go)\n", h.EmojiTemplate, p.Next, p.Remaining)
	if h.RewardTemplate != "" {
		ctx.printf("  Reward:     %s\n", h.RewardTemplate)
	}
	if h.IsArchived {
		ctx.println("  Archived")
	}
	ctx.printf("  Last %d days: %s\n", c.Days, recentRow(ctx, h, c.Days))

	if len(h.Milestones) > 0 {
		ctx.println("  Milestones:")
		for _, m := range h.Milestones {
			ctx.printf("    %s %s  %s", m.Emoji, m.Date, m.Label)
			if m.Reward != "" {
				ctx.printf("  (%s)", m.Reward)
			}
			ctx.println()
		}
	}
	return nil
}

type HabitMarkCmd struct {
	Habit  string `arg:"" help:"Habit id or name."`
	Status string `arg:"" enum:"none,completed,failed,break" help:"Status to record (none, completed, failed, break)."`
	Day    string `help:"Day to record (YYYY-MM-DD, today or yesterday)." default:"today"`
}

func (c *HabitMarkCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	h, err := ctx.resolveHabit(c.Habit)
	if err != nil {
		return err
	}
	day, err := parseDay(c.Day, ctx.Now())
	if err != nil {
		return err
	}

	m, err := ctx.Habits.SetDayStatus(h.ID, day, models.DayStatus(c.Status))
	if err != nil && !isStorageErr(err) {
		return err
	}
	ctx.printf("%s %s %s\n", statusGlyph(models.DayStatus(c.Status)), h.Name, day)
	printMilestone(ctx, m)
	return err
}

type HabitCycleCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Day   string `help:"Day to change (YYYY-MM-DD, today or yesterday)." default:"today"`
}

func (c *HabitCycleCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	h, err := ctx.resolveHabit(c.Habit)
	if err != nil {
		return err
	}
	day, err := parseDay(c.Day, ctx.Now())
	if err != nil {
		return err
	}

	status, m, err := ctx.Habits.CycleDayStatus(h.ID, day)
	if err != nil && !isStorageErr(err) {
		return err
	}
	ctx.printf("%s %s %s: %s\n", statusGlyph(status), h.Name, day, status)
	printMilestone(ctx, m)
	return err
}

func printMilestone(ctx *Context, m *models.Milestone) {
	if m == nil {
		return
	}
	ctx.printf("%s Milestone unlocked: %s\n", m.Emoji, m.Label)
	if m.Reward != "" {
		ctx.printf("   Reward: %s\n", m.Reward)
	}
}

type HabitArchiveCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
}

func (c *HabitArchiveCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	h, err := ctx.resolveHabit(c.Habit)
	if err != nil {
		return err
	}
	if err := ctx.Habits.Archive(h.ID); err != nil {
		return err
	}
	ctx.printf("Archived habit: %s\n", h.Name)
	return nil
}

type HabitUnarchiveCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
}

func (c *HabitUnarchiveCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	h, err := ctx.resolveHabit(c.Habit)
	if err != nil {
		return err
	}
	if err := ctx.Habits.Unarchive(h.ID); err != nil {
		return err
	}
	ctx.printf("Restored habit: %s\n", h.Name)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Yes   bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	h, err := ctx.resolveHabit(c.Habit)
	if err != nil {
		return err
	}

	ok, err := ctx.confirm(c.Yes, fmt.Sprintf("Delete %q and its %d recorded days?", h.Name, len(h.History)))
	if err != nil {
		return err
	}
	if !ok {
		ctx.println("Delete cancelled.")
		return nil
	}

	if err := ctx.Habits.Delete(h.ID); err != nil {
		return err
	}
	ctx.printf("Deleted habit: %s\n", h.Name)
	return nil
}

type HabitRewardCmd struct {
	Habit  string `arg:"" help:"Habit id or name."`
	Reward string `arg:"" help:"Reward text for future milestones."`
	Emoji  string `help:"Milestone emoji." default:"${default_emoji}"`
	Target int    `help:"Completed days per milestone." default:"${default_target}"`
}

func (c *HabitRewardCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	h, err := ctx.resolveHabit(c.Habit)
	if err != nil {
		return err
	}
	if err := ctx.Habits.ApplyMilestoneReward(h.ID, c.Reward, c.Emoji, c.Target); err != nil {
		return err
	}
	ctx.printf("Every %d completed days of %s now earns %s %s\n", c.Target, h.Name, c.Emoji, c.Reward)
	return nil
}

// KongVars are the interpolation variables used in command tags
func KongVars() map[string]string {
	return map[string]string{
		"default_emoji":  constants.DefaultMilestoneEmoji,
		"default_target": fmt.Sprint(constants.DefaultCumulativeTarget),
		"version":        constants.Version,
	}
}
