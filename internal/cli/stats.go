package cli

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dsurfergithub/habitorbit/internal/models"
	"github.com/dsurfergithub/habitorbit/internal/stats"
	"github.com/dsurfergithub/habitorbit/internal/utils"
)

type StatsCmd struct {
	Streak   StatsStreakCmd   `cmd:"" help:"Show current streaks."`
	Momentum StatsMomentumCmd `cmd:"" help:"Show today's momentum across habits."`
	Trophies StatsTrophiesCmd `cmd:"" help:"List earned milestones."`
	Heatmap  StatsHeatmapCmd  `cmd:"" help:"Show the yearly completion heatmap."`
}

type StatsStreakCmd struct {
	Habit string `arg:"" optional:"" help:"Habit id or name. Omit for all active habits."`
}

func (c *StatsStreakCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	list := ctx.Habits.Active()
	if c.Habit != "" {
		h, err := ctx.resolveHabit(c.Habit)
		if err != nil {
			return err
		}
		list = []models.Habit{h}
	}
	if len(list) == 0 {
		ctx.println("No habits found")
		return nil
	}

	for _, h := range list {
		ctx.printf("  %s  streak %d, %d completed days\n",
			habitName(h), stats.Streak(h.History), stats.CompletedCount(h.History))
	}
	return nil
}

var momentumMessages = map[stats.Momentum]string{
	stats.MomentumStarting: "Add a habit to get started.",
	stats.MomentumStable:   "Stable momentum. Keep it going!",
	stats.MomentumOnTrack:  "On track. A few more to go today.",
	stats.MomentumRegain:   "Time to regain momentum.",
}

type StatsMomentumCmd struct{}

func (c *StatsMomentumCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	active := ctx.Habits.Active()
	today := ctx.Today()
	m := stats.MomentumFor(active, today)
	ctx.printf("%s  %d%% of habits done today\n",
		titleStyle.Render(momentumMessages[m]), int(stats.GlobalIntensity(active, today)*100))
	return nil
}

type StatsTrophiesCmd struct {
	Summary bool `help:"Show one line per habit."`
}

func (c *StatsTrophiesCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	all := ctx.Habits.All()
	if c.Summary {
		summary := stats.SummarizeTrophies(all)
		if len(summary) == 0 {
			ctx.println("No trophies yet")
			return nil
		}
		for _, s := range summary {
			ctx.printf("  %s x%d  %s\n", s.Emoji, s.Count, s.Name)
		}
		return nil
	}

	trophies := stats.Trophies(all)
	if len(trophies) == 0 {
		ctx.println("No trophies yet")
		return nil
	}
	for _, t := range trophies {
		ctx.printf("  %s %s  %s  %s", t.Emoji, t.Date, t.HabitName, t.Label)
		if t.Reward != "" {
			ctx.printf("  (%s)", t.Reward)
		}
		ctx.println()
	}
	return nil
}

type StatsHeatmapCmd struct {
	Year  int    `help:"Year to show. Defaults to the current year."`
	Habit string `help:"Limit the heatmap to one habit."`
}

var heatLevels = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("22")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
}

// heatCell maps an intensity in [0,1] to a shaded block
func heatCell(intensity float64) string {
	if intensity <= 0 {
		return heatLevels[0].Render("░░")
	}
	level := 1 + int(intensity*float64(len(heatLevels)-2)+0.5)
	if level >= len(heatLevels) {
		level = len(heatLevels) - 1
	}
	return heatLevels[level].Render("██")
}

func (c *StatsHeatmapCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	year := c.Year
	if year == 0 {
		year = ctx.Now().Year()
	}
	list := ctx.Habits.Active()
	if c.Habit != "" {
		h, err := ctx.resolveHabit(c.Habit)
		if err != nil {
			return err
		}
		list = []models.Habit{h}
	}

	ctx.println(renderHeatmap(stats.BuildHeatmap(list, year, ctx.Config.Location()), year))
	return nil
}

func renderHeatmap(hm stats.Heatmap, year int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", 4))
	for m := 0; m < utils.MatrixColumns; m++ {
		b.WriteString(" ")
		b.WriteString(time.Month(m + 1).String()[:2])
	}
	b.WriteString("\n")

	for d := 0; d < utils.MatrixRows; d++ {
		b.WriteString(mutedStyle.Render(padDay(d + 1)))
		for m := 0; m < utils.MatrixColumns; m++ {
			b.WriteString(" ")
			cell := hm[d][m]
			if !cell.Exists {
				b.WriteString("  ")
				continue
			}
			b.WriteString(heatCell(cell.Intensity))
		}
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render(strings.Repeat(" ", 4) + "year " + strconv.Itoa(year)))
	return b.String()
}

func padDay(d int) string {
	s := strconv.Itoa(d)
	return strings.Repeat(" ", 3-len(s)) + s + " "
}
