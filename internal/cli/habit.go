package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/stats"
	"github.com/julianstephens/habitquest/internal/validation"
)

type HabitCmd struct {
	Add  HabitAddCmd  `cmd:"" help:"Add a new habit."`
	List HabitListCmd `cmd:"" help:"List habits."`
	Log  HabitLogCmd  `cmd:"" help:"Show habit completion log (ASCII history)."`
}

type HabitAddCmd struct {
	Name      string `arg:"" help:"Habit name."`
	Category  string `help:"Optional category." default:""`
	Frequency string `help:"Frequency: daily, weekly, or monthly." default:"daily"`
	XP        int    `help:"XP awarded per completion." default:"10"`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	l, err := ctx.openLedger()
	if err != nil {
		return err
	}
	defer closeLedger(l)

	if _, ok := findHabit(l.Snapshot(), c.Name); ok {
		return fmt.Errorf("habit with name %q already exists", c.Name)
	}

	habit := models.Habit{
		ID:        uuid.New().String(),
		Name:      c.Name,
		Category:  c.Category,
		Frequency: models.Frequency(c.Frequency),
		XPPerTick: c.XP,
		CreatedAt: time.Now(),
	}
	habit.ApplyDefaults()

	if err := validation.ValidateHabit(habit); err != nil {
		return err
	}

	if err := l.AddHabit(habit); err != nil {
		return err
	}

	fmt.Printf("Added habit: %s (%s, %d XP per completion)\n", habit.Name, habit.Frequency, habit.XPPerTick)
	return nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *Context) error {
	l, err := ctx.openLedger()
	if err != nil {
		return err
	}
	defer closeLedger(l)

	snap := l.Snapshot()
	now := time.Now()

	for _, habit := range snap.Habits {
		category := ""
		if habit.Category != "" {
			category = fmt.Sprintf(" (%s)", habit.Category)
		}
		run := stats.CurrentRun(habit.History, now)
		fmt.Printf("%-25s %s%s  %d done, run %d\n", habit.Name, habit.Frequency, category, habit.Streak, run)
	}

	return nil
}

type HabitLogCmd struct {
	Days  int    `help:"Number of days to show." default:"14"`
	Habit string `help:"Show log for specific habit only."`
}

func (c *HabitLogCmd) Run(ctx *Context) error {
	l, err := ctx.openLedger()
	if err != nil {
		return err
	}
	defer closeLedger(l)

	snap := l.Snapshot()

	habits := snap.Habits
	if c.Habit != "" {
		habit, ok := findHabit(snap, c.Habit)
		if !ok {
			return fmt.Errorf("habit %q not found", c.Habit)
		}
		habits = []models.Habit{habit}
	}

	endDay := time.Now()
	startDay := endDay.AddDate(0, 0, -(c.Days - 1))

	fmt.Printf("Habit log (last %d days):\n\n", c.Days)

	const maxNameLen = 20
	fmt.Print(padName("Habit", maxNameLen))
	for i := 0; i < c.Days; i++ {
		fmt.Printf(" %5s", startDay.AddDate(0, 0, i).Format("01/02"))
	}
	fmt.Println()

	fmt.Print(strings.Repeat("-", maxNameLen+6*c.Days))
	fmt.Println()

	for _, habit := range habits {
		fmt.Print(padName(habit.Name, maxNameLen))
		for i := 0; i < c.Days; i++ {
			day := startDay.AddDate(0, 0, i).Format("2006-01-02")
			if habit.History[day] {
				fmt.Print("  x   ")
			} else {
				fmt.Print("  .   ")
			}
		}
		fmt.Println()
	}

	return nil
}

func padName(name string, width int) string {
	if len(name) > width {
		if width >= 5 {
			return name[:width-3] + "..."
		}
		return name[:width]
	}
	return name + strings.Repeat(" ", width-len(name))
}
