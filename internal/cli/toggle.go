package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitquest/internal/validation"
)

type ToggleCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)." default:"today"`
}

func (c *ToggleCmd) Run(ctx *Context) error {
	now := time.Now()

	day, err := validation.ParseDay(c.Date, now)
	if err != nil {
		return err
	}
	if err := validation.CheckNotFuture(day, now); err != nil {
		return err
	}

	l, err := ctx.openLedger()
	if err != nil {
		return err
	}
	defer closeLedger(l)

	habit, ok := findHabit(l.Snapshot(), c.Habit)
	if !ok {
		return fmt.Errorf("habit %q not found", c.Habit)
	}

	l.ToggleHabit(habit.ID, day)

	snap := l.Snapshot()
	updated, _ := findHabit(snap, habit.ID)
	if updated.History[day] {
		fmt.Printf("Marked %q done for %s (+%d XP)\n", updated.Name, day, updated.XPPerTick)
	} else {
		fmt.Printf("Unmarked %q for %s (-%d XP)\n", updated.Name, day, updated.XPPerTick)
	}
	fmt.Printf("Level %d  %s %d/100 XP\n", snap.Level, xpBar(snap.XP, 100, 20), snap.XP)

	return nil
}
