package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitquest/internal/validation"
)

type DayCmd struct {
	Date string `arg:"" help:"Date to show (YYYY-MM-DD or 'today')." default:"today"`
}

func (c *DayCmd) Run(ctx *Context) error {
	day, err := validation.ParseDay(c.Date, time.Now())
	if err != nil {
		return err
	}

	l, err := ctx.openLedger()
	if err != nil {
		return err
	}
	defer closeLedger(l)

	snap := l.Snapshot()

	fmt.Printf("Habits for %s:\n\n", day)

	done := 0
	for _, habit := range snap.Habits {
		status := "[ ]"
		if habit.History[day] {
			status = "[x]"
			done++
		}
		fmt.Printf("%s %s\n", status, habit.Name)
	}

	fmt.Printf("\nCompleted: %d/%d\n", done, len(snap.Habits))
	return nil
}
