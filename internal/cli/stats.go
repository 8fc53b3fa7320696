package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitquest/internal/stats"
)

type StatsCmd struct {
	Range string `help:"Chart range: day, week, or month." enum:"day,week,month" default:"day"`
}

func (c *StatsCmd) Run(ctx *Context) error {
	l, err := ctx.openLedger()
	if err != nil {
		return err
	}
	defer closeLedger(l)

	snap := l.Snapshot()
	now := time.Now()

	fmt.Printf("Level %d  %s %d/100 XP  (lifetime %d XP)\n\n", snap.Level, xpBar(snap.XP, 100, 20), snap.XP, stats.TotalXP(snap.XPHistory))

	switch c.Range {
	case "week":
		series := stats.XPByWeek(snap.XPHistory, now, 8)
		maxXP := 0
		for _, w := range series {
			if w.XP > maxXP {
				maxXP = w.XP
			}
		}
		for _, w := range series {
			fmt.Printf("%d-W%02d  %s %d\n", w.Year, w.Week, chartBar(w.XP, maxXP, 30), w.XP)
		}
	case "month":
		series := stats.XPByMonth(snap.XPHistory, now, 6)
		maxXP := 0
		for _, m := range series {
			if m.XP > maxXP {
				maxXP = m.XP
			}
		}
		for _, m := range series {
			fmt.Printf("%d-%02d  %s %d\n", m.Year, m.Month, chartBar(m.XP, maxXP, 30), m.XP)
		}
	default:
		series := stats.XPByDay(snap.XPHistory, now, 14)
		maxXP := 0
		for _, d := range series {
			if d.XP > maxXP {
				maxXP = d.XP
			}
		}
		for _, d := range series {
			fmt.Printf("%s  %s %d\n", d.Date, chartBar(d.XP, maxXP, 30), d.XP)
		}
	}

	fmt.Println()
	for _, habit := range snap.Habits {
		rate := stats.CompletionRate(habit, now, 30)
		run := stats.CurrentRun(habit.History, now)
		fmt.Printf("%-25s %3.0f%% of last 30 days, current run %d\n", habit.Name, rate*100, run)
	}

	return nil
}

// chartBar scales a value against the series maximum into a fixed-width bar
func chartBar(value, max, width int) string {
	if max <= 0 || value <= 0 {
		return strings.Repeat(" ", width)
	}
	filled := value * width / max
	if filled < 1 {
		filled = 1
	}
	return strings.Repeat("▇", filled) + strings.Repeat(" ", width-filled)
}
