// Package stats derives display aggregates from ledger state: XP series for
// charts, completion rates, and the consecutive-day run shown next to each
// habit. The run is intentionally a different number from the stored Streak
// field, which counts all completed days ever.
package stats

import (
	"time"

	"github.com/julianstephens/habitquest/internal/models"
)

const dayFormat = "2006-01-02"

// DayTotal is the net XP earned on one calendar day
type DayTotal struct {
	Date string
	XP   int
}

// XPByDay returns one total per day for the window of `days` days ending at
// `end`, oldest first, with zero-filled gaps
func XPByDay(entries []models.XPEntry, end time.Time, days int) []DayTotal {
	totals := make(map[string]int)
	for _, e := range entries {
		totals[e.Date] += e.XP
	}

	series := make([]DayTotal, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := end.AddDate(0, 0, -i).Format(dayFormat)
		series = append(series, DayTotal{Date: day, XP: totals[day]})
	}
	return series
}

// WeekTotal is the net XP for an ISO week
type WeekTotal struct {
	Year int
	Week int
	XP   int
}

// XPByWeek rolls entries up into ISO weeks, ordered oldest first, covering
// the `weeks` weeks ending at `end`
func XPByWeek(entries []models.XPEntry, end time.Time, weeks int) []WeekTotal {
	totals := make(map[[2]int]int)
	for _, e := range entries {
		day, err := time.Parse(dayFormat, e.Date)
		if err != nil {
			continue
		}
		year, week := day.ISOWeek()
		totals[[2]int{year, week}] += e.XP
	}

	series := make([]WeekTotal, 0, weeks)
	for i := weeks - 1; i >= 0; i-- {
		year, week := end.AddDate(0, 0, -7*i).ISOWeek()
		series = append(series, WeekTotal{Year: year, Week: week, XP: totals[[2]int{year, week}]})
	}
	return series
}

// MonthTotal is the net XP for a calendar month
type MonthTotal struct {
	Year  int
	Month time.Month
	XP    int
}

// XPByMonth rolls entries up into calendar months, ordered oldest first,
// covering the `months` months ending at `end`
func XPByMonth(entries []models.XPEntry, end time.Time, months int) []MonthTotal {
	totals := make(map[[2]int]int)
	for _, e := range entries {
		day, err := time.Parse(dayFormat, e.Date)
		if err != nil {
			continue
		}
		totals[[2]int{day.Year(), int(day.Month())}] += e.XP
	}

	series := make([]MonthTotal, 0, months)
	anchor := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := months - 1; i >= 0; i-- {
		m := anchor.AddDate(0, -i, 0)
		series = append(series, MonthTotal{
			Year:  m.Year(),
			Month: m.Month(),
			XP:    totals[[2]int{m.Year(), int(m.Month())}],
		})
	}
	return series
}

// TotalXP sums the net XP across all ledger entries. Because entries merge
// same-day deltas by addition, this is the lifetime raw XP balance.
func TotalXP(entries []models.XPEntry) int {
	total := 0
	for _, e := range entries {
		total += e.XP
	}
	return total
}

// CompletionRate returns the fraction of the last `days` days (ending at
// `end`) the habit was completed
func CompletionRate(habit models.Habit, end time.Time, days int) float64 {
	if days <= 0 {
		return 0
	}
	completed := 0
	for i := 0; i < days; i++ {
		day := end.AddDate(0, 0, -i).Format(dayFormat)
		if habit.History[day] {
			completed++
		}
	}
	return float64(completed) / float64(days)
}

// CurrentRun returns the consecutive-day completion run ending at `today`.
// A still-unmarked today does not break the run; the count then starts at
// yesterday. This is the streak number the UI displays, distinct from the
// stored Streak field.
func CurrentRun(history map[string]bool, today time.Time) int {
	day := today
	if !history[day.Format(dayFormat)] {
		day = day.AddDate(0, 0, -1)
	}

	run := 0
	for history[day.Format(dayFormat)] {
		run++
		day = day.AddDate(0, 0, -1)
	}
	return run
}
