package stats

import (
	"testing"
	"time"

	"github.com/julianstephens/habitquest/internal/models"
)

var end = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func TestXPByDayFillsGaps(t *testing.T) {
	entries := []models.XPEntry{
		{Date: "2024-01-13", HabitID: "a", XP: 30},
		{Date: "2024-01-15", HabitID: "a", XP: 10},
		{Date: "2024-01-15", HabitID: "b", XP: 20},
	}

	series := XPByDay(entries, end, 3)
	if len(series) != 3 {
		t.Fatalf("expected 3 days, got %d", len(series))
	}

	want := []DayTotal{
		{Date: "2024-01-13", XP: 30},
		{Date: "2024-01-14", XP: 0},
		{Date: "2024-01-15", XP: 30},
	}
	for i, w := range want {
		if series[i] != w {
			t.Errorf("day %d: expected %+v, got %+v", i, w, series[i])
		}
	}
}

func TestXPByWeekRollsUp(t *testing.T) {
	entries := []models.XPEntry{
		{Date: "2024-01-08", XP: 10}, // week 2
		{Date: "2024-01-10", XP: 15}, // week 2
		{Date: "2024-01-15", XP: 20}, // week 3
	}

	series := XPByWeek(entries, end, 2)
	if len(series) != 2 {
		t.Fatalf("expected 2 weeks, got %d", len(series))
	}
	if series[0].XP != 25 {
		t.Errorf("expected 25 XP in first week, got %d", series[0].XP)
	}
	if series[1].XP != 20 {
		t.Errorf("expected 20 XP in second week, got %d", series[1].XP)
	}
}

func TestXPByMonthRollsUp(t *testing.T) {
	entries := []models.XPEntry{
		{Date: "2023-12-31", XP: 40},
		{Date: "2024-01-01", XP: 10},
		{Date: "2024-01-15", XP: 5},
	}

	series := XPByMonth(entries, end, 2)
	if len(series) != 2 {
		t.Fatalf("expected 2 months, got %d", len(series))
	}
	if series[0].Month != time.December || series[0].XP != 40 {
		t.Errorf("unexpected first month: %+v", series[0])
	}
	if series[1].Month != time.January || series[1].XP != 15 {
		t.Errorf("unexpected second month: %+v", series[1])
	}
}

func TestCompletionRate(t *testing.T) {
	habit := models.Habit{
		History: map[string]bool{
			"2024-01-15": true,
			"2024-01-14": true,
			"2024-01-12": true,
			"2024-01-10": false,
		},
	}

	rate := CompletionRate(habit, end, 7)
	want := 3.0 / 7.0
	if rate != want {
		t.Errorf("expected rate %f, got %f", want, rate)
	}
}

func TestCurrentRun(t *testing.T) {
	cases := []struct {
		name    string
		history map[string]bool
		want    int
	}{
		{
			name:    "empty history",
			history: map[string]bool{},
			want:    0,
		},
		{
			name: "run ending today",
			history: map[string]bool{
				"2024-01-15": true,
				"2024-01-14": true,
				"2024-01-13": true,
				"2024-01-11": true,
			},
			want: 3,
		},
		{
			name: "today not yet marked keeps yesterday's run",
			history: map[string]bool{
				"2024-01-14": true,
				"2024-01-13": true,
			},
			want: 2,
		},
		{
			name: "toggled-off day breaks the run",
			history: map[string]bool{
				"2024-01-15": true,
				"2024-01-14": false,
				"2024-01-13": true,
			},
			want: 1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CurrentRun(tc.history, end)
			if got != tc.want {
				t.Errorf("expected run %d, got %d", tc.want, got)
			}
		})
	}
}
