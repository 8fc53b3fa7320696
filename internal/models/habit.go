package models

import (
	"time"

	"github.com/julianstephens/habitquest/internal/constants"
)

// Frequency is how often a habit is meant to be completed
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Valid reports whether f is one of the known frequencies
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// Habit represents a recurring practice to track.
//
// History maps calendar days (YYYY-MM-DD) to completion flags; an absent key
// means "not completed". Streak is the count of completed days in History,
// not a consecutive-day run. The stats package computes the consecutive run
// shown in the UI; the two are intentionally different values.
type Habit struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category,omitempty"`
	Frequency Frequency       `json:"frequency"`
	XPPerTick int             `json:"xp_per_tick"`
	History   map[string]bool `json:"history"`
	Streak    int             `json:"streak"`
	CreatedAt time.Time       `json:"created_at"`
}

// ApplyDefaults fills in the documented defaults for optional fields:
// frequency "daily" and 10 XP per tick.
func (h *Habit) ApplyDefaults() {
	if h.Frequency == "" {
		h.Frequency = FrequencyDaily
	}
	if h.XPPerTick <= 0 {
		h.XPPerTick = constants.DefaultXPPerTick
	}
	if h.History == nil {
		h.History = make(map[string]bool)
	}
}

// CompletedCount returns the number of days marked completed in History.
// Streak must always equal this value after every mutation.
func (h *Habit) CompletedCount() int {
	count := 0
	for _, done := range h.History {
		if done {
			count++
		}
	}
	return count
}

// Clone returns a deep copy of the habit
func (h Habit) Clone() Habit {
	c := h
	c.History = make(map[string]bool, len(h.History))
	for day, done := range h.History {
		c.History[day] = done
	}
	return c
}
