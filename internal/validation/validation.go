// Package validation checks user input before it reaches the ledger. The
// ledger itself accepts records as given; the command layer is responsible
// for rejecting bad names, unknown frequencies, and future dates.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitquest/internal/models"
)

// ErrFutureDate is returned when a completion date lies after today
var ErrFutureDate = errors.New("date is in the future")

// ValidateHabit checks a habit record built from user input
func ValidateHabit(habit models.Habit) error {
	if strings.TrimSpace(habit.Name) == "" {
		return errors.New("habit name must not be empty")
	}
	if !habit.Frequency.Valid() {
		return fmt.Errorf("invalid frequency %q (expected daily, weekly, or monthly)", habit.Frequency)
	}
	if habit.XPPerTick <= 0 {
		return fmt.Errorf("xp per tick must be positive, got %d", habit.XPPerTick)
	}
	return nil
}

// ParseDay parses a YYYY-MM-DD date string, with "today" as a shortcut
func ParseDay(s string, now time.Time) (string, error) {
	if s == "" || s == "today" {
		return now.Format("2006-01-02"), nil
	}
	day, err := time.Parse("2006-01-02", s)
	if err != nil {
		return "", fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", s)
	}
	return day.Format("2006-01-02"), nil
}

// CheckNotFuture rejects days after today. The ledger would happily record
// them; the UI is where future completions get blocked.
func CheckNotFuture(day string, now time.Time) error {
	if day > now.Format("2006-01-02") {
		return fmt.Errorf("%w: %s", ErrFutureDate, day)
	}
	return nil
}
