package constants

import "time"

const (
	// DefaultXPPerTick is the XP awarded per habit completion when a habit
	// does not carry its own per-tick value
	DefaultXPPerTick = 10

	// XPPerLevel is the amount of XP that fills one level
	XPPerLevel = 100

	// GainEventTTL is how long a transient XP gain toast stays visible
	GainEventTTL = 2 * time.Second

	// ProgressKey is the fixed key the aggregate progress record is stored under
	ProgressKey = "stats"

	// SeedHabitName is the habit created on first run of an empty store
	SeedHabitName = "Drink water"
)
