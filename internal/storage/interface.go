package storage

import "github.com/julianstephens/habitquest/internal/models"

// Provider is the durable store the ledger writes behind. Implementations
// only serialize and deserialize records; all derived state (streaks, levels)
// is the ledger's business.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Habits
	UpsertHabit(models.Habit) error
	ListHabits() ([]models.Habit, error)

	// Progress
	GetProgress() (models.Progress, error)
	PutProgress(models.Progress) error

	// Utils
	GetConfigPath() string
}
