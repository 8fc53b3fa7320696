package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/migration"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/migrations"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

func (s *SQLiteStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'habitquest init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	// Validate schema version using embedded migrations
	if err := s.validateSchemaVersion(); err != nil {
		return err
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) runMigrations() error {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}

	runner := migration.NewRunner(s.db, subFS)
	_, err = runner.Apply(nil)
	return err
}

func (s *SQLiteStore) validateSchemaVersion() error {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}

	runner := migration.NewRunner(s.db, subFS)
	return runner.ValidateVersion()
}

func (s *SQLiteStore) UpsertHabit(habit models.Habit) error {
	historyJSON, err := json.Marshal(habit.History)
	if err != nil {
		return fmt.Errorf("failed to marshal habit history: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO habits (id, name, category, frequency, xp_per_tick, history, streak, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			frequency = excluded.frequency,
			xp_per_tick = excluded.xp_per_tick,
			history = excluded.history,
			streak = excluded.streak`,
		habit.ID, habit.Name, habit.Category, string(habit.Frequency), habit.XPPerTick,
		string(historyJSON), habit.Streak, habit.CreatedAt.UTC().Format(time.RFC3339))

	return err
}

func (s *SQLiteStore) ListHabits() ([]models.Habit, error) {
	rows, err := s.db.Query(`
		SELECT id, name, category, frequency, xp_per_tick, history, streak, created_at
		FROM habits ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		var h models.Habit
		var frequency, history, createdAt string

		err := rows.Scan(&h.ID, &h.Name, &h.Category, &frequency, &h.XPPerTick, &history, &h.Streak, &createdAt)
		if err != nil {
			return nil, err
		}

		h.Frequency = models.Frequency(frequency)

		if err := json.Unmarshal([]byte(history), &h.History); err != nil {
			return nil, fmt.Errorf("failed to parse history for habit %s: %w", h.ID, err)
		}
		if h.History == nil {
			h.History = make(map[string]bool)
		}

		h.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for habit %s: %w", h.ID, err)
		}

		habits = append(habits, h)
	}

	return habits, rows.Err()
}

func (s *SQLiteStore) GetProgress() (models.Progress, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = ?", constants.ProgressKey).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DefaultProgress(), nil
		}
		return models.Progress{}, err
	}

	var progress models.Progress
	if err := json.Unmarshal([]byte(value), &progress); err != nil {
		return models.Progress{}, fmt.Errorf("failed to parse progress record: %w", err)
	}

	return progress, nil
}

func (s *SQLiteStore) PutProgress(progress models.Progress) error {
	value, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("failed to serialize progress record: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		constants.ProgressKey, string(value))

	return err
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying database connection.
// Returns nil if the database has not been initialized or loaded.
func (s *SQLiteStore) GetDB() *sql.DB {
	return s.db
}
