package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/julianstephens/habitquest/internal/models"
)

type Store struct {
	Version  int                     `json:"version"`
	Habits   map[string]models.Habit `json:"habits"`
	Progress models.Progress         `json:"progress"`
}

// JSONStore keeps the whole store in a single JSON document. Useful for
// debugging and for keeping test fixtures readable; SQLite is the default.
type JSONStore struct {
	path  string
	store *Store
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Check if file already exists
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.store = &Store{
		Version:  1,
		Habits:   make(map[string]models.Habit),
		Progress: models.DefaultProgress(),
	}

	return s.save()
}

func (s *JSONStore) Load() error {
	if s.store != nil {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'habitquest init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.store = &Store{}
	if err := json.Unmarshal(data, s.store); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	// Ensure maps are initialized
	if s.store.Habits == nil {
		s.store.Habits = make(map[string]models.Habit)
	}
	if s.store.Progress.Level == 0 {
		s.store.Progress = models.DefaultProgress()
	}

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) UpsertHabit(habit models.Habit) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}

	s.store.Habits[habit.ID] = habit.Clone()
	return s.save()
}

func (s *JSONStore) ListHabits() ([]models.Habit, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}

	habits := make([]models.Habit, 0, len(s.store.Habits))
	for _, habit := range s.store.Habits {
		habits = append(habits, habit.Clone())
	}

	// Map iteration order is random; the ledger expects any order but a
	// stable one keeps the JSON file diffs sane
	sort.Slice(habits, func(i, j int) bool {
		return habits[i].CreatedAt.Before(habits[j].CreatedAt)
	})

	return habits, nil
}

func (s *JSONStore) GetProgress() (models.Progress, error) {
	if s.store == nil {
		return models.Progress{}, fmt.Errorf("storage not loaded")
	}
	return s.store.Progress, nil
}

func (s *JSONStore) PutProgress(progress models.Progress) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Progress = progress
	return s.save()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
