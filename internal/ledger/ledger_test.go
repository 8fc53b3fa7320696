package ledger

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/storage"
)

var testNow = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

func newTestStore(t *testing.T) *storage.JSONStore {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "habitquest.json"))
	require.NoError(t, store.Init())
	return store
}

func newTestLedger(t *testing.T, opts ...Option) *Ledger {
	t.Helper()
	opts = append([]Option{WithClock(testClock)}, opts...)
	l := New(newTestStore(t), opts...)
	t.Cleanup(l.Close)
	require.NoError(t, l.Initialize())
	return l
}

func addTestHabit(t *testing.T, l *Ledger, name string, xpPerTick int) models.Habit {
	t.Helper()
	habit := models.Habit{
		ID:        "habit-" + name,
		Name:      name,
		XPPerTick: xpPerTick,
		CreatedAt: testNow,
	}
	habit.ApplyDefaults()
	require.NoError(t, l.AddHabit(habit))
	return habit
}

func findHabit(t *testing.T, snap Snapshot, id string) models.Habit {
	t.Helper()
	for _, h := range snap.Habits {
		if h.ID == id {
			return h
		}
	}
	t.Fatalf("habit %s not in snapshot", id)
	return models.Habit{}
}

func TestInitializeSeedsFreshStore(t *testing.T) {
	l := newTestLedger(t)

	snap := l.Snapshot()
	require.True(t, snap.Initialized)
	require.Len(t, snap.Habits, 1)
	require.Equal(t, constants.SeedHabitName, snap.Habits[0].Name)
	require.Equal(t, models.FrequencyDaily, snap.Habits[0].Frequency)
	require.Empty(t, snap.Habits[0].History)
	require.Equal(t, 0, snap.Habits[0].Streak)
	require.Equal(t, 0, snap.XP)
	require.Equal(t, 1, snap.Level)
	require.Empty(t, snap.XPHistory)
}

func TestInitializeIsIdempotent(t *testing.T) {
	l := newTestLedger(t)
	addTestHabit(t, l, "read", 10)

	before := l.Snapshot()
	require.NoError(t, l.Initialize())
	after := l.Snapshot()

	require.Equal(t, before.Habits, after.Habits)
	require.Equal(t, before.XP, after.XP)
	require.Equal(t, before.Level, after.Level)
	require.Equal(t, before.XPHistory, after.XPHistory)
}

func TestInitializeRecoversPersistedState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habitquest.json")

	store := storage.NewJSONStore(path)
	require.NoError(t, store.Init())

	l := New(store, WithClock(testClock))
	require.NoError(t, l.Initialize())
	habit := addTestHabit(t, l, "stretch", 25)
	l.ToggleHabit(habit.ID, "2024-01-14")
	l.ToggleHabit(habit.ID, "2024-01-15")
	l.Flush()
	l.Close()

	reopened := storage.NewJSONStore(path)
	require.NoError(t, reopened.Load())

	l2 := New(reopened, WithClock(testClock))
	defer l2.Close()
	require.NoError(t, l2.Initialize())

	snap := l2.Snapshot()
	require.Len(t, snap.Habits, 2)
	recovered := findHabit(t, snap, habit.ID)
	require.True(t, recovered.History["2024-01-14"])
	require.True(t, recovered.History["2024-01-15"])
	require.Equal(t, 2, recovered.Streak)
	require.Equal(t, 50, snap.XP)
	require.Equal(t, 1, snap.Level)
	require.Len(t, snap.XPHistory, 1)
	require.Equal(t, 50, snap.XPHistory[0].XP)
}

func TestToggleAwardsPerTickXP(t *testing.T) {
	l := newTestLedger(t)
	habit := addTestHabit(t, l, "run", 25)

	l.ToggleHabit(habit.ID, "2024-01-01")

	snap := l.Snapshot()
	got := findHabit(t, snap, habit.ID)
	require.True(t, got.History["2024-01-01"])
	require.Equal(t, 1, got.Streak)
	require.Equal(t, 25, snap.XP)
	require.Equal(t, 1, snap.Level)
	require.Len(t, snap.Gains, 1)
	require.Equal(t, 25, snap.Gains[0].Amount)
}

func TestToggleTwiceRestoresStateAndNetsZeroXP(t *testing.T) {
	l := newTestLedger(t)
	habit := addTestHabit(t, l, "write", 10)

	l.ToggleHabit(habit.ID, "2024-01-10")
	l.ToggleHabit(habit.ID, "2024-01-10")

	snap := l.Snapshot()
	got := findHabit(t, snap, habit.ID)
	require.False(t, got.History["2024-01-10"])
	require.Equal(t, 0, got.Streak)
	require.Equal(t, 0, snap.XP)
	require.Equal(t, 1, snap.Level)

	// Both deltas merged into one entry that nets to zero
	require.Len(t, snap.XPHistory, 1)
	require.Equal(t, 0, snap.XPHistory[0].XP)
}

func TestToggleUnknownIDIsNoop(t *testing.T) {
	l := newTestLedger(t)

	before := l.Snapshot()
	l.ToggleHabit("no-such-habit", "2024-01-10")
	after := l.Snapshot()

	require.Equal(t, before.Habits, after.Habits)
	require.Equal(t, before.XP, after.XP)
	require.Empty(t, after.XPHistory)
}

func TestStreakAlwaysEqualsCompletedDayCount(t *testing.T) {
	l := newTestLedger(t)
	habit := addTestHabit(t, l, "meditate", 10)

	dates := []string{"2024-01-01", "2024-01-03", "2024-01-07", "2024-01-03", "2024-01-09"}
	for _, date := range dates {
		l.ToggleHabit(habit.ID, date)

		got := findHabit(t, l.Snapshot(), habit.ID)
		require.Equal(t, got.CompletedCount(), got.Streak, "after toggling %s", date)
	}

	got := findHabit(t, l.Snapshot(), habit.ID)
	require.Equal(t, 3, got.Streak)
}

func TestGainXPCarriesLevelsAndMergesDailyEntry(t *testing.T) {
	l := newTestLedger(t)
	habit := addTestHabit(t, l, "study", 30)

	for i := 0; i < 7; i++ {
		l.GainXP(30, habit.ID)
	}

	snap := l.Snapshot()
	require.Equal(t, 3, snap.Level)
	require.Equal(t, 10, snap.XP)

	require.Len(t, snap.XPHistory, 1)
	require.Equal(t, "2024-01-15", snap.XPHistory[0].Date)
	require.Equal(t, habit.ID, snap.XPHistory[0].HabitID)
	require.Equal(t, 210, snap.XPHistory[0].XP)
}

func TestGainXPClampsAtZeroWithoutDeleveling(t *testing.T) {
	l := newTestLedger(t)
	habit := addTestHabit(t, l, "swim", 10)

	// Reach xp=5, level=2
	l.GainXP(105, habit.ID)
	snap := l.Snapshot()
	require.Equal(t, 5, snap.XP)
	require.Equal(t, 2, snap.Level)

	// Undo past zero: clamps, level holds
	l.GainXP(-10, habit.ID)
	snap = l.Snapshot()
	require.Equal(t, 0, snap.XP)
	require.Equal(t, 2, snap.Level)
}

func TestLevelNeverDecreases(t *testing.T) {
	l := newTestLedger(t)
	habit := addTestHabit(t, l, "row", 10)

	amounts := []int{250, -300, 40, -100, 170, -5}
	maxLevel := 1
	for _, amount := range amounts {
		l.GainXP(amount, habit.ID)
		snap := l.Snapshot()
		require.GreaterOrEqual(t, snap.Level, maxLevel, "after gain %d", amount)
		require.GreaterOrEqual(t, snap.XP, 0, "after gain %d", amount)
		if snap.Level > maxLevel {
			maxLevel = snap.Level
		}
	}
}

func TestGainEventCarriesRawAmountWhenClamped(t *testing.T) {
	l := newTestLedger(t)
	habit := addTestHabit(t, l, "cook", 10)

	l.GainXP(-10, habit.ID)

	snap := l.Snapshot()
	require.Equal(t, 0, snap.XP)
	require.Len(t, snap.Gains, 1)
	require.Equal(t, -10, snap.Gains[0].Amount)
}

func TestGainEventsExpire(t *testing.T) {
	l := newTestLedger(t, WithGainTTL(25*time.Millisecond))
	habit := addTestHabit(t, l, "walk", 10)

	l.GainXP(10, habit.ID)
	l.GainXP(10, habit.ID)
	require.Len(t, l.Snapshot().Gains, 2)

	require.Eventually(t, func() bool {
		return len(l.Snapshot().Gains) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestAddHabitRejectsDuplicateID(t *testing.T) {
	l := newTestLedger(t)
	habit := addTestHabit(t, l, "plan", 10)

	dup := habit.Clone()
	dup.Name = "plan again"
	err := l.AddHabit(dup)
	require.ErrorIs(t, err, ErrDuplicateID)
	require.Len(t, l.Snapshot().Habits, 2)
}

func TestChangesSignalsOnMutation(t *testing.T) {
	l := newTestLedger(t)

	// Drain any pending notification from Initialize
	select {
	case <-l.Changes():
	default:
	}

	habit := addTestHabit(t, l, "sketch", 10)
	select {
	case <-l.Changes():
	case <-time.After(time.Second):
		t.Fatal("expected change notification after AddHabit")
	}

	l.ToggleHabit(habit.ID, "2024-01-12")
	select {
	case <-l.Changes():
	case <-time.After(time.Second):
		t.Fatal("expected change notification after ToggleHabit")
	}
}

// brokenStore fails every operation; used to verify error propagation
type brokenStore struct {
	err error
}

func (b *brokenStore) Init() error  { return b.err }
func (b *brokenStore) Load() error  { return b.err }
func (b *brokenStore) Close() error { return nil }
func (b *brokenStore) UpsertHabit(models.Habit) error {
	return b.err
}
func (b *brokenStore) ListHabits() ([]models.Habit, error) {
	return nil, b.err
}
func (b *brokenStore) GetProgress() (models.Progress, error) {
	return models.Progress{}, b.err
}
func (b *brokenStore) PutProgress(models.Progress) error {
	return b.err
}
func (b *brokenStore) GetConfigPath() string { return "" }

func TestInitializeFailureLeavesLedgerUninitialized(t *testing.T) {
	l := New(&brokenStore{err: errors.New("disk on fire")}, WithClock(testClock))
	defer l.Close()

	require.Error(t, l.Initialize())
	require.False(t, l.Snapshot().Initialized)
}

// flakyStore persists habits but refuses progress writes
type flakyStore struct {
	*storage.JSONStore
	progressErr error
}

func (f *flakyStore) PutProgress(models.Progress) error { return f.progressErr }

func TestPersistenceFailureIsSurfacedNotFatal(t *testing.T) {
	store := &flakyStore{
		JSONStore:   newTestStore(t),
		progressErr: errors.New("no space left"),
	}

	l := New(store, WithClock(testClock))
	defer l.Close()
	require.NoError(t, l.Initialize())
	habit := addTestHabit(t, l, "journal", 10)

	l.ToggleHabit(habit.ID, "2024-01-15")
	l.Flush()

	select {
	case err := <-l.Errors():
		require.ErrorContains(t, err, "no space left")
	default:
		t.Fatal("expected a persistence error to be reported")
	}

	// In-memory state stays authoritative
	snap := l.Snapshot()
	require.Equal(t, 10, snap.XP)
	require.True(t, findHabit(t, snap, habit.ID).History["2024-01-15"])
}
