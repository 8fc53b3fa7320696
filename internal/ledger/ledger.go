// Package ledger owns all durable and derived habit-tracking state: habit
// records, completion history, streak counts, and the XP/level account.
// Callers mutate state through commands; reads go through Snapshot. All
// persistence is write-behind: in-memory state is the source of truth for the
// running process and the store is a recovery snapshot for the next start.
package ledger

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/logger"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/storage"
)

// ErrDuplicateID is returned when adding a habit whose id is already present
var ErrDuplicateID = errors.New("habit id already exists")

type writeOp struct {
	name string
	fn   func() error
}

// Ledger is the single owner of habit and progress state. Construct with New,
// call Initialize once, and Close when done.
type Ledger struct {
	mu      sync.Mutex
	store   storage.Provider
	clock   func() time.Time
	gainTTL time.Duration

	habits      []models.Habit
	xp          int
	level       int
	xpHistory   []models.XPEntry
	gains       []models.GainEvent
	timers      map[string]*time.Timer
	initialized bool
	closed      bool

	writes chan writeOp
	done   chan struct{}
	errs   chan error
	notify chan struct{}
}

// Option configures a Ledger
type Option func(*Ledger)

// WithClock overrides the time source. Tests use this to pin "today".
func WithClock(clock func() time.Time) Option {
	return func(l *Ledger) { l.clock = clock }
}

// WithGainTTL overrides how long transient gain events stay alive
func WithGainTTL(ttl time.Duration) Option {
	return func(l *Ledger) { l.gainTTL = ttl }
}

// New creates a Ledger backed by the given store and starts its write-behind
// worker. The store must already be Init'd or Load'ed by the caller.
func New(store storage.Provider, opts ...Option) *Ledger {
	l := &Ledger{
		store:   store,
		clock:   time.Now,
		gainTTL: constants.GainEventTTL,
		timers:  make(map[string]*time.Timer),
		writes:  make(chan writeOp, 128),
		done:    make(chan struct{}),
		errs:    make(chan error, 16),
		notify:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(l)
	}
	go l.runWriter()
	return l
}

// Initialize loads persisted habits and progress into memory. On a fresh
// store it seeds a single starter habit and persists it synchronously before
// reporting success. Idempotent: repeat calls are no-ops. On failure the
// ledger stays uninitialized and the call may be retried.
func (l *Ledger) Initialize() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.initialized {
		return nil
	}

	habits, err := l.store.ListHabits()
	if err != nil {
		return fmt.Errorf("failed to load habits: %w", err)
	}

	progress, err := l.store.GetProgress()
	if err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}

	if len(habits) == 0 {
		seed := models.Habit{
			ID:        uuid.New().String(),
			Name:      constants.SeedHabitName,
			Frequency: models.FrequencyDaily,
			History:   make(map[string]bool),
			CreatedAt: l.clock(),
		}
		seed.ApplyDefaults()

		// The seed must survive a crash right after first run, so this
		// write is synchronous rather than write-behind
		if err := l.store.UpsertHabit(seed); err != nil {
			return fmt.Errorf("failed to persist starter habit: %w", err)
		}

		habits = []models.Habit{seed}
		progress = models.DefaultProgress()
	}

	l.habits = habits
	l.xp = progress.XP
	l.level = progress.Level
	l.xpHistory = progress.XPHistory
	l.initialized = true
	l.signal()

	return nil
}

// AddHabit appends a caller-built habit record and persists it. The ledger
// stores the record as given apart from allocating the history map; defaults
// are the caller's job (models.Habit.ApplyDefaults). Colliding ids are
// rejected so the in-memory sequence and the keyed store cannot diverge.
func (l *Ledger) AddHabit(habit models.Habit) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, existing := range l.habits {
		if existing.ID == habit.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateID, habit.ID)
		}
	}

	if habit.History == nil {
		habit.History = make(map[string]bool)
	}

	l.habits = append(l.habits, habit)

	stored := habit.Clone()
	l.persist("upsert habit", func() error { return l.store.UpsertHabit(stored) })
	l.signal()

	return nil
}

// ToggleHabit flips the completion flag for one habit on one day, recounts
// the streak, persists the habit, and adjusts XP by the habit's per-tick
// value (negative when toggling off). Unknown ids are a silent no-op. Dates
// are taken as given; guarding against future dates is the caller's concern.
func (l *Ledger) ToggleHabit(id, date string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var habit *models.Habit
	for i := range l.habits {
		if l.habits[i].ID == id {
			habit = &l.habits[i]
			break
		}
	}
	if habit == nil {
		return
	}

	if habit.History == nil {
		habit.History = make(map[string]bool)
	}

	wasDone := habit.History[date]
	habit.History[date] = !wasDone
	habit.Streak = habit.CompletedCount()

	amount := habit.XPPerTick
	if amount <= 0 {
		amount = constants.DefaultXPPerTick
	}
	if wasDone {
		amount = -amount
	}

	stored := habit.Clone()
	l.persist("upsert habit", func() error { return l.store.UpsertHabit(stored) })

	l.gainLocked(amount, id)
}

// GainXP applies a signed XP delta for the given habit. Exposed for the
// presentation layer's benefit in tests; ToggleHabit is the normal caller.
func (l *Ledger) GainXP(amount int, habitID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gainLocked(amount, habitID)
}

// gainLocked runs the XP algorithm with l.mu held:
// clamp the running total at zero, carry each full 100 XP into a level, and
// merge the delta into today's (date, habit) ledger entry. Levels only ever
// go up; undoing a completion at 0 XP does not borrow from the level below.
func (l *Ledger) gainLocked(amount int, habitID string) {
	newXP := l.xp + amount
	newLevel := l.level

	if newXP < 0 {
		newXP = 0
	}
	for newXP >= constants.XPPerLevel {
		newXP -= constants.XPPerLevel
		newLevel++
	}

	today := l.clock().Format("2006-01-02")

	merged := false
	for i := range l.xpHistory {
		if l.xpHistory[i].Date == today && l.xpHistory[i].HabitID == habitID {
			l.xpHistory[i].XP += amount
			merged = true
			break
		}
	}
	if !merged {
		l.xpHistory = append(l.xpHistory, models.XPEntry{Date: today, HabitID: habitID, XP: amount})
	}

	l.xp = newXP
	l.level = newLevel

	// The toast shows the raw delta even when the account clamped at zero
	gain := models.GainEvent{ID: uuid.New().String(), Amount: amount}
	l.gains = append(l.gains, gain)
	l.scheduleExpiry(gain.ID)

	progress := models.Progress{
		XP:        l.xp,
		Level:     l.level,
		XPHistory: append([]models.XPEntry(nil), l.xpHistory...),
	}
	l.persist("put progress", func() error { return l.store.PutProgress(progress) })
	l.signal()
}

// Snapshot is a read-only copy of ledger state for rendering
type Snapshot struct {
	Habits      []models.Habit
	XP          int
	Level       int
	XPHistory   []models.XPEntry
	Gains       []models.GainEvent
	Initialized bool
}

// Snapshot returns a copy of the current state. The copy is deep enough that
// callers can hold it across further mutations.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap := Snapshot{
		XP:          l.xp,
		Level:       l.level,
		Initialized: l.initialized,
		Habits:      make([]models.Habit, 0, len(l.habits)),
		XPHistory:   append([]models.XPEntry(nil), l.xpHistory...),
		Gains:       append([]models.GainEvent(nil), l.gains...),
	}
	for _, h := range l.habits {
		snap.Habits = append(snap.Habits, h.Clone())
	}
	return snap
}

// Changes returns a coalesced notification channel: a receive means state
// changed at least once since the last receive. Consumers re-render from
// Snapshot rather than polling.
func (l *Ledger) Changes() <-chan struct{} {
	return l.notify
}

// Errors returns the channel persistence failures are reported on. Failures
// never block commands and never roll back in-memory state; the channel lets
// the UI surface them without coupling to the write path.
func (l *Ledger) Errors() <-chan error {
	return l.errs
}

// Flush blocks until every write enqueued so far has been attempted
func (l *Ledger) Flush() {
	flushed := make(chan struct{})
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.writes <- writeOp{name: "flush", fn: func() error { close(flushed); return nil }}
	l.mu.Unlock()
	<-flushed
}

// Close drains pending writes, cancels outstanding gain-event timers, and
// stops the write-behind worker
func (l *Ledger) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	for id, timer := range l.timers {
		timer.Stop()
		delete(l.timers, id)
	}
	close(l.writes)
	l.mu.Unlock()
	<-l.done
}

// persist enqueues a store write. Must be called with l.mu held.
func (l *Ledger) persist(name string, fn func() error) {
	if l.closed {
		return
	}
	l.writes <- writeOp{name: name, fn: fn}
}

// signal coalesces change notifications. Must be called with l.mu held.
func (l *Ledger) signal() {
	select {
	case l.notify <- struct{}{}:
	default:
	}
}

// runWriter serializes all store writes on a single goroutine so the
// recovery snapshot can never regress by writes landing out of order
func (l *Ledger) runWriter() {
	defer close(l.done)
	for op := range l.writes {
		if err := op.fn(); err != nil {
			logger.Error("write-behind persistence failed", "op", op.name, "error", err)
			select {
			case l.errs <- fmt.Errorf("%s: %w", op.name, err):
			default:
				// Nobody is draining the channel; the log line above
				// is the durable record
			}
		}
	}
}
