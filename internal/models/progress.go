package models

// XPEntry is one line of the XP ledger: the net XP a habit contributed on a
// calendar day. Repeated gains for the same (day, habit) pair merge into one
// entry by addition, so an entry's XP can be zero or negative after undos.
type XPEntry struct {
	Date    string `json:"date"`
	HabitID string `json:"habit_id"`
	XP      int    `json:"xp"`
}

// Progress is the persisted XP account
type Progress struct {
	XP        int       `json:"xp"`
	Level     int       `json:"level"`
	XPHistory []XPEntry `json:"xp_history,omitempty"`
}

// DefaultProgress is the account state for a fresh store
func DefaultProgress() Progress {
	return Progress{XP: 0, Level: 1}
}

// GainEvent is a transient XP change notification for the UI. Amount is the
// raw signed delta, even when the account clamped at zero. Events expire on
// their own a couple of seconds after creation.
type GainEvent struct {
	ID     string `json:"id"`
	Amount int    `json:"amount"`
}
