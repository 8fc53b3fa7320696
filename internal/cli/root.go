package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/habitquest/internal/ledger"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/storage"
)

type Context struct {
	Store storage.Provider
}

// openLedger loads storage and returns an initialized ledger. Callers own
// the returned ledger and must Close it (which drains pending writes).
func (ctx *Context) openLedger() (*ledger.Ledger, error) {
	if err := ctx.Store.Load(); err != nil {
		return nil, err
	}

	l := ledger.New(ctx.Store)
	if err := l.Initialize(); err != nil {
		l.Close()
		return nil, err
	}
	return l, nil
}

// closeLedger flushes and closes the ledger, then reports any persistence
// failures that happened along the way as warnings
func closeLedger(l *ledger.Ledger) {
	l.Close()
	for {
		select {
		case err := <-l.Errors():
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		default:
			return
		}
	}
}

// findHabit resolves a habit by id or (case-insensitive) name
func findHabit(snap ledger.Snapshot, ref string) (models.Habit, bool) {
	for _, h := range snap.Habits {
		if h.ID == ref {
			return h, true
		}
	}
	for _, h := range snap.Habits {
		if strings.EqualFold(h.Name, ref) {
			return h, true
		}
	}
	return models.Habit{}, false
}

// xpBar renders a fixed-width progress bar for XP within the current level
func xpBar(xp, max, width int) string {
	if max <= 0 || width <= 0 {
		return ""
	}
	filled := xp * width / max
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}
