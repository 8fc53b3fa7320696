package ledger

import "time"

// scheduleExpiry arms a cancellable timer that removes the gain event after
// the display window. Timers are keyed by event id, never by position, so
// rapid toggles expire the right entry. Must be called with l.mu held.
func (l *Ledger) scheduleExpiry(id string) {
	l.timers[id] = time.AfterFunc(l.gainTTL, func() {
		l.expireGain(id)
	})
}

func (l *Ledger) expireGain(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	delete(l.timers, id)

	kept := l.gains[:0]
	for _, g := range l.gains {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	l.gains = kept
	l.signal()
}
