package scan

import (
	"sync"
	"time"
)

// Debouncer suppresses reprocessing of an identical payload string within a
// short cooldown window. It is a UX guard against double reads of one
// physical scan; the recorder's idempotence is the actual safety net.
type Debouncer struct {
	cooldown time.Duration
	mu       sync.Mutex
	seen     map[string]time.Time
	inFlight bool
	now      func() time.Time
}

// NewDebouncer creates a debouncer with the given cooldown window.
func NewDebouncer(cooldown time.Duration) *Debouncer {
	if cooldown <= 0 {
		cooldown = 3 * time.Second
	}
	return &Debouncer{
		cooldown: cooldown,
		seen:     make(map[string]time.Time),
		now:      time.Now,
	}
}

// Allow reports whether payload may be dispatched now. A payload identical
// to one dispatched within the cooldown window is suppressed; a different
// payload is never blocked. Allowing a payload starts its window.
func (d *Debouncer) Allow(payload string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	if last, ok := d.seen[payload]; ok && now.Sub(last) < d.cooldown {
		return false
	}
	d.seen[payload] = now
	d.prune(now)
	return true
}

// Begin marks a scan as in flight; re-entrant decode callbacks must be
// ignored until End is called. Returns false if one is already running.
func (d *Debouncer) Begin() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.inFlight {
		return false
	}
	d.inFlight = true
	return true
}

// End clears the in-flight flag.
func (d *Debouncer) End() {
	d.mu.Lock()
	d.inFlight = false
	d.mu.Unlock()
}

// prune drops expired entries so the map does not grow with scan volume.
func (d *Debouncer) prune(now time.Time) {
	for k, t := range d.seen {
		if now.Sub(t) >= d.cooldown {
			delete(d.seen, k)
		}
	}
}
