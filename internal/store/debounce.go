package store

import (
	"sync"
	"time"
)

// SearchDebounce is the quiescence window before typed search text is
// allowed to become part of a cache key.
const SearchDebounce = 350 * time.Millisecond

// Debouncer is the explicit two-stage search pipeline: raw keystrokes go
// in through Set, and only after the input has been quiet for the window
// does the value commit and reach the onCommit callback. Committed values
// feed cache keys; raw ones never do.
type Debouncer struct {
	mu       sync.Mutex
	window   time.Duration
	timer    *time.Timer
	raw      string
	value    string
	onCommit func(string)
}

// NewDebouncer creates a debouncer. onCommit may be nil; committed values
// are still readable through Value.
func NewDebouncer(window time.Duration, onCommit func(string)) *Debouncer {
	return &Debouncer{window: window, onCommit: onCommit}
}

// Set feeds a new raw value, restarting the quiescence timer
func (d *Debouncer) Set(raw string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.raw = raw
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.commit)
}

func (d *Debouncer) commit() {
	d.mu.Lock()
	if d.value == d.raw {
		d.mu.Unlock()
		return
	}
	d.value = d.raw
	fn := d.onCommit
	value := d.value
	d.mu.Unlock()

	if fn != nil {
		fn(value)
	}
}

// Flush commits the pending raw value immediately
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()
	d.commit()
}

// Value returns the last committed value
func (d *Debouncer) Value() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value
}

// Raw returns the latest uncommitted input
func (d *Debouncer) Raw() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.raw
}

// Stop cancels any pending commit
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
