package store

import (
	"sync"
	"time"
)

// DefaultNotifyDuration is how long a notification stays up when the
// caller does not choose a duration.
const DefaultNotifyDuration = 4 * time.Second

// Kind classifies a notification
type Kind int

const (
	KindSuccess Kind = iota
	KindError
)

// Notification is one transient user-facing message
type Notification struct {
	ID       uint64
	Message  string
	Kind     Kind
	Duration time.Duration
}

// Notifier owns the ordered queue of transient messages. Ids come from a
// monotonic counter, so two messages in the same instant never collide.
// Entries with a non-positive duration stay until dismissed.
type Notifier struct {
	mu       sync.Mutex
	nextID   uint64
	entries  []Notification
	timers   map[uint64]*time.Timer
	onChange func()
}

// NewNotifier creates an empty notification queue
func NewNotifier() *Notifier {
	return &Notifier{timers: map[uint64]*time.Timer{}}
}

// SetOnChange registers a callback fired after every queue change, so a
// view can repaint when a timer expires in the background.
func (n *Notifier) SetOnChange(fn func()) {
	n.mu.Lock()
	n.onChange = fn
	n.mu.Unlock()
}

// Enqueue appends a message and returns its id. A positive duration
// schedules automatic dismissal; zero or negative pins the entry.
func (n *Notifier) Enqueue(message string, kind Kind, duration time.Duration) uint64 {
	n.mu.Lock()
	n.nextID++
	id := n.nextID
	n.entries = append(n.entries, Notification{
		ID:       id,
		Message:  message,
		Kind:     kind,
		Duration: duration,
	})
	if duration > 0 {
		n.timers[id] = time.AfterFunc(duration, func() {
			n.Dismiss(id)
		})
	}
	changed := n.onChange
	n.mu.Unlock()

	if changed != nil {
		changed()
	}
	return id
}

// Success enqueues a success message with the default duration
func (n *Notifier) Success(message string) uint64 {
	return n.Enqueue(message, KindSuccess, DefaultNotifyDuration)
}

// Error enqueues an error message with the default duration
func (n *Notifier) Error(message string) uint64 {
	return n.Enqueue(message, KindError, DefaultNotifyDuration)
}

// Dismiss removes the entry with the given id. Dismissing an entry that
// already expired is a no-op.
func (n *Notifier) Dismiss(id uint64) {
	n.mu.Lock()
	if t, ok := n.timers[id]; ok {
		t.Stop()
		delete(n.timers, id)
	}
	removed := false
	for i := range n.entries {
		if n.entries[i].ID == id {
			n.entries = append(n.entries[:i], n.entries[i+1:]...)
			removed = true
			break
		}
	}
	changed := n.onChange
	n.mu.Unlock()

	if removed && changed != nil {
		changed()
	}
}

// Entries returns a copy of the queue, oldest first
func (n *Notifier) Entries() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notification, len(n.entries))
	copy(out, n.entries)
	return out
}

// Latest returns the newest entry, or nil when the queue is empty
func (n *Notifier) Latest() *Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.entries) == 0 {
		return nil
	}
	last := n.entries[len(n.entries)-1]
	return &last
}
