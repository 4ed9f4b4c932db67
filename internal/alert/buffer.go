package alert

import (
	"sync"
	"time"
)

// Buffer coalesces alarm messages per reporter and throttles delivery to
// one flush per interval. Between flushes the newest message per reporter
// wins; a flush hands the whole map to the fire callback and clears it.
//
// The first Push always flushes immediately, so a fresh alarm is never
// delayed by a full interval.
type Buffer struct {
	mu       sync.Mutex
	interval time.Duration
	nextTime time.Time
	pending  map[string]string
	fire     func(map[string]string)
	now      func() time.Time
}

// NewBuffer creates a buffer that delivers through fire at most once per
// interval.
func NewBuffer(interval time.Duration, fire func(map[string]string)) *Buffer {
	return &Buffer{
		interval: interval,
		pending:  make(map[string]string),
		fire:     fire,
		now:      time.Now,
	}
}

// Push records the latest message for a reporter and flushes when the
// interval has elapsed. The fire callback runs outside the lock so a slow
// webhook cannot block concurrent report handling.
func (b *Buffer) Push(identifier, message string) {
	b.mu.Lock()
	b.pending[identifier] = message

	now := b.now()
	if now.Before(b.nextTime) {
		b.mu.Unlock()
		return
	}

	batch := b.pending
	b.pending = make(map[string]string)
	b.nextTime = now.Add(b.interval)
	b.mu.Unlock()

	b.fire(batch)
}

// Pending returns the number of buffered reporters, for introspection.
func (b *Buffer) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}
