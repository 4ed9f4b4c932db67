package alert

import (
	"testing"
	"time"
)

func newTestBuffer(interval time.Duration) (*Buffer, *[]map[string]string, *time.Time) {
	var fired []map[string]string
	b := NewBuffer(interval, func(batch map[string]string) {
		fired = append(fired, batch)
	})
	clock := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return clock }
	return b, &fired, &clock
}

func TestBuffer_FirstPushFlushesImmediately(t *testing.T) {
	b, fired, _ := newTestBuffer(5 * time.Minute)

	b.Push("web-1", "disk almost full")

	if len(*fired) != 1 {
		t.Fatalf("fired %d times, want 1", len(*fired))
	}
	if got := (*fired)[0]["web-1"]; got != "disk almost full" {
		t.Errorf("batch[web-1] = %q, want %q", got, "disk almost full")
	}
	if b.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0 after flush", b.Pending())
	}
}

func TestBuffer_WithinIntervalBuffers(t *testing.T) {
	b, fired, clock := newTestBuffer(5 * time.Minute)

	b.Push("web-1", "first")
	*clock = clock.Add(time.Minute)
	b.Push("web-1", "second")
	b.Push("web-2", "other machine")

	if len(*fired) != 1 {
		t.Fatalf("fired %d times, want 1 within the interval", len(*fired))
	}
	if b.Pending() != 2 {
		t.Errorf("Pending() = %d, want 2", b.Pending())
	}
}

// The newest message per reporter wins between flushes.
func TestBuffer_LatestMessageWins(t *testing.T) {
	b, fired, clock := newTestBuffer(5 * time.Minute)

	b.Push("web-1", "stale")
	*clock = clock.Add(time.Minute)
	b.Push("web-1", "old")
	*clock = clock.Add(time.Minute)
	b.Push("web-1", "newest")
	*clock = clock.Add(4 * time.Minute)
	b.Push("web-2", "trigger flush")

	if len(*fired) != 2 {
		t.Fatalf("fired %d times, want 2", len(*fired))
	}
	batch := (*fired)[1]
	if got := batch["web-1"]; got != "newest" {
		t.Errorf("batch[web-1] = %q, want %q", got, "newest")
	}
	if got := batch["web-2"]; got != "trigger flush" {
		t.Errorf("batch[web-2] = %q, want %q", got, "trigger flush")
	}
}

func TestBuffer_FlushAfterInterval(t *testing.T) {
	b, fired, clock := newTestBuffer(5 * time.Minute)

	b.Push("web-1", "first")
	*clock = clock.Add(time.Minute)
	b.Push("web-1", "buffered")
	*clock = clock.Add(5 * time.Minute)
	b.Push("web-1", "after interval")

	if len(*fired) != 2 {
		t.Fatalf("fired %d times, want 2", len(*fired))
	}
	if got := (*fired)[1]["web-1"]; got != "after interval" {
		t.Errorf("batch[web-1] = %q, want %q", got, "after interval")
	}
	if b.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0 after a flush", b.Pending())
	}
}
