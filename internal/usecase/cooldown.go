package usecase

import (
	"context"
	"math"
	"sync"
	"time"
)

// CooldownTracker enforces a minimum gap between OTP sends per identifier.
// State is process-local and starts empty on every boot.
type CooldownTracker struct {
	mu       sync.Mutex
	interval time.Duration
	last     map[string]time.Time
	now      func() time.Time
}

type CooldownOption func(*CooldownTracker)

func WithClock(now func() time.Time) CooldownOption {
	return func(t *CooldownTracker) {
		t.now = now
	}
}

func NewCooldownTracker(interval time.Duration, opts ...CooldownOption) *CooldownTracker {
	t := &CooldownTracker{
		interval: interval,
		last:     make(map[string]time.Time),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// CheckAndRecord records a send for identifier if the interval has elapsed.
// Otherwise it returns false with the whole seconds left, never less than 1.
func (t *CooldownTracker) CheckAndRecord(identifier string) (bool, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if last, ok := t.last[identifier]; ok {
		if elapsed := now.Sub(last); elapsed < t.interval {
			remaining := int(math.Ceil((t.interval - elapsed).Seconds()))
			if remaining < 1 {
				remaining = 1
			}
			return false, remaining
		}
	}

	t.last[identifier] = now
	return true, 0
}

func (t *CooldownTracker) Clear(identifiers ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, id := range identifiers {
		delete(t.last, id)
	}
}

// Prune drops entries whose interval has already elapsed.
func (t *CooldownTracker) Prune() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	removed := 0
	for id, last := range t.last {
		if now.Sub(last) >= t.interval {
			delete(t.last, id)
			removed++
		}
	}
	return removed
}

func (t *CooldownTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.last)
}

// Run prunes every tick until ctx is done.
func (t *CooldownTracker) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.Prune()
		case <-ctx.Done():
			return
		}
	}
}
