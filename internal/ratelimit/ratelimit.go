package ratelimit

import (
	"log/slog"
	"sync"
	"time"
)

// Budget caps how many calls may be made within a rolling window. A budget
// with max <= 0 is unlimited.
type Budget struct {
	mu        sync.Mutex
	name      string
	used      int
	denied    int
	max       int
	window    time.Duration
	resetTime time.Time
	now       func() time.Time
}

func NewBudget(name string, max int, window time.Duration) *Budget {
	b := &Budget{
		name:   name,
		max:    max,
		window: window,
		now:    time.Now,
	}
	b.resetTime = b.now().Add(window)
	return b
}

// Allow reserves one call and reports whether it fits in the budget.
func (b *Budget) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.checkReset()

	if b.max > 0 && b.used >= b.max {
		b.denied++
		slog.Warn("Rate limit reached", "budget", b.name, "used", b.used, "limit", b.max)
		return false
	}

	b.used++
	slog.Debug("Budget usage", "budget", b.name, "used", b.used, "limit", b.max)
	return true
}

// GetStats returns current budget statistics
func (b *Budget) GetStats() map[string]interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()

	return map[string]interface{}{
		"used":       b.used,
		"limit":      b.max,
		"denied":     b.denied,
		"reset_time": b.resetTime.Format(time.RFC3339),
	}
}

// checkReset resets counters if reset time has passed
func (b *Budget) checkReset() {
	if b.now().After(b.resetTime) {
		slog.Info("Resetting rate limit budget", "budget", b.name, "used", b.used, "denied", b.denied)
		b.used = 0
		b.denied = 0
		b.resetTime = b.now().Add(b.window)
	}
}
