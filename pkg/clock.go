package pkg

import (
	"sync"
	"time"
)

// DateLayout is the calendar-date key format used by the nutrition ledger.
const DateLayout = "2006-01-02"

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock always returns the same instant until moved with Set or Advance.
// Used by tests that need deterministic timestamps.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FixedClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// DateString formats t as a YYYY-MM-DD date key.
func DateString(t time.Time) string {
	return t.Format(DateLayout)
}

// IsValidDate reports whether date is a YYYY-MM-DD calendar date.
func IsValidDate(date string) bool {
	_, err := time.Parse(DateLayout, date)
	return err == nil
}
