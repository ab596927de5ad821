package calendar

import "sync"

// Calendar holds the current simulation Date as a single cursor. The
// scheduling model is single-threaded cooperative (spec §5), but the mutex
// costs nothing and protects against a future worker-thread mistake.
type Calendar struct {
	mu      sync.Mutex
	current Date
}

// NewCalendar creates a Calendar positioned at start.
func NewCalendar(start Date) *Calendar {
	return &Calendar{current: start}
}

// CurrentDate is a pure read of the cursor.
func (c *Calendar) CurrentDate() Date {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Advance adds n days to the cursor atomically and returns the new date.
func (c *Calendar) Advance(n int) Date {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.AddDays(n)
	return c.current
}

// Reset repositions the cursor, used only when reloading persisted state.
func (c *Calendar) Reset(d Date) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = d
}
