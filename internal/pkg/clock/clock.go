// Package clock supplies the timestamps written to cards and tokens.
package clock

import (
	"sync"
	"time"
)

// Precision is the resolution both stores keep for timestamps. Times handed
// out by RealClock are already truncated to it, so a value returned to a
// caller equals the one read back from either store.
const Precision = time.Microsecond

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func NewRealClock() Clock {
	return RealClock{}
}

func (RealClock) Now() time.Time {
	return time.Now().UTC().Truncate(Precision)
}

// Since is time.Since against c.
func Since(c Clock, t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// MockClock only moves when told to. Safe for concurrent use.
type MockClock struct {
	mu  sync.RWMutex
	now time.Time
}

func NewMockClock(t time.Time) *MockClock {
	return &MockClock{now: t}
}

func (c *MockClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

func (c *MockClock) Add(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
