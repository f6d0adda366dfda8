//go:build unit

package clock_test

import (
	"testing"
	"time"

	"qrcard/internal/pkg/clock"

	"github.com/stretchr/testify/assert"
)

func TestRealClockPrecision(t *testing.T) {
	now := clock.NewRealClock().Now()

	assert.Equal(t, time.UTC, now.Location())
	assert.Zero(t, now.Nanosecond()%int(clock.Precision))
}

func TestMockClock(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	c := clock.NewMockClock(start)

	c.Add(90 * time.Second)
	assert.Equal(t, 90*time.Second, clock.Since(c, start))

	c.Set(start)
	assert.Equal(t, start, c.Now())
}
