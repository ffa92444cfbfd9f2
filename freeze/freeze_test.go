package freeze

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 15, 4, 5, 0, time.UTC)
}

func calcAt(t time.Time) *Calculator {
	// Anchor release 2024-01-09, two-week cadence, freeze a week before.
	return NewDefault(clockwork.NewFakeClockAt(t))
}

func TestIsFreezeDay(t *testing.T) {
	run := func(now time.Time, expected bool) func(t *testing.T) {
		return func(t *testing.T) {
			assert.Equal(t, expected, calcAt(now).IsFreezeDay())
		}
	}
	t.Run("anchor freeze day", run(day(2024, time.January, 2), true))
	t.Run("anchor release day", run(day(2024, time.January, 9), false))
	t.Run("one cadence later", run(day(2024, time.January, 16), true))
	t.Run("day after freeze", run(day(2024, time.January, 17), false))
	t.Run("many cadences later", run(day(2024, time.December, 17), true))
	t.Run("before the anchor", run(day(2023, time.December, 19), true))
	t.Run("time of day does not matter", run(day(2024, time.January, 16).Add(8*time.Hour), true))
}

func TestNextFreeze(t *testing.T) {
	t.Run("freeze day returns today", func(t *testing.T) {
		next := calcAt(day(2024, time.January, 16)).NextFreeze()
		assert.Equal(t, time.Date(2024, time.January, 16, 0, 0, 0, 0, time.UTC), next)
	})
	t.Run("mid-cycle rounds up", func(t *testing.T) {
		next := calcAt(day(2024, time.January, 10)).NextFreeze()
		assert.Equal(t, time.Date(2024, time.January, 16, 0, 0, 0, 0, time.UTC), next)
	})
}

func TestNextRelease(t *testing.T) {
	release := calcAt(day(2024, time.January, 10)).NextRelease()
	assert.Equal(t, time.Date(2024, time.January, 23, 0, 0, 0, 0, time.UTC), release)
}
