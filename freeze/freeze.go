// Package freeze answers "is today the code-freeze day" against the fixed
// release cadence: releases ship every cadence interval from an anchor
// release date, and code freeze lands a fixed number of days before each
// release.
package freeze

import (
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	// First release of the current cadence. Freeze math is anchored here.
	defaultAnchorYear  = 2024
	defaultAnchorMonth = time.January
	defaultAnchorDay   = 9

	defaultCadenceWeeks     = 2
	defaultFreezeOffsetDays = 7
)

type Calculator struct {
	clock            clockwork.Clock
	anchorRelease    time.Time
	cadenceWeeks     int
	freezeOffsetDays int
}

func New(clock clockwork.Clock, anchorRelease time.Time, cadenceWeeks int, freezeOffsetDays int) *Calculator {
	return &Calculator{
		clock:            clock,
		anchorRelease:    dateOnly(anchorRelease),
		cadenceWeeks:     cadenceWeeks,
		freezeOffsetDays: freezeOffsetDays,
	}
}

func NewDefault(clock clockwork.Clock) *Calculator {
	anchor := time.Date(defaultAnchorYear, defaultAnchorMonth, defaultAnchorDay, 0, 0, 0, 0, time.UTC)
	return New(clock, anchor, defaultCadenceWeeks, defaultFreezeOffsetDays)
}

// IsFreezeDay reports whether today (UTC) is a code-freeze day.
func (c *Calculator) IsFreezeDay() bool {
	today := dateOnly(c.clock.Now().UTC())
	return mod(daysBetween(c.anchorFreeze(), today), c.periodDays()) == 0
}

// NextFreeze returns the next code-freeze date, today included.
func (c *Calculator) NextFreeze() time.Time {
	today := dateOnly(c.clock.Now().UTC())
	rem := mod(daysBetween(c.anchorFreeze(), today), c.periodDays())
	if rem == 0 {
		return today
	}
	return today.AddDate(0, 0, c.periodDays()-rem)
}

// NextRelease returns the release date the next code freeze gates.
func (c *Calculator) NextRelease() time.Time {
	return c.NextFreeze().AddDate(0, 0, c.freezeOffsetDays)
}

func (c *Calculator) anchorFreeze() time.Time {
	return c.anchorRelease.AddDate(0, 0, -c.freezeOffsetDays)
}

func (c *Calculator) periodDays() int {
	return c.cadenceWeeks * 7
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(a time.Time, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}

// mod is the Euclidean remainder, so dates before the anchor still land on
// the right spot in the cycle.
func mod(a int, p int) int {
	return ((a % p) + p) % p
}
