package service

import (
	"time"

	"github.com/aliskhannn/arabingo/internal/gamification"
)

// Clock supplies the current instant and the learner's timezone.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

// SystemClock uses the wall clock in loc.
func SystemClock(loc *time.Location) Clock {
	return Clock{Now: time.Now, Location: loc}
}

func (c Clock) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c Clock) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// Today returns the learner's current calendar date.
func (c Clock) Today() string {
	return gamification.Today(c.now(), c.location())
}

// Hour returns the learner's current wall-clock hour.
func (c Clock) Hour() int {
	return c.now().In(c.location()).Hour()
}
