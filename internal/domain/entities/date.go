package entities

import "time"

// DateLayout is the calendar-date format stored in LastLessonDate.
const DateLayout = "2006-01-02"

// DateOf returns the calendar date of t in its own location.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a calendar date as midnight UTC, so differences between
// two dates are always whole days.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
