// Package dateutil provides the local-calendar date helpers shared by the
// board packages. All functions work on local calendar fields, never UTC, so
// formatted dates are stable across timezones within a single run.
package dateutil

import (
	"fmt"
	"time"
)

// Layout is the wire format for board dates.
const Layout = "2006-01-02"

// Format renders t as YYYY-MM-DD using its local calendar fields.
func Format(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// Parse reads a YYYY-MM-DD string as a local date.
func Parse(s string) (time.Time, error) {
	return time.ParseInLocation(Layout, s, time.Local)
}

// Midnight returns t truncated to local midnight.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekStart returns the Monday at local midnight of the week containing t.
// Sunday maps backward six days.
func WeekStart(t time.Time) time.Time {
	delta := 1 - int(t.Weekday())
	if t.Weekday() == time.Sunday {
		delta = -6
	}
	return Midnight(t).AddDate(0, 0, delta)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.Local).Day()
}
