// Package recurrence expands recurring task definitions into concrete dated
// task instances. The engine is a set of pure functions over value records:
// the definition and the date range are threaded through every call, and the
// input definitions are never mutated except by the explicit UpdateEndDate.
//
// Ordinary bad input (missing pattern, unparseable end date) never produces
// an error; it degrades to "no tasks generated" or a skipped definition.
package recurrence

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"weekboard/internal/dateutil"
	"weekboard/models"
)

// InstanceFor materializes one concrete, non-recurring task from a recurring
// definition for the given target date. It returns false when the definition
// is not recurring, has no pattern, or when the target lies past the
// recurrence end date. The end date is inclusive: a target equal to it still
// generates.
func InstanceFor(def models.Task, target time.Time) (models.Task, bool) {
	if !def.IsRecurring || def.RecurrencePattern == nil {
		return models.Task{}, false
	}
	day := dateutil.Midnight(target)
	if def.RecurrenceEndDate != nil {
		end, err := dateutil.Parse(*def.RecurrenceEndDate)
		if err != nil || day.After(dateutil.Midnight(end)) {
			return models.Task{}, false
		}
	}

	zero := 0.0
	est := def.EstimatedHours()
	assigned := dateutil.Format(day)
	inst := models.Task{
		ID:            uuid.NewString(),
		Name:          def.Name,
		EstimatedTime: &est,
		ActualTime:    &zero,
		Priority:      def.Priority,
		Category:      def.Category,
		AssignedDate:  &assigned,
		Details:       cloneString(def.Details),
	}
	return inst, true
}

// Expand generates all instances of def over the inclusive [start, end]
// range, stepping by the definition's cadence. Unknown patterns yield nil.
func Expand(def models.Task, start, end time.Time) []models.Task {
	if def.RecurrencePattern == nil {
		return nil
	}
	switch *def.RecurrencePattern {
	case models.RecurrenceDaily:
		return expandByDays(def, start, end, 1)
	case models.RecurrenceWeekly:
		return expandByDays(def, start, end, 7)
	case models.RecurrenceMonthly:
		return expandMonthly(def, start, end)
	}
	return nil
}

func expandByDays(def models.Task, start, end time.Time, step int) []models.Task {
	start = dateutil.Midnight(start)
	end = dateutil.Midnight(end)
	var out []models.Task
	for d := start; !d.After(end); d = d.AddDate(0, 0, step) {
		if inst, ok := InstanceFor(def, d); ok {
			out = append(out, inst)
		}
	}
	return out
}

// expandMonthly advances to the same day-of-month each iteration. The target
// day is re-derived from the original start date every step, not from the
// possibly-clamped previous date, so Jan 31 visits Feb 29 in a leap year and
// still returns to Mar 31.
func expandMonthly(def models.Task, start, end time.Time) []models.Task {
	start = dateutil.Midnight(start)
	end = dateutil.Midnight(end)
	wantDay := start.Day()
	var out []models.Task
	for d := start; !d.After(end); d = nextMonthOn(d, wantDay) {
		if inst, ok := InstanceFor(def, d); ok {
			out = append(out, inst)
		}
	}
	return out
}

// nextMonthOn returns the given day-of-month in the month after d, clamped
// to the last valid day of that month.
func nextMonthOn(d time.Time, day int) time.Time {
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location()).AddDate(0, 1, 0)
	if max := dateutil.DaysIn(first.Year(), first.Month()); day > max {
		day = max
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, d.Location())
}

// IsActive reports whether generation should run at all for a definition:
// it must be recurring and its end date, when set, must not lie before
// today. An unparseable end date counts as expired.
func IsActive(def models.Task, now time.Time) bool {
	if !def.IsRecurring {
		return false
	}
	if def.RecurrenceEndDate == nil {
		return true
	}
	end, err := dateutil.Parse(*def.RecurrenceEndDate)
	if err != nil {
		return false
	}
	return !dateutil.Midnight(now).After(dateutil.Midnight(end))
}

// ExpandAll generates the instances of every active definition over the
// inclusive [start, end] range, preserving per-definition, per-date order.
// Expired definitions are skipped entirely, even when part of the range
// predates the expiry; unknown patterns are skipped with a diagnostic
// instead of aborting the batch.
func ExpandAll(defs []models.Task, start, end, now time.Time) []models.Task {
	var out []models.Task
	for _, def := range defs {
		if !IsActive(def, now) {
			continue
		}
		if def.RecurrencePattern == nil {
			continue
		}
		if !def.RecurrencePattern.Known() {
			fmt.Fprintf(os.Stderr, "Warning: unknown recurrence pattern %q on task %q, skipping\n",
				*def.RecurrencePattern, def.Name)
			continue
		}
		out = append(out, Expand(def, start, end)...)
	}
	return out
}

// UpdateEndDate sets, or clears with nil, the recurrence end date of a
// definition. It rejects non-recurring definitions and end dates before
// today, returning false without mutating anything.
func UpdateEndDate(def *models.Task, endDate *string, now time.Time) bool {
	if def == nil || !def.IsRecurring {
		return false
	}
	if endDate == nil {
		def.RecurrenceEndDate = nil
		return true
	}
	end, err := dateutil.Parse(*endDate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid recurrence end date %q rejected\n", *endDate)
		return false
	}
	if dateutil.Midnight(end).Before(dateutil.Midnight(now)) {
		fmt.Fprintf(os.Stderr, "Warning: recurrence end date %q is in the past, rejected\n", *endDate)
		return false
	}
	v := *endDate
	def.RecurrenceEndDate = &v
	return true
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
