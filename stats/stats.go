// Package stats derives read-only summary views from a task collection.
// Every function is a pure fold over the slices it is handed; nothing here
// mutates a task or touches storage.
package stats

import (
	"time"

	"weekboard/internal/dateutil"
	"weekboard/models"
	"weekboard/validation"
)

// CompletionRate summarizes how much of a week's scheduled work is done.
type CompletionRate struct {
	Total     int     `json:"total"`
	Completed int     `json:"completed"`
	Rate      float64 `json:"rate"`
	Valid     bool    `json:"is_valid"`
	Err       string  `json:"error,omitempty"`
}

// WeeklyCompletion counts active and archived tasks assigned to the week
// containing weekOf ([Monday, Monday+6]) and reports completed/total as a
// percentage rounded to 2 decimals. Archived tasks always count as
// completed. Unscheduled tasks are excluded from both numerator and
// denominator, as are tasks whose assigned date does not parse.
func WeeklyCompletion(tasks []models.Task, archive []models.ArchivedTask, weekOf time.Time) CompletionRate {
	if weekOf.IsZero() {
		return CompletionRate{Err: "week reference date is zero"}
	}
	monday := dateutil.WeekStart(weekOf)
	sunday := monday.AddDate(0, 0, 6)

	rate := CompletionRate{Valid: true}
	inWeek := func(assigned *string) bool {
		if assigned == nil || *assigned == "" {
			return false
		}
		d, err := dateutil.Parse(*assigned)
		if err != nil {
			return false
		}
		d = dateutil.Midnight(d)
		return !d.Before(monday) && !d.After(sunday)
	}

	for _, t := range tasks {
		if !inWeek(t.AssignedDate) {
			continue
		}
		rate.Total++
		if t.Completed {
			rate.Completed++
		}
	}
	for _, a := range archive {
		if !inWeek(a.AssignedDate) {
			continue
		}
		// Archived implies completed regardless of the stored flag.
		rate.Total++
		rate.Completed++
	}

	if rate.Total > 0 {
		rate.Rate = validation.Round2(float64(rate.Completed) / float64(rate.Total) * 100)
	}
	return rate
}

// TimeByCategory sums estimated hours grouped by category over an arbitrary
// task subset. Empty input yields an empty map, not an error.
func TimeByCategory(tasks []models.Task) map[models.TaskCategory]float64 {
	out := make(map[models.TaskCategory]float64)
	for _, t := range tasks {
		out[t.Category] += t.EstimatedHours()
	}
	for c, v := range out {
		out[c] = validation.Round2(v)
	}
	return out
}

// TimeByDate sums estimated hours grouped by assigned date for scheduled
// tasks; unscheduled tasks are left out.
func TimeByDate(tasks []models.Task) map[string]float64 {
	out := make(map[string]float64)
	for _, t := range tasks {
		if !t.Scheduled() {
			continue
		}
		out[*t.AssignedDate] += t.EstimatedHours()
	}
	for d, v := range out {
		out[d] = validation.Round2(v)
	}
	return out
}

// TotalScheduled sums estimated hours over all scheduled tasks.
func TotalScheduled(tasks []models.Task) float64 {
	var total float64
	for _, t := range tasks {
		if t.Scheduled() {
			total += t.EstimatedHours()
		}
	}
	return validation.Round2(total)
}

// OverrunSeverity classifies how far a task ran past its estimate.
type OverrunSeverity string

const (
	SeverityNone     OverrunSeverity = "none"
	SeverityMinor    OverrunSeverity = "minor"
	SeverityModerate OverrunSeverity = "moderate"
	SeveritySevere   OverrunSeverity = "severe"
)

// Severity buckets the overrun percentage (actual-estimated)/estimated*100.
// Boundaries are inclusive on the lower tier: exactly 25% is minor, exactly
// 50% is moderate. A positive actual against a zero estimate is severe.
func Severity(estimated, actual float64) OverrunSeverity {
	if actual <= estimated || actual == 0 {
		return SeverityNone
	}
	if estimated <= 0 {
		return SeveritySevere
	}
	pct := (actual - estimated) / estimated * 100
	switch {
	case pct <= 25:
		return SeverityMinor
	case pct <= 50:
		return SeverityModerate
	}
	return SeveritySevere
}

// Variance is the estimated-versus-actual result for one task.
type Variance struct {
	TaskID    string          `json:"task_id"`
	Name      string          `json:"name"`
	Estimated float64         `json:"estimated"`
	Actual    float64         `json:"actual"`
	Variance  float64         `json:"variance"`
	Severity  OverrunSeverity `json:"severity"`
}

// Variances reports per-task actual minus estimated. Tasks with no recorded
// actual time are excluded, not treated as zero-variance.
func Variances(tasks []models.Task) []Variance {
	out := make([]Variance, 0, len(tasks))
	for _, t := range tasks {
		if t.ActualTime == nil {
			continue
		}
		est := t.EstimatedHours()
		act := *t.ActualTime
		out = append(out, Variance{
			TaskID:    t.ID,
			Name:      t.Name,
			Estimated: est,
			Actual:    act,
			Variance:  validation.Round2(act - est),
			Severity:  Severity(est, act),
		})
	}
	return out
}

// Overruns filters Variances down to tasks with strictly positive variance.
func Overruns(tasks []models.Task) []Variance {
	all := Variances(tasks)
	out := make([]Variance, 0, len(all))
	for _, v := range all {
		if v.Variance > 0 {
			out = append(out, v)
		}
	}
	return out
}
