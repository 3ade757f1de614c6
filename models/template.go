package models

import (
	"time"

	"github.com/google/uuid"
)

// Template is a named, reusable base-task definition used to stamp out new
// task instances on demand. The recurrence fields of the base task are
// carried through verbatim into instantiated tasks.
type Template struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required,min=1"`
	BaseTask    Task   `json:"base_task"`
	UsageCount  int    `json:"usage_count" validate:"gte=0"`
	CreatedDate string `json:"created_date"`
}

// NewTemplate creates a template wrapping the given base task.
func NewTemplate(name string, base Task, now time.Time) Template {
	return Template{
		ID:          uuid.NewString(),
		Name:        name,
		BaseTask:    base,
		CreatedDate: now.UTC().Format(time.RFC3339),
	}
}

// Instantiate stamps out a fresh task from the template and bumps the usage
// counter. The new task gets its own ID, a zeroed actual time, and the
// optional assigned date; everything else, the recurrence fields included,
// is copied from the base task.
func (tp *Template) Instantiate(assignedDate *string) Task {
	zero := 0.0
	est := tp.BaseTask.EstimatedHours()
	t := Task{
		ID:                uuid.NewString(),
		Name:              tp.BaseTask.Name,
		EstimatedTime:     &est,
		ActualTime:        &zero,
		Priority:          tp.BaseTask.Priority,
		Category:          tp.BaseTask.Category,
		AssignedDate:      cloneString(assignedDate),
		DueDate:           cloneString(tp.BaseTask.DueDate),
		Details:           cloneString(tp.BaseTask.Details),
		IsRecurring:       tp.BaseTask.IsRecurring,
		RecurrencePattern: clonePattern(tp.BaseTask.RecurrencePattern),
		RecurrenceEndDate: cloneString(tp.BaseTask.RecurrenceEndDate),
	}
	t.Normalize()
	tp.UsageCount++
	return t
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func clonePattern(p *RecurrencePattern) *RecurrencePattern {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
