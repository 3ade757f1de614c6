package models

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// TaskPriority represents the priority levels of a task.
type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

// NormalizePriority returns the input when it is a known priority and
// PriorityMedium for anything else.
func NormalizePriority(v string) TaskPriority {
	switch TaskPriority(v) {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return TaskPriority(v)
	}
	return PriorityMedium
}

// RecurrencePattern governs the cadence of generated task instances.
type RecurrencePattern string

const (
	RecurrenceDaily   RecurrencePattern = "daily"
	RecurrenceWeekly  RecurrencePattern = "weekly"
	RecurrenceMonthly RecurrencePattern = "monthly"
)

// Known reports whether p is one of the supported cadences.
func (p RecurrencePattern) Known() bool {
	switch p {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}

// Task is the central board entity. Nullable wire fields are pointers so a
// JSON null round-trips as null; estimated/actual hours are pointers because
// "absent" and 0 mean different things to the variance statistics.
type Task struct {
	ID                string             `json:"id" validate:"required"`
	Name              string             `json:"name" validate:"required,min=1"`
	EstimatedTime     *float64           `json:"estimated_time" validate:"omitempty,gte=0"`
	ActualTime        *float64           `json:"actual_time" validate:"omitempty,gte=0"`
	Priority          TaskPriority       `json:"priority" validate:"required,oneof=high medium low"`
	Category          TaskCategory       `json:"category" validate:"required,oneof=task meeting review bugfix document research"`
	AssignedDate      *string            `json:"assigned_date"`
	DueDate           *string            `json:"due_date"`
	Details           *string            `json:"details"`
	Completed         bool               `json:"completed"`
	IsRecurring       bool               `json:"is_recurring"`
	RecurrencePattern *RecurrencePattern `json:"recurrence_pattern"`
	RecurrenceEndDate *string            `json:"recurrence_end_date"`
}

// EstimatedHours returns the estimated time, treating absent as 0.
func (t Task) EstimatedHours() float64 {
	if t.EstimatedTime == nil {
		return 0
	}
	return *t.EstimatedTime
}

// ActualHours returns the recorded actual time, treating absent as 0.
func (t Task) ActualHours() float64 {
	if t.ActualTime == nil {
		return 0
	}
	return *t.ActualTime
}

// Scheduled reports whether the task sits on a board day.
func (t Task) Scheduled() bool {
	return t.AssignedDate != nil && *t.AssignedDate != ""
}

// Normalize repairs the enum fields and enforces the recurrence invariant:
// a non-recurring task never carries a pattern or an end date.
func (t *Task) Normalize() {
	t.Priority = NormalizePriority(string(t.Priority))
	t.Category = NormalizeCategory(string(t.Category))
	if !t.IsRecurring {
		t.RecurrencePattern = nil
		t.RecurrenceEndDate = nil
	}
}

// TaskList is the persisted collection shape.
type TaskList struct {
	Tasks      []Task `json:"tasks" validate:"dive"`
	TotalCount int    `json:"totalCount"`
}

// validator instance shared by the package; caches struct info.
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var msgs []string
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("validation failed on field '%s': rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return nil
}

// NewTask creates a task with a fresh ID and the baseline defaults.
func NewTask(name string) Task {
	zero := 0.0
	return Task{
		ID:            uuid.NewString(),
		Name:          name,
		EstimatedTime: &zero,
		ActualTime:    &zero,
		Priority:      PriorityMedium,
		Category:      CategoryTask,
	}
}

// Float returns a pointer to v; convenience for the nullable hour fields.
func Float(v float64) *float64 { return &v }

// String returns a pointer to s; convenience for the nullable wire fields.
func String(s string) *string { return &s }
