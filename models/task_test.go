package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNormalizePriority(t *testing.T) {
	tests := []struct {
		in   string
		want TaskPriority
	}{
		{"high", PriorityHigh},
		{"medium", PriorityMedium},
		{"low", PriorityLow},
		{"urgent", PriorityMedium},
		{"HIGH", PriorityMedium},
		{"", PriorityMedium},
	}
	for _, tt := range tests {
		if got := NormalizePriority(tt.in); got != tt.want {
			t.Errorf("NormalizePriority(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want TaskCategory
	}{
		{"known category passes through", "meeting", CategoryMeeting},
		{"unknown string falls back", "sprint", CategoryTask},
		{"case sensitive", "MEETING", CategoryTask},
		{"empty string falls back", "", CategoryTask},
		{"nil falls back", nil, CategoryTask},
		{"number falls back", 42, CategoryTask},
		{"typed category passes through", CategoryBugfix, CategoryBugfix},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeCategory(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeCategory(%v) = %q, want %q", tt.in, got, tt.want)
			}
			if !got.Known() {
				t.Errorf("NormalizeCategory(%v) returned a category outside the closed set: %q", tt.in, got)
			}
		})
	}
}

func TestNormalizeClearsRecurrenceOnNonRecurring(t *testing.T) {
	pattern := RecurrenceDaily
	end := "2024-12-31"
	task := NewTask("one-off")
	task.RecurrencePattern = &pattern
	task.RecurrenceEndDate = &end

	task.Normalize()

	if task.RecurrencePattern != nil {
		t.Error("pattern should be cleared on a non-recurring task")
	}
	if task.RecurrenceEndDate != nil {
		t.Error("end date should be cleared on a non-recurring task")
	}
}

func TestNormalizeKeepsRecurrenceOnRecurring(t *testing.T) {
	pattern := RecurrenceWeekly
	task := NewTask("standup")
	task.IsRecurring = true
	task.RecurrencePattern = &pattern

	task.Normalize()

	if task.RecurrencePattern == nil || *task.RecurrencePattern != RecurrenceWeekly {
		t.Error("pattern should survive on a recurring task")
	}
}

func TestTaskNullFieldsRoundTripJSON(t *testing.T) {
	task := NewTask("bare")
	data, err := json.Marshal(task)
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{"assigned_date", "due_date", "details", "recurrence_pattern", "recurrence_end_date"} {
		v, ok := raw[field]
		if !ok {
			t.Errorf("field %s missing from serialized task", field)
			continue
		}
		if string(v) != "null" {
			t.Errorf("field %s = %s, want null", field, v)
		}
	}

	var back Task
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.AssignedDate != nil || back.RecurrencePattern != nil {
		t.Error("null fields should deserialize back to nil")
	}
}

func TestValidateStructRejectsBadEnums(t *testing.T) {
	task := NewTask("ok")
	if err := ValidateStruct(task); err != nil {
		t.Fatalf("fresh task should validate: %v", err)
	}

	task.Priority = "urgent"
	if err := ValidateStruct(task); err == nil {
		t.Error("unknown priority should fail validation")
	}

	task = NewTask("ok")
	task.Category = "sprint"
	if err := ValidateStruct(task); err == nil {
		t.Error("unknown category should fail validation")
	}

	task = NewTask("")
	if err := ValidateStruct(task); err == nil {
		t.Error("empty name should fail validation")
	}
}

func TestTemplateInstantiate(t *testing.T) {
	base := NewTask("weekly report")
	base.EstimatedTime = Float(2.5)
	base.ActualTime = Float(1.75)
	base.Category = CategoryDocument
	base.Priority = PriorityHigh
	base.IsRecurring = true
	pattern := RecurrenceWeekly
	base.RecurrencePattern = &pattern

	tpl := NewTemplate("report", base, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	if tpl.CreatedDate == "" {
		t.Error("template should stamp a created date")
	}

	date := "2024-06-03"
	inst := tpl.Instantiate(&date)

	if inst.ID == base.ID {
		t.Error("instance must get a fresh ID")
	}
	if inst.EstimatedHours() != 2.5 {
		t.Errorf("estimated = %v, want 2.5", inst.EstimatedHours())
	}
	if inst.ActualHours() != 0 {
		t.Errorf("actual should reset to 0, got %v", inst.ActualHours())
	}
	if inst.AssignedDate == nil || *inst.AssignedDate != date {
		t.Error("assigned date should come from the instantiation argument")
	}
	if !inst.IsRecurring || inst.RecurrencePattern == nil || *inst.RecurrencePattern != RecurrenceWeekly {
		t.Error("recurrence fields should copy through verbatim")
	}
	if tpl.UsageCount != 1 {
		t.Errorf("usage count = %d, want 1", tpl.UsageCount)
	}

	tpl.Instantiate(nil)
	if tpl.UsageCount != 2 {
		t.Errorf("usage count = %d, want 2", tpl.UsageCount)
	}
}

func TestSettingsNormalize(t *testing.T) {
	s := Settings{IdealDailyMinutes: -10}
	s.Normalize()
	if s.IdealDailyMinutes != DefaultIdealDailyMinutes {
		t.Errorf("ideal minutes = %d, want default %d", s.IdealDailyMinutes, DefaultIdealDailyMinutes)
	}
	for _, day := range WeekdayNames {
		if !s.Visible(day) {
			t.Errorf("day %s should default to visible", day)
		}
	}

	s.WeekdayVisibility["saturday"] = false
	if s.Visible("saturday") {
		t.Error("explicit false should hide the day")
	}
}
