package transfer

import (
	"encoding/json"
	"testing"
	"time"

	"weekboard/models"
)

func sampleBoard() ([]models.Task, models.Settings, []models.ArchivedTask) {
	task := models.NewTask("write docs")
	task.Category = models.CategoryDocument
	task.EstimatedTime = models.Float(2.5)
	task.ActualTime = models.Float(3)
	task.AssignedDate = models.String("2024-05-06")

	recurring := models.NewTask("standup")
	recurring.IsRecurring = true
	pattern := models.RecurrenceDaily
	recurring.RecurrencePattern = &pattern

	archived := models.NewArchivedTask(models.NewTask("old work"), time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC))
	return []models.Task{task, recurring}, models.DefaultSettings(), []models.ArchivedTask{archived}
}

func TestBuildPayload(t *testing.T) {
	tasks, settings, archive := sampleBoard()
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	p := BuildPayload(tasks, settings, archive, now)

	if p.ExportInfo.Version != FormatVersion {
		t.Errorf("version = %q, want %q", p.ExportInfo.Version, FormatVersion)
	}
	if p.ExportInfo.ExportDate != "2024-05-10T12:00:00Z" {
		t.Errorf("export date = %q", p.ExportInfo.ExportDate)
	}
	if !p.ExportInfo.CategoriesIncluded {
		t.Error("categories flag should always be set")
	}
	if !p.ExportInfo.RecurringTasksIncluded {
		t.Error("recurring flag should be set when a recurring task is present")
	}

	p = BuildPayload(nil, settings, nil, now)
	if p.Tasks == nil || p.Archive == nil {
		t.Error("nil collections should serialize as empty arrays, not null")
	}
	if p.ExportInfo.RecurringTasksIncluded {
		t.Error("recurring flag should be unset for an empty board")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	tasks, settings, archive := sampleBoard()
	data, err := Marshal(BuildPayload(tasks, settings, archive, time.Now()))
	if err != nil {
		t.Fatal(err)
	}

	back, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(back.Tasks) != 2 || len(back.Archive) != 1 {
		t.Fatalf("round trip lost records: %d tasks, %d archived", len(back.Tasks), len(back.Archive))
	}

	got := back.Tasks[0]
	if got.ID != tasks[0].ID {
		t.Error("task ID changed in round trip")
	}
	if got.Category != models.CategoryDocument {
		t.Errorf("category = %q", got.Category)
	}
	if got.EstimatedHours() != 2.5 || got.ActualHours() != 3 {
		t.Errorf("times = %v/%v", got.EstimatedHours(), got.ActualHours())
	}
	if back.Tasks[1].RecurrencePattern == nil || *back.Tasks[1].RecurrencePattern != models.RecurrenceDaily {
		t.Error("recurrence pattern lost in round trip")
	}
}

func TestParseStructuralError(t *testing.T) {
	if _, err := Parse([]byte("{not json")); err == nil {
		t.Error("malformed JSON should be a structural error")
	}
	if _, err := Parse([]byte(`{"tasks": "nope"}`)); err == nil {
		t.Error("wrong collection type should be a structural error")
	}
}

func TestParseDefaultsMissingSections(t *testing.T) {
	p, err := Parse([]byte(`{"tasks": []}`))
	if err != nil {
		t.Fatal(err)
	}
	if p.Archive == nil {
		t.Error("missing archive should default to empty")
	}
	if p.Settings.IdealDailyMinutes != models.DefaultIdealDailyMinutes {
		t.Errorf("settings should normalize, got %d ideal minutes", p.Settings.IdealDailyMinutes)
	}
}

func TestParseIgnoresUnknownFields(t *testing.T) {
	doc := `{"tasks": [], "archive": [], "settings": {}, "exportInfo": {}, "somethingExtra": {"a": 1}}`
	if _, err := Parse([]byte(doc)); err != nil {
		t.Errorf("unknown extra fields should be ignored: %v", err)
	}
}

func TestSanitizeRepairsCategoriesAndTimes(t *testing.T) {
	doc := map[string]any{
		"tasks": []map[string]any{
			{
				"id": "t1", "name": "odd category", "category": "sprint",
				"priority": "medium", "estimated_time": 1.0,
			},
			{
				"id": "t2", "name": "fine", "category": "meeting",
				"priority": "high", "estimated_time": 1.0, "actual_time": 0.5,
				"is_recurring": true, "recurrence_pattern": "weekly",
			},
		},
		"archive": []map[string]any{
			{"id": "a1", "name": "archived", "category": "bogus", "priority": "low", "archived_date": "2024-01-01T00:00:00Z"},
		},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	p, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}

	istats := Sanitize(&p)

	if istats.Tasks != 2 || istats.ArchivedTasks != 1 {
		t.Errorf("counts = %d/%d, want 2/1", istats.Tasks, istats.ArchivedTasks)
	}
	if istats.RepairedCategories != 2 {
		t.Errorf("repaired categories = %d, want 2", istats.RepairedCategories)
	}
	if istats.RecurringTasks != 1 {
		t.Errorf("recurring = %d, want 1", istats.RecurringTasks)
	}
	// t1 and a1 had no actual_time.
	if istats.ActualTimeDefaults != 2 {
		t.Errorf("actual time defaults = %d, want 2", istats.ActualTimeDefaults)
	}

	if p.Tasks[0].Category != models.CategoryTask {
		t.Errorf("unknown category should repair to task, got %q", p.Tasks[0].Category)
	}
	if p.Tasks[1].Category != models.CategoryMeeting {
		t.Error("valid category must survive untouched")
	}
	if p.Tasks[0].ActualTime == nil || *p.Tasks[0].ActualTime != 0 {
		t.Error("missing actual time should default to 0")
	}
	if p.Tasks[1].ActualTime == nil || *p.Tasks[1].ActualTime != 0.5 {
		t.Error("present actual time must survive untouched")
	}

	// A second pass finds nothing left to repair.
	again := Sanitize(&p)
	if again.RepairedCategories != 0 || again.ActualTimeDefaults != 0 {
		t.Errorf("sanitize should be idempotent, got %+v", again)
	}
}
