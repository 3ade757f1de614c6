package stats

import (
	"testing"
	"time"

	"weekboard/internal/dateutil"
	"weekboard/models"
)

func scheduledTask(t *testing.T, date string, est float64, completed bool) models.Task {
	t.Helper()
	task := models.NewTask("t-" + date)
	task.EstimatedTime = models.Float(est)
	task.AssignedDate = models.String(date)
	task.Completed = completed
	return task
}

func TestWeeklyCompletion(t *testing.T) {
	weekOf, err := dateutil.Parse("2024-01-03")
	if err != nil {
		t.Fatal(err)
	}

	tasks := []models.Task{
		scheduledTask(t, "2024-01-01", 1, true),
		scheduledTask(t, "2024-01-02", 1, true),
		scheduledTask(t, "2024-01-07", 1, false), // Sunday still in the week
		scheduledTask(t, "2024-01-08", 1, true),  // next week, excluded
		models.NewTask("unscheduled"),            // excluded
	}

	rate := WeeklyCompletion(tasks, nil, weekOf)
	if !rate.Valid {
		t.Fatalf("unexpected error: %s", rate.Err)
	}
	if rate.Total != 3 || rate.Completed != 2 {
		t.Fatalf("completed/total = %d/%d, want 2/3", rate.Completed, rate.Total)
	}
	if rate.Rate != 66.67 {
		t.Errorf("rate = %v, want 66.67", rate.Rate)
	}
}

func TestWeeklyCompletionCountsArchiveAsCompleted(t *testing.T) {
	weekOf, _ := dateutil.Parse("2024-01-01")

	pending := scheduledTask(t, "2024-01-01", 1, false)
	archived := models.NewArchivedTask(scheduledTask(t, "2024-01-02", 1, false), time.Now())

	rate := WeeklyCompletion([]models.Task{pending}, []models.ArchivedTask{archived}, weekOf)
	if rate.Total != 2 || rate.Completed != 1 {
		t.Errorf("completed/total = %d/%d, want 1/2", rate.Completed, rate.Total)
	}
}

func TestWeeklyCompletionZeroReference(t *testing.T) {
	rate := WeeklyCompletion(nil, nil, time.Time{})
	if rate.Valid {
		t.Error("zero reference date should be invalid")
	}
	if rate.Err == "" {
		t.Error("invalid result should carry an error message")
	}
}

func TestWeeklyCompletionEmptyWeek(t *testing.T) {
	weekOf, _ := dateutil.Parse("2024-01-01")
	rate := WeeklyCompletion(nil, nil, weekOf)
	if !rate.Valid || rate.Total != 0 || rate.Rate != 0 {
		t.Errorf("empty week should be valid with zero rate, got %+v", rate)
	}
}

func TestTimeByCategory(t *testing.T) {
	a := scheduledTask(t, "2024-01-01", 1.25, false)
	a.Category = models.CategoryMeeting
	b := scheduledTask(t, "2024-01-02", 2.5, false)
	b.Category = models.CategoryMeeting
	c := scheduledTask(t, "2024-01-03", 4, false)
	c.Category = models.CategoryBugfix

	got := TimeByCategory([]models.Task{a, b, c})
	if got[models.CategoryMeeting] != 3.75 {
		t.Errorf("meeting = %v, want 3.75", got[models.CategoryMeeting])
	}
	if got[models.CategoryBugfix] != 4 {
		t.Errorf("bugfix = %v, want 4", got[models.CategoryBugfix])
	}
	if len(TimeByCategory(nil)) != 0 {
		t.Error("empty input should yield an empty map")
	}
}

func TestTimeByDate(t *testing.T) {
	tasks := []models.Task{
		scheduledTask(t, "2024-01-01", 1, false),
		scheduledTask(t, "2024-01-01", 2, false),
		scheduledTask(t, "2024-01-02", 3, false),
		models.NewTask("unscheduled"),
	}
	got := TimeByDate(tasks)
	if len(got) != 2 {
		t.Fatalf("expected 2 dates, got %v", got)
	}
	if got["2024-01-01"] != 3 || got["2024-01-02"] != 3 {
		t.Errorf("sums = %v", got)
	}
}

func TestSeverity(t *testing.T) {
	tests := []struct {
		name      string
		estimated float64
		actual    float64
		want      OverrunSeverity
	}{
		{"under estimate", 100, 80, SeverityNone},
		{"exactly on estimate", 100, 100, SeverityNone},
		{"zero actual", 100, 0, SeverityNone},
		{"boundary 25 percent", 100, 125, SeverityMinor},
		{"just over 25 percent", 100, 125.1, SeverityModerate},
		{"boundary 50 percent", 100, 150, SeverityModerate},
		{"just over 50 percent", 100, 150.1, SeveritySevere},
		{"zero estimate with positive actual", 0, 1, SeveritySevere},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Severity(tt.estimated, tt.actual); got != tt.want {
				t.Errorf("Severity(%v, %v) = %q, want %q", tt.estimated, tt.actual, got, tt.want)
			}
		})
	}
}

func TestVariancesExcludesMissingActual(t *testing.T) {
	recorded := models.NewTask("recorded")
	recorded.EstimatedTime = models.Float(2)
	recorded.ActualTime = models.Float(3)

	unrecorded := models.NewTask("unrecorded")
	unrecorded.EstimatedTime = models.Float(2)
	unrecorded.ActualTime = nil

	got := Variances([]models.Task{recorded, unrecorded})
	if len(got) != 1 {
		t.Fatalf("expected 1 variance, got %d", len(got))
	}
	v := got[0]
	if v.Variance != 1 {
		t.Errorf("variance = %v, want 1", v.Variance)
	}
	if v.Severity != SeverityModerate {
		t.Errorf("severity = %q, want moderate", v.Severity)
	}
}

func TestOverruns(t *testing.T) {
	over := models.NewTask("over")
	over.EstimatedTime = models.Float(2)
	over.ActualTime = models.Float(2.4)

	under := models.NewTask("under")
	under.EstimatedTime = models.Float(2)
	under.ActualTime = models.Float(1)

	got := Overruns([]models.Task{over, under})
	if len(got) != 1 {
		t.Fatalf("expected 1 overrun, got %d", len(got))
	}
	if got[0].Name != "over" {
		t.Errorf("wrong task: %s", got[0].Name)
	}
	if got[0].Severity != SeverityMinor {
		t.Errorf("severity = %q, want minor", got[0].Severity)
	}
}
