package store

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"weekboard/models"
)

func newTestStore(t *testing.T) (*FileBoardStore, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	s := NewFileBoardStoreWithFs(fsys)
	err := s.Initialize(map[string]string{
		"dataFile":       "board.json",
		"dataFileFormat": "json",
	})
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return s, fsys
}

func TestInitializeCreatesFiles(t *testing.T) {
	_, fsys := newTestStore(t)

	for _, path := range []string{"board.json", "board.json.checksum"} {
		if _, err := fsys.Stat(path); err != nil {
			t.Errorf("expected %s to exist: %v", path, err)
		}
	}
}

func TestInitializeRejectsUnknownFormat(t *testing.T) {
	s := NewFileBoardStoreWithFs(afero.NewMemMapFs())
	err := s.Initialize(map[string]string{"dataFileFormat": "xml"})
	if err == nil {
		t.Fatal("unsupported format should be rejected")
	}
}

func TestCreateAndGetTask(t *testing.T) {
	s, _ := newTestStore(t)

	task := models.NewTask("write tests")
	task.EstimatedTime = models.Float(1.5)

	created, err := s.CreateTask(task)
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("created task must have an ID")
	}

	got, err := s.GetTask(created.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got.Name != "write tests" || got.EstimatedHours() != 1.5 {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestCreateTaskRepairsTimes(t *testing.T) {
	s, _ := newTestStore(t)

	task := models.NewTask("sloppy")
	task.EstimatedTime = models.Float(-4)
	task.ActualTime = nil

	created, err := s.CreateTask(task)
	if err != nil {
		t.Fatalf("CreateTask should repair, not reject: %v", err)
	}
	if created.EstimatedHours() != 0 || created.ActualHours() != 0 {
		t.Errorf("times = %v/%v, want 0/0", created.EstimatedHours(), created.ActualHours())
	}
}

func TestCreateTaskRejectsDuplicateID(t *testing.T) {
	s, _ := newTestStore(t)

	task := models.NewTask("first")
	created, err := s.CreateTask(task)
	if err != nil {
		t.Fatal(err)
	}
	dup := models.NewTask("second")
	dup.ID = created.ID
	if _, err := s.CreateTask(dup); err == nil {
		t.Error("duplicate ID should be rejected")
	}
}

func TestUpdateTask(t *testing.T) {
	s, _ := newTestStore(t)

	created, err := s.CreateTask(models.NewTask("original"))
	if err != nil {
		t.Fatal(err)
	}

	updated, err := s.UpdateTask(created.ID, map[string]interface{}{
		"name":           "renamed",
		"estimated_time": 3.0,
		"priority":       "high",
		"category":       "review",
		"assigned_date":  "2024-05-06",
	})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if updated.Name != "renamed" || updated.EstimatedHours() != 3 {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.Priority != models.PriorityHigh || updated.Category != models.CategoryReview {
		t.Errorf("enum updates not applied: %+v", updated)
	}
	if !updated.Scheduled() || *updated.AssignedDate != "2024-05-06" {
		t.Error("assigned date not applied")
	}

	if _, err := s.UpdateTask(created.ID, map[string]interface{}{"favorite_color": "blue"}); err == nil {
		t.Error("unknown field should be rejected")
	}
	if _, err := s.UpdateTask("missing-id", map[string]interface{}{"name": "x"}); err == nil {
		t.Error("unknown task should be rejected")
	}
}

func TestToggleCompleteAndMove(t *testing.T) {
	s, _ := newTestStore(t)

	created, err := s.CreateTask(models.NewTask("flip me"))
	if err != nil {
		t.Fatal(err)
	}

	toggled, err := s.ToggleComplete(created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !toggled.Completed {
		t.Error("first toggle should complete the task")
	}
	toggled, err = s.ToggleComplete(created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if toggled.Completed {
		t.Error("second toggle should uncomplete the task")
	}

	date := "2024-05-07"
	moved, err := s.MoveTask(created.ID, &date)
	if err != nil {
		t.Fatal(err)
	}
	if !moved.Scheduled() || *moved.AssignedDate != date {
		t.Error("move did not set the date")
	}

	moved, err = s.MoveTask(created.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if moved.Scheduled() {
		t.Error("nil move should unschedule")
	}
}

func TestListTasksFilterAndSort(t *testing.T) {
	s, _ := newTestStore(t)

	for _, name := range []string{"b", "a", "c"} {
		task := models.NewTask(name)
		if name != "c" {
			task.Category = models.CategoryMeeting
		}
		if _, err := s.CreateTask(task); err != nil {
			t.Fatal(err)
		}
	}

	meetings, err := s.ListTasks(func(t models.Task) bool {
		return t.Category == models.CategoryMeeting
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(meetings) != 2 {
		t.Errorf("filter returned %d tasks, want 2", len(meetings))
	}

	all, err := s.ListTasks(nil, func(tasks []models.Task) {
		for i := 0; i < len(tasks); i++ {
			for j := i + 1; j < len(tasks); j++ {
				if tasks[j].Name < tasks[i].Name {
					tasks[i], tasks[j] = tasks[j], tasks[i]
				}
			}
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	if all[0].Name != "a" || all[2].Name != "c" {
		t.Errorf("sort not applied: %v", []string{all[0].Name, all[1].Name, all[2].Name})
	}
}

func TestAppendTasksSkipsDuplicates(t *testing.T) {
	s, _ := newTestStore(t)

	existing, err := s.CreateTask(models.NewTask("already here"))
	if err != nil {
		t.Fatal(err)
	}

	batch := []models.Task{models.NewTask("new one"), existing, models.NewTask("another")}
	n, err := s.AppendTasks(batch)
	if err != nil {
		t.Fatalf("AppendTasks failed: %v", err)
	}
	if n != 2 {
		t.Errorf("appended %d, want 2", n)
	}

	all, _ := s.ListTasks(nil, nil)
	if len(all) != 3 {
		t.Errorf("board has %d tasks, want 3", len(all))
	}
}

func TestArchiveTask(t *testing.T) {
	s, _ := newTestStore(t)

	created, err := s.CreateTask(models.NewTask("finish me"))
	if err != nil {
		t.Fatal(err)
	}

	archived, err := s.ArchiveTask(created.ID)
	if err != nil {
		t.Fatalf("ArchiveTask failed: %v", err)
	}
	if archived.ID != created.ID {
		t.Error("archived task should keep its ID")
	}
	if archived.ArchivedDate == "" {
		t.Error("archival must stamp a date")
	}

	if _, err := s.GetTask(created.ID); err == nil {
		t.Error("archived task must leave the active collection")
	}
	list, err := s.ListArchive()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("archive has %d entries, want 1", len(list))
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)

	settings, err := s.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	if settings.IdealDailyMinutes != models.DefaultIdealDailyMinutes {
		t.Errorf("fresh board should carry default settings, got %d", settings.IdealDailyMinutes)
	}

	settings.IdealDailyMinutes = 360
	settings.WeekdayVisibility["sunday"] = false
	if err := s.PutSettings(settings); err != nil {
		t.Fatal(err)
	}

	back, err := s.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	if back.IdealDailyMinutes != 360 || back.Visible("sunday") {
		t.Errorf("settings did not round trip: %+v", back)
	}
}

func TestTemplates(t *testing.T) {
	s, _ := newTestStore(t)

	base := models.NewTask("weekly review")
	base.Category = models.CategoryReview
	base.EstimatedTime = models.Float(1)

	tpl := models.Template{Name: "review", BaseTask: base}
	saved, err := s.SaveTemplate(tpl)
	if err != nil {
		t.Fatalf("SaveTemplate failed: %v", err)
	}
	if saved.ID == "" || saved.CreatedDate == "" {
		t.Error("save should fill in ID and created date")
	}

	date := "2024-05-06"
	task, err := s.InstantiateTemplate("review", &date)
	if err != nil {
		t.Fatalf("InstantiateTemplate failed: %v", err)
	}
	if task.Name != "weekly review" || *task.AssignedDate != date {
		t.Errorf("instantiated task mismatch: %+v", task)
	}

	templates, err := s.ListTemplates()
	if err != nil {
		t.Fatal(err)
	}
	if len(templates) != 1 || templates[0].UsageCount != 1 {
		t.Errorf("usage count should persist, got %+v", templates)
	}

	if _, err := s.InstantiateTemplate("nonexistent", nil); err == nil {
		t.Error("unknown template should be rejected")
	}
}

func TestReplaceBoard(t *testing.T) {
	s, _ := newTestStore(t)

	if _, err := s.CreateTask(models.NewTask("doomed")); err != nil {
		t.Fatal(err)
	}

	incoming := models.NewTask("imported")
	if err := s.ReplaceBoard([]models.Task{incoming}, nil, models.DefaultSettings()); err != nil {
		t.Fatalf("ReplaceBoard failed: %v", err)
	}

	all, err := s.ListTasks(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].Name != "imported" {
		t.Errorf("replace should discard existing tasks, got %+v", all)
	}
	archive, _ := s.ListArchive()
	if len(archive) != 0 {
		t.Error("nil archive should replace with empty")
	}
}

func TestChecksumDetectsTampering(t *testing.T) {
	s, fsys := newTestStore(t)

	if _, err := s.CreateTask(models.NewTask("sensitive")); err != nil {
		t.Fatal(err)
	}

	data, err := afero.ReadFile(fsys, "board.json")
	if err != nil {
		t.Fatal(err)
	}
	tampered := strings.Replace(string(data), "sensitive", "tampered!", 1)
	if err := afero.WriteFile(fsys, "board.json", []byte(tampered), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := s.ListTasks(nil, nil); err == nil {
		t.Error("tampered file should fail the checksum verification")
	}
}

func TestBackupAndRestore(t *testing.T) {
	s, fsys := newTestStore(t)

	if _, err := s.CreateTask(models.NewTask("keep me")); err != nil {
		t.Fatal(err)
	}
	if err := s.Backup("board.bak"); err != nil {
		t.Fatalf("Backup failed: %v", err)
	}
	if _, err := fsys.Stat("board.bak"); err != nil {
		t.Fatal("backup file missing")
	}

	if _, err := s.CreateTask(models.NewTask("transient")); err != nil {
		t.Fatal(err)
	}
	if err := s.Restore("board.bak"); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	all, err := s.ListTasks(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].Name != "keep me" {
		t.Errorf("restore should roll back to the backup state, got %+v", all)
	}
}

func TestYAMLFormatRoundTrip(t *testing.T) {
	fsys := afero.NewMemMapFs()
	s := NewFileBoardStoreWithFs(fsys)
	err := s.Initialize(map[string]string{
		"dataFile":       "board.yaml",
		"dataFileFormat": "yaml",
	})
	if err != nil {
		t.Fatal(err)
	}

	created, err := s.CreateTask(models.NewTask("yaml task"))
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.GetTask(created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "yaml task" {
		t.Errorf("yaml round trip mismatch: %+v", got)
	}
}

func TestMigrationFromVersion1(t *testing.T) {
	fsys := afero.NewMemMapFs()

	// A version 1 document: no actual_time on any record, no explicit
	// schema version marker.
	v1 := map[string]any{
		"schemaVersion": 1,
		"tasks": []map[string]any{
			{"id": "t1", "name": "legacy", "category": "task", "priority": "medium", "estimated_time": 2.0},
		},
		"archive": []map[string]any{
			{"id": "a1", "name": "old", "category": "task", "priority": "low", "archived_date": "2023-12-01T00:00:00Z"},
		},
	}
	raw, err := json.Marshal(v1)
	if err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fsys, "board.json", raw, 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewFileBoardStoreWithFs(fsys)
	err = s.Initialize(map[string]string{"dataFile": "board.json", "dataFileFormat": "json"})
	if err != nil {
		t.Fatalf("Initialize with migration failed: %v", err)
	}

	task, err := s.GetTask("t1")
	if err != nil {
		t.Fatal(err)
	}
	if task.ActualTime == nil || *task.ActualTime != 0 {
		t.Error("migration should default actual_time to 0 on tasks")
	}
	archive, err := s.ListArchive()
	if err != nil {
		t.Fatal(err)
	}
	if archive[0].ActualTime == nil || *archive[0].ActualTime != 0 {
		t.Error("migration should default actual_time to 0 on archived tasks")
	}

	history, err := s.MigrationHistory()
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].Version != currentSchemaVersion {
		t.Fatalf("expected one migration record at version %d, got %+v", currentSchemaVersion, history)
	}

	// A timestamped copy of the pre-migration bytes must sit next to the
	// data file.
	entries, err := afero.ReadDir(fsys, ".")
	if err != nil {
		t.Fatal(err)
	}
	foundBackup := false
	for _, e := range entries {
		if strings.HasPrefix(filepath.Base(e.Name()), "board.json.backup-") {
			foundBackup = true
			backup, err := afero.ReadFile(fsys, e.Name())
			if err != nil {
				t.Fatal(err)
			}
			if string(backup) != string(raw) {
				t.Error("backup must contain the untouched pre-migration bytes")
			}
		}
	}
	if !foundBackup {
		t.Error("pre-migration backup file missing")
	}

	// Re-initializing must not migrate again.
	s2 := NewFileBoardStoreWithFs(fsys)
	if err := s2.Initialize(map[string]string{"dataFile": "board.json", "dataFileFormat": "json"}); err != nil {
		t.Fatal(err)
	}
	history, _ = s2.MigrationHistory()
	if len(history) != 1 {
		t.Errorf("migration ran twice: %+v", history)
	}
}
