package store

import "weekboard/models"

// BoardStore defines the persistence contract for the weekly board: the
// active task collection, the archive, the saved templates, and the board
// settings. Implementations are synchronous; every method runs to completion
// against the backing document.
type BoardStore interface {
	// Initialize configures the store with backend-specific settings such
	// as file path and data format. It must be called before any other
	// operation and runs any pending schema migration.
	Initialize(config map[string]string) error

	// CreateTask adds a new task, assigning an ID when none is set. The
	// task is normalized and validated before it is persisted.
	CreateTask(task models.Task) (models.Task, error)

	// GetTask retrieves a task by ID.
	GetTask(id string) (models.Task, error)

	// UpdateTask applies the given field updates to a task. The updates
	// map uses the wire field names (name, estimated_time, assigned_date,
	// ...).
	UpdateTask(id string, updates map[string]interface{}) (models.Task, error)

	// DeleteTask removes a task permanently.
	DeleteTask(id string) error

	// ToggleComplete flips a task's completion flag.
	ToggleComplete(id string) (models.Task, error)

	// MoveTask reschedules a task; a nil date unschedules it.
	MoveTask(id string, date *string) (models.Task, error)

	// ListTasks retrieves tasks, optionally filtered and sorted.
	ListTasks(filterFn func(models.Task) bool, sortFn func([]models.Task)) ([]models.Task, error)

	// AppendTasks adds a batch of already-built tasks (recurrence
	// generation output) and returns how many were stored.
	AppendTasks(tasks []models.Task) (int, error)

	// ArchiveTask moves a task from the active collection into the
	// archive; a task is never in both.
	ArchiveTask(id string) (models.ArchivedTask, error)

	// ListArchive returns the archived tasks.
	ListArchive() ([]models.ArchivedTask, error)

	// GetSettings returns the board settings, normalized.
	GetSettings() (models.Settings, error)

	// PutSettings replaces the board settings.
	PutSettings(settings models.Settings) error

	// SaveTemplate stores a reusable task template.
	SaveTemplate(tpl models.Template) (models.Template, error)

	// ListTemplates returns the saved templates.
	ListTemplates() ([]models.Template, error)

	// InstantiateTemplate stamps a new task out of the named template,
	// bumping its usage count.
	InstantiateTemplate(name string, assignedDate *string) (models.Task, error)

	// ReplaceBoard swaps tasks, archive, and settings wholesale. Import
	// uses this; it never merges with the existing collections.
	ReplaceBoard(tasks []models.Task, archive []models.ArchivedTask, settings models.Settings) error

	// MigrationHistory returns the applied schema migrations.
	MigrationHistory() ([]MigrationRecord, error)

	// Backup copies the current board document to the destination path.
	Backup(destinationPath string) error

	// Restore replaces the board document with the file at sourcePath.
	Restore(sourcePath string) error

	// Close releases any resources held by the store, such as file locks.
	Close() error
}
