package store

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v3"

	"weekboard/models"
	"weekboard/validation"
)

const (
	defaultDataFile   = "board.json"
	dataFileKey       = "dataFile"
	dataFileFormatKey = "dataFileFormat"
	defaultDataFormat = "json"
	formatJSON        = "json"
	formatYAML        = "yaml"
	formatTOML        = "toml"
	checksumSuffix    = ".checksum"
)

// boardFile is the single persisted document: active tasks, archive,
// templates, settings, and the schema bookkeeping.
type boardFile struct {
	SchemaVersion int                   `json:"schemaVersion" yaml:"schemaVersion" toml:"schemaVersion"`
	Tasks         []models.Task         `json:"tasks" yaml:"tasks" toml:"tasks"`
	Archive       []models.ArchivedTask `json:"archive" yaml:"archive" toml:"archive"`
	Templates     []models.Template     `json:"templates" yaml:"templates" toml:"templates"`
	Settings      models.Settings       `json:"settings" yaml:"settings" toml:"settings"`
	Migrations    []MigrationRecord     `json:"migrations,omitempty" yaml:"migrations,omitempty" toml:"migrations,omitempty"`
}

func emptyBoard() boardFile {
	return boardFile{
		SchemaVersion: currentSchemaVersion,
		Tasks:         []models.Task{},
		Archive:       []models.ArchivedTask{},
		Templates:     []models.Template{},
		Settings:      models.DefaultSettings(),
	}
}

// FileBoardStore implements BoardStore with a single file backend. It
// supports JSON, YAML, and TOML formats, guards the file with an advisory
// lock, and verifies a checksum sidecar on every load.
type FileBoardStore struct {
	fs       afero.Fs
	filePath string
	format   string
	flk      *flock.Flock
	board    boardFile
}

// NewFileBoardStore creates a store over the real filesystem. Initialize
// must be called separately.
func NewFileBoardStore() *FileBoardStore {
	return NewFileBoardStoreWithFs(afero.NewOsFs())
}

// NewFileBoardStoreWithFs creates a store over an arbitrary afero
// filesystem. File locking is only available on the OS filesystem; other
// backends run lockless.
func NewFileBoardStoreWithFs(fsys afero.Fs) *FileBoardStore {
	return &FileBoardStore{fs: fsys, board: emptyBoard()}
}

// Initialize configures the store from a config map ('dataFile',
// 'dataFileFormat'), loads the board document, and applies any pending
// schema migration.
func (s *FileBoardStore) Initialize(config map[string]string) error {
	if val, ok := config[dataFileKey]; ok && val != "" {
		s.filePath = val
	} else {
		s.filePath = defaultDataFile
	}

	if val, ok := config[dataFileFormatKey]; ok && val != "" {
		formatLower := strings.ToLower(val)
		switch formatLower {
		case formatJSON, formatYAML, formatTOML:
			s.format = formatLower
		default:
			return fmt.Errorf("unsupported dataFileFormat: %s. Supported formats are json, yaml, toml", val)
		}
	} else {
		s.format = defaultDataFormat
	}

	if s.filePath == defaultDataFile && s.format != formatJSON {
		ext := filepath.Ext(s.filePath)
		s.filePath = strings.TrimSuffix(s.filePath, ext) + "." + s.format
	}

	dir := filepath.Dir(s.filePath)
	if dir != "." && dir != "" {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if _, isOs := s.fs.(*afero.OsFs); isOs {
		s.flk = flock.New(s.filePath)
	}

	if err := s.lock(); err != nil {
		return fmt.Errorf("failed to acquire initial lock for %s: %w", s.filePath, err)
	}
	defer s.unlock()

	raw, err := s.loadBoardInternal()
	if err != nil {
		return err
	}
	migrated, err := s.migrateInternal(raw)
	if err != nil {
		return err
	}
	if migrated {
		return s.saveBoardInternal()
	}
	return nil
}

func (s *FileBoardStore) lock() error {
	if s.flk == nil {
		return nil
	}
	return s.flk.Lock()
}

func (s *FileBoardStore) unlock() {
	if s.flk != nil {
		_ = s.flk.Unlock()
	}
}

// calculateChecksum computes the SHA256 checksum of the given data.
func calculateChecksum(data []byte) string {
	hasher := sha256.New()
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil))
}

// loadBoardInternal reads the board document, verifies the checksum sidecar,
// and unmarshals. It returns the raw bytes so the migration step can write a
// pre-migration backup. Assumes the lock is held.
func (s *FileBoardStore) loadBoardInternal() ([]byte, error) {
	checksumFilePath := s.filePath + checksumSuffix

	data, err := afero.ReadFile(s.fs, s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, os.ErrNotExist) {
			s.board = emptyBoard()
			_ = s.fs.Remove(checksumFilePath)
			if err := afero.WriteFile(s.fs, s.filePath, []byte{}, 0o644); err != nil {
				return nil, fmt.Errorf("failed to create data file %s: %w", s.filePath, err)
			}
			if err := afero.WriteFile(s.fs, checksumFilePath, []byte(calculateChecksum([]byte{})), 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not write initial checksum file %s: %v\n", checksumFilePath, err)
			}
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read data file %s: %w", s.filePath, err)
	}

	if _, err := s.fs.Stat(checksumFilePath); err == nil {
		expectedBytes, readErr := afero.ReadFile(s.fs, checksumFilePath)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read checksum file %s: %w - data file might be corrupt or tampered", checksumFilePath, readErr)
		}
		expected := strings.TrimSpace(string(expectedBytes))
		actual := calculateChecksum(data)
		if actual != expected {
			return nil, fmt.Errorf("checksum mismatch for %s - expected %s, got %s - file is corrupt or tampered", s.filePath, expected, actual)
		}
	} else if !errors.Is(err, fs.ErrNotExist) && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error checking checksum file %s: %w", checksumFilePath, err)
	}

	if len(data) == 0 {
		_ = afero.WriteFile(s.fs, checksumFilePath, []byte(calculateChecksum([]byte{})), 0o644)
		s.board = emptyBoard()
		return nil, nil
	}

	var board boardFile
	switch s.format {
	case formatJSON:
		if err := json.Unmarshal(data, &board); err != nil {
			return nil, fmt.Errorf("failed to unmarshal JSON from %s (checksum may have passed): %w", s.filePath, err)
		}
	case formatYAML:
		if err := yaml.Unmarshal(data, &board); err != nil {
			return nil, fmt.Errorf("failed to unmarshal YAML from %s (checksum may have passed): %w", s.filePath, err)
		}
	case formatTOML:
		if err := toml.Unmarshal(data, &board); err != nil {
			return nil, fmt.Errorf("failed to unmarshal TOML from %s (checksum may have passed): %w", s.filePath, err)
		}
	default:
		return nil, fmt.Errorf("unsupported data format for loading: %s", s.format)
	}

	if board.Tasks == nil {
		board.Tasks = []models.Task{}
	}
	if board.Archive == nil {
		board.Archive = []models.ArchivedTask{}
	}
	if board.Templates == nil {
		board.Templates = []models.Template{}
	}
	board.Settings.Normalize()
	s.board = board
	return data, nil
}

// saveBoardInternal writes the board document atomically, then its checksum.
// Assumes the lock is held.
func (s *FileBoardStore) saveBoardInternal() error {
	var marshaled []byte
	var err error

	switch s.format {
	case formatJSON:
		marshaled, err = json.MarshalIndent(s.board, "", "  ")
	case formatYAML:
		marshaled, err = yaml.Marshal(s.board)
	case formatTOML:
		buf := new(bytes.Buffer)
		if encodeErr := toml.NewEncoder(buf).Encode(s.board); encodeErr == nil {
			marshaled = buf.Bytes()
		} else {
			err = fmt.Errorf("failed to marshal TOML: %w", encodeErr)
		}
	default:
		return fmt.Errorf("unsupported data format for saving: %s", s.format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal board to %s: %w", s.format, err)
	}

	tempFilePath := s.filePath + ".tmp"
	checksumFilePath := s.filePath + checksumSuffix
	tempChecksumFilePath := checksumFilePath + ".tmp"

	defer func() { _ = s.fs.Remove(tempFilePath) }()
	defer func() { _ = s.fs.Remove(tempChecksumFilePath) }()

	if err := afero.WriteFile(s.fs, tempFilePath, marshaled, 0o644); err != nil {
		return fmt.Errorf("failed to write to temporary data file %s: %w", tempFilePath, err)
	}
	if err := afero.WriteFile(s.fs, tempChecksumFilePath, []byte(calculateChecksum(marshaled)), 0o644); err != nil {
		return fmt.Errorf("failed to write to temporary checksum file %s: %w", tempChecksumFilePath, err)
	}

	if err := s.fs.Rename(tempFilePath, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temporary data file %s to %s: %w", tempFilePath, s.filePath, err)
	}
	if err := s.fs.Rename(tempChecksumFilePath, checksumFilePath); err != nil {
		return fmt.Errorf("data file %s updated, but failed to update checksum file %s: %w - store may be inconsistent", s.filePath, checksumFilePath, err)
	}
	return nil
}

// reload refreshes in-memory state from disk. Assumes the lock is held.
func (s *FileBoardStore) reload() error {
	_, err := s.loadBoardInternal()
	return err
}

func generateID() string {
	return uuid.NewString()
}

// validateForSave normalizes a task, repairs its time fields, and runs the
// struct validation. The returned check carries any coercion errors for
// caller-visible reporting.
func validateForSave(task *models.Task) (validation.TimeCheck, error) {
	task.Normalize()
	check := validation.CheckTaskTimes(task)
	if err := models.ValidateStruct(*task); err != nil {
		return check, err
	}
	return check, nil
}

// CreateTask adds a new task to the board.
func (s *FileBoardStore) CreateTask(task models.Task) (models.Task, error) {
	if err := s.lock(); err != nil {
		return models.Task{}, fmt.Errorf("could not lock file for create: %w", err)
	}
	defer s.unlock()

	if err := s.reload(); err != nil {
		return models.Task{}, fmt.Errorf("failed to reload board before create: %w", err)
	}

	if task.ID == "" {
		task.ID = generateID()
	} else if s.taskIndex(task.ID) >= 0 {
		return models.Task{}, fmt.Errorf("task with ID '%s' already exists", task.ID)
	}

	if _, err := validateForSave(&task); err != nil {
		return models.Task{}, fmt.Errorf("validation failed for new task: %w", err)
	}

	s.board.Tasks = append(s.board.Tasks, task)
	if err := s.saveBoardInternal(); err != nil {
		_ = s.reload()
		return models.Task{}, fmt.Errorf("failed to save new task: %w", err)
	}
	return task, nil
}

func (s *FileBoardStore) taskIndex(id string) int {
	for i := range s.board.Tasks {
		if s.board.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// GetTask retrieves a task by its unique identifier.
func (s *FileBoardStore) GetTask(id string) (models.Task, error) {
	if err := s.lock(); err != nil {
		return models.Task{}, fmt.Errorf("failed to acquire lock for GetTask: %w", err)
	}
	defer s.unlock()

	if err := s.reload(); err != nil {
		return models.Task{}, fmt.Errorf("failed to load board for GetTask: %w", err)
	}
	if i := s.taskIndex(id); i >= 0 {
		return s.board.Tasks[i], nil
	}
	return models.Task{}, fmt.Errorf("task with ID %s not found", id)
}

// UpdateTask applies wire-named field updates to a task.
func (s *FileBoardStore) UpdateTask(id string, updates map[string]interface{}) (models.Task, error) {
	if err := s.lock(); err != nil {
		return models.Task{}, fmt.Errorf("could not lock file for update: %w", err)
	}
	defer s.unlock()

	if err := s.reload(); err != nil {
		return models.Task{}, fmt.Errorf("failed to reload board before update: %w", err)
	}

	i := s.taskIndex(id)
	if i < 0 {
		return models.Task{}, fmt.Errorf("task with ID '%s' not found", id)
	}
	task := s.board.Tasks[i]
	original := task

	for key, value := range updates {
		if err := applyTaskUpdate(&task, key, value); err != nil {
			return models.Task{}, err
		}
	}

	if _, err := validateForSave(&task); err != nil {
		return models.Task{}, fmt.Errorf("validation failed for updated task: %w", err)
	}

	s.board.Tasks[i] = task
	if err := s.saveBoardInternal(); err != nil {
		s.board.Tasks[i] = original
		return models.Task{}, fmt.Errorf("failed to save updated task: %w", err)
	}
	return task, nil
}

// applyTaskUpdate sets one wire-named field. Nil clears nullable fields.
func applyTaskUpdate(task *models.Task, key string, value interface{}) error {
	switch key {
	case "name":
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("invalid type for name; must be a string")
		}
		task.Name = str
	case "estimated_time":
		v, err := toHours(key, value)
		if err != nil {
			return err
		}
		task.EstimatedTime = v
	case "actual_time":
		v, err := toHours(key, value)
		if err != nil {
			return err
		}
		task.ActualTime = v
	case "priority":
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("invalid type for priority; must be a string")
		}
		task.Priority = models.TaskPriority(str)
	case "category":
		task.Category = models.NormalizeCategory(value)
	case "assigned_date":
		v, err := toNullableString(key, value)
		if err != nil {
			return err
		}
		task.AssignedDate = v
	case "due_date":
		v, err := toNullableString(key, value)
		if err != nil {
			return err
		}
		task.DueDate = v
	case "details":
		v, err := toNullableString(key, value)
		if err != nil {
			return err
		}
		task.Details = v
	case "completed":
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("invalid type for completed; must be a bool")
		}
		task.Completed = b
	case "is_recurring":
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("invalid type for is_recurring; must be a bool")
		}
		task.IsRecurring = b
	case "recurrence_pattern":
		v, err := toNullableString(key, value)
		if err != nil {
			return err
		}
		if v == nil {
			task.RecurrencePattern = nil
		} else {
			p := models.RecurrencePattern(*v)
			task.RecurrencePattern = &p
		}
	case "recurrence_end_date":
		v, err := toNullableString(key, value)
		if err != nil {
			return err
		}
		task.RecurrenceEndDate = v
	default:
		return fmt.Errorf("unknown task field %q", key)
	}
	return nil
}

func toHours(field string, value interface{}) (*float64, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case float64:
		return &v, nil
	case int:
		f := float64(v)
		return &f, nil
	}
	return nil, fmt.Errorf("invalid type for %s; must be a number or nil", field)
}

func toNullableString(field string, value interface{}) (*string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return &v, nil
	}
	return nil, fmt.Errorf("invalid type for %s; must be a string or nil", field)
}

// DeleteTask removes a task permanently.
func (s *FileBoardStore) DeleteTask(id string) error {
	if err := s.lock(); err != nil {
		return fmt.Errorf("could not lock file for delete: %w", err)
	}
	defer s.unlock()

	if err := s.reload(); err != nil {
		return fmt.Errorf("failed to reload board before delete: %w", err)
	}
	i := s.taskIndex(id)
	if i < 0 {
		return fmt.Errorf("task with ID '%s' not found", id)
	}
	s.board.Tasks = append(s.board.Tasks[:i], s.board.Tasks[i+1:]...)
	if err := s.saveBoardInternal(); err != nil {
		_ = s.reload()
		return fmt.Errorf("failed to save after deleting task: %w", err)
	}
	return nil
}

// ToggleComplete flips a task's completion flag.
func (s *FileBoardStore) ToggleComplete(id string) (models.Task, error) {
	if err := s.lock(); err != nil {
		return models.Task{}, fmt.Errorf("failed to acquire lock for ToggleComplete: %w", err)
	}
	defer s.unlock()

	if err := s.reload(); err != nil {
		return models.Task{}, fmt.Errorf("failed to load board before toggling: %w", err)
	}
	i := s.taskIndex(id)
	if i < 0 {
		return models.Task{}, fmt.Errorf("task with ID %s not found", id)
	}
	original := s.board.Tasks[i]
	s.board.Tasks[i].Completed = !s.board.Tasks[i].Completed
	if err := s.saveBoardInternal(); err != nil {
		s.board.Tasks[i] = original
		return models.Task{}, fmt.Errorf("failed to save task %s after toggling: %w", id, err)
	}
	return s.board.Tasks[i], nil
}

// MoveTask reschedules a task; nil unschedules it.
func (s *FileBoardStore) MoveTask(id string, date *string) (models.Task, error) {
	updates := map[string]interface{}{"assigned_date": nil}
	if date != nil {
		updates["assigned_date"] = *date
	}
	return s.UpdateTask(id, updates)
}

// ListTasks retrieves tasks, optionally filtered and sorted in place.
func (s *FileBoardStore) ListTasks(filterFn func(models.Task) bool, sortFn func([]models.Task)) ([]models.Task, error) {
	if err := s.lock(); err != nil {
		return nil, fmt.Errorf("failed to acquire lock for ListTasks: %w", err)
	}
	defer s.unlock()

	if err := s.reload(); err != nil {
		return nil, fmt.Errorf("failed to load board for ListTasks: %w", err)
	}

	out := make([]models.Task, 0, len(s.board.Tasks))
	for _, task := range s.board.Tasks {
		if filterFn == nil || filterFn(task) {
			out = append(out, task)
		}
	}
	if sortFn != nil {
		sortFn(out)
	}
	return out, nil
}

// AppendTasks stores a batch of already-built tasks in order.
func (s *FileBoardStore) AppendTasks(tasks []models.Task) (int, error) {
	if len(tasks) == 0 {
		return 0, nil
	}
	if err := s.lock(); err != nil {
		return 0, fmt.Errorf("could not lock file for batch append: %w", err)
	}
	defer s.unlock()

	if err := s.reload(); err != nil {
		return 0, fmt.Errorf("failed to reload board before batch append: %w", err)
	}

	appended := 0
	for _, task := range tasks {
		if task.ID == "" {
			task.ID = generateID()
		} else if s.taskIndex(task.ID) >= 0 {
			continue
		}
		if _, err := validateForSave(&task); err != nil {
			return 0, fmt.Errorf("validation failed for appended task %q: %w", task.Name, err)
		}
		s.board.Tasks = append(s.board.Tasks, task)
		appended++
	}

	if err := s.saveBoardInternal(); err != nil {
		_ = s.reload()
		return 0, fmt.Errorf("failed to save after batch append: %w", err)
	}
	return appended, nil
}

// ArchiveTask moves a task from the active collection into the archive.
func (s *FileBoardStore) ArchiveTask(id string) (models.ArchivedTask, error) {
	if err := s.lock(); err != nil {
		return models.ArchivedTask{}, fmt.Errorf("could not lock file for archive: %w", err)
	}
	defer s.unlock()

	if err := s.reload(); err != nil {
		return models.ArchivedTask{}, fmt.Errorf("failed to reload board before archive: %w", err)
	}
	i := s.taskIndex(id)
	if i < 0 {
		return models.ArchivedTask{}, fmt.Errorf("task with ID '%s' not found", id)
	}

	archived := models.NewArchivedTask(s.board.Tasks[i], time.Now())
	s.board.Tasks = append(s.board.Tasks[:i], s.board.Tasks[i+1:]...)
	s.board.Archive = append(s.board.Archive, archived)

	if err := s.saveBoardInternal(); err != nil {
		_ = s.reload()
		return models.ArchivedTask{}, fmt.Errorf("failed to save after archiving task: %w", err)
	}
	return archived, nil
}

// ListArchive returns the archived tasks, newest first.
func (s *FileBoardStore) ListArchive() ([]models.ArchivedTask, error) {
	if err := s.lock(); err != nil {
		return nil, fmt.Errorf("failed to acquire lock for ListArchive: %w", err)
	}
	defer s.unlock()

	if err := s.reload(); err != nil {
		return nil, fmt.Errorf("failed to load board for ListArchive: %w", err)
	}
	out := make([]models.ArchivedTask, len(s.board.Archive))
	copy(out, s.board.Archive)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ArchivedDate > out[j].ArchivedDate })
	return out, nil
}

// GetSettings returns the board settings.
func (s *FileBoardStore) GetSettings() (models.Settings, error) {
	if err := s.lock(); err != nil {
		return models.Settings{}, fmt.Errorf("failed to acquire lock for GetSettings: %w", err)
	}
	defer s.unlock()

	if err := s.reload(); err != nil {
		return models.Settings{}, fmt.Errorf("failed to load board for GetSettings: %w", err)
	}
	return s.board.Settings, nil
}

// PutSettings replaces the board settings.
func (s *FileBoardStore) PutSettings(settings models.Settings) error {
	if err := s.lock(); err != nil {
		return fmt.Errorf("failed to acquire lock for PutSettings: %w", err)
	}
	defer s.unlock()

	if err := s.reload(); err != nil {
		return fmt.Errorf("failed to load board for PutSettings: %w", err)
	}
	settings.Normalize()
	if err := models.ValidateStruct(settings); err != nil {
		return fmt.Errorf("validation failed for settings: %w", err)
	}
	s.board.Settings = settings
	return s.saveBoardInternal()
}

// SaveTemplate stores a template, replacing any with the same name.
func (s *FileBoardStore) SaveTemplate(tpl models.Template) (models.Template, error) {
	if err := s.lock(); err != nil {
		return models.Template{}, fmt.Errorf("could not lock file for template save: %w", err)
	}
	defer s.unlock()

	if err := s.reload(); err != nil {
		return models.Template{}, fmt.Errorf("failed to reload board before template save: %w", err)
	}

	if tpl.ID == "" {
		tpl.ID = generateID()
	}
	if tpl.CreatedDate == "" {
		tpl.CreatedDate = time.Now().UTC().Format(time.RFC3339)
	}
	tpl.BaseTask.Normalize()
	if err := models.ValidateStruct(tpl); err != nil {
		return models.Template{}, fmt.Errorf("validation failed for template: %w", err)
	}

	replaced := false
	for i := range s.board.Templates {
		if s.board.Templates[i].Name == tpl.Name {
			s.board.Templates[i] = tpl
			replaced = true
			break
		}
	}
	if !replaced {
		s.board.Templates = append(s.board.Templates, tpl)
	}

	if err := s.saveBoardInternal(); err != nil {
		_ = s.reload()
		return models.Template{}, fmt.Errorf("failed to save template: %w", err)
	}
	return tpl, nil
}

// ListTemplates returns the saved templates.
func (s *FileBoardStore) ListTemplates() ([]models.Template, error) {
	if err := s.lock(); err != nil {
		return nil, fmt.Errorf("failed to acquire lock for ListTemplates: %w", err)
	}
	defer s.unlock()

	if err := s.reload(); err != nil {
		return nil, fmt.Errorf("failed to load board for ListTemplates: %w", err)
	}
	out := make([]models.Template, len(s.board.Templates))
	copy(out, s.board.Templates)
	return out, nil
}

// InstantiateTemplate stamps a new task out of the named template and
// persists both the task and the bumped usage count.
func (s *FileBoardStore) InstantiateTemplate(name string, assignedDate *string) (models.Task, error) {
	if err := s.lock(); err != nil {
		return models.Task{}, fmt.Errorf("could not lock file for template use: %w", err)
	}
	defer s.unlock()

	if err := s.reload(); err != nil {
		return models.Task{}, fmt.Errorf("failed to reload board before template use: %w", err)
	}

	idx := -1
	for i := range s.board.Templates {
		if s.board.Templates[i].Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.Task{}, fmt.Errorf("template %q not found", name)
	}

	task := s.board.Templates[idx].Instantiate(assignedDate)
	if _, err := validateForSave(&task); err != nil {
		return models.Task{}, fmt.Errorf("validation failed for instantiated task: %w", err)
	}
	s.board.Tasks = append(s.board.Tasks, task)

	if err := s.saveBoardInternal(); err != nil {
		_ = s.reload()
		return models.Task{}, fmt.Errorf("failed to save instantiated task: %w", err)
	}
	return task, nil
}

// ReplaceBoard swaps tasks, archive, and settings wholesale. Import uses
// this; existing collections are discarded, never merged.
func (s *FileBoardStore) ReplaceBoard(tasks []models.Task, archive []models.ArchivedTask, settings models.Settings) error {
	if err := s.lock(); err != nil {
		return fmt.Errorf("could not lock file for board replace: %w", err)
	}
	defer s.unlock()

	if err := s.reload(); err != nil {
		return fmt.Errorf("failed to reload board before replace: %w", err)
	}

	if tasks == nil {
		tasks = []models.Task{}
	}
	if archive == nil {
		archive = []models.ArchivedTask{}
	}
	settings.Normalize()

	s.board.Tasks = tasks
	s.board.Archive = archive
	s.board.Settings = settings
	s.board.SchemaVersion = currentSchemaVersion

	if err := s.saveBoardInternal(); err != nil {
		_ = s.reload()
		return fmt.Errorf("failed to save replaced board: %w", err)
	}
	return nil
}

// MigrationHistory returns the applied schema migrations.
func (s *FileBoardStore) MigrationHistory() ([]MigrationRecord, error) {
	if err := s.lock(); err != nil {
		return nil, fmt.Errorf("failed to acquire lock for MigrationHistory: %w", err)
	}
	defer s.unlock()

	if err := s.reload(); err != nil {
		return nil, fmt.Errorf("failed to load board for MigrationHistory: %w", err)
	}
	out := make([]MigrationRecord, len(s.board.Migrations))
	copy(out, s.board.Migrations)
	return out, nil
}

// Backup copies the current board document to the destination path.
func (s *FileBoardStore) Backup(destinationPath string) error {
	if err := s.lock(); err != nil {
		return fmt.Errorf("failed to acquire lock for backup: %w", err)
	}
	defer s.unlock()

	input, err := afero.ReadFile(s.fs, s.filePath)
	if err != nil {
		return fmt.Errorf("failed to read source file %s for backup: %w", s.filePath, err)
	}
	if err = afero.WriteFile(s.fs, destinationPath, input, 0o644); err != nil {
		return fmt.Errorf("failed to write backup file to %s: %w", destinationPath, err)
	}
	return nil
}

// Restore replaces the board document with the file at sourcePath. The
// checksum sidecar is removed; the next save regenerates it.
func (s *FileBoardStore) Restore(sourcePath string) error {
	if err := s.lock(); err != nil {
		return fmt.Errorf("failed to acquire lock for restore: %w", err)
	}
	defer s.unlock()

	sourceData, err := afero.ReadFile(s.fs, sourcePath)
	if err != nil {
		return fmt.Errorf("failed to read source backup file %s: %w", sourcePath, err)
	}

	tempFilePath := s.filePath + ".tmp_restore"
	defer func() { _ = s.fs.Remove(tempFilePath) }()

	if err = afero.WriteFile(s.fs, tempFilePath, sourceData, 0o644); err != nil {
		return fmt.Errorf("failed to write restored data to temporary file %s: %w", tempFilePath, err)
	}
	if err = s.fs.Rename(tempFilePath, s.filePath); err != nil {
		return fmt.Errorf("failed to atomically replace file %s with restored data from %s: %w", s.filePath, sourcePath, err)
	}
	_ = s.fs.Remove(s.filePath + checksumSuffix)

	return s.reload()
}

// Close releases the file lock, if held.
func (s *FileBoardStore) Close() error {
	if s.flk != nil {
		return s.flk.Unlock()
	}
	return nil
}
