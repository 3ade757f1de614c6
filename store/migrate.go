package store

import (
	"fmt"
	"time"

	"github.com/spf13/afero"
)

// Schema versions of the board document. Version 1 predates actual time
// tracking; version 2 adds the actual_time field to every task record.
const (
	schemaVersionInitial  = 1
	currentSchemaVersion  = 2
	backupTimestampLayout = "20060102-150405"
)

// MigrationRecord documents one applied schema migration.
type MigrationRecord struct {
	Version     int    `json:"version" yaml:"version" toml:"version"`
	Timestamp   string `json:"timestamp" yaml:"timestamp" toml:"timestamp"`
	Description string `json:"description" yaml:"description" toml:"description"`
}

// migrateInternal brings a loaded board document up to the current schema
// version. Before mutating anything it writes a timestamped backup of the
// raw pre-migration bytes next to the data file. It returns true when the
// board changed and needs saving. Assumes the lock is held.
func (s *FileBoardStore) migrateInternal(raw []byte) (bool, error) {
	if s.board.SchemaVersion >= currentSchemaVersion {
		return false, nil
	}

	if len(raw) > 0 {
		backupPath := fmt.Sprintf("%s.backup-%s", s.filePath, time.Now().Format(backupTimestampLayout))
		if err := afero.WriteFile(s.fs, backupPath, raw, 0o644); err != nil {
			return false, fmt.Errorf("failed to write pre-migration backup %s: %w", backupPath, err)
		}
	}

	defaulted := 0
	for i := range s.board.Tasks {
		if s.board.Tasks[i].ActualTime == nil {
			zero := 0.0
			s.board.Tasks[i].ActualTime = &zero
			defaulted++
		}
	}
	for i := range s.board.Archive {
		if s.board.Archive[i].ActualTime == nil {
			zero := 0.0
			s.board.Archive[i].ActualTime = &zero
			defaulted++
		}
	}

	s.board.SchemaVersion = currentSchemaVersion
	s.board.Migrations = append(s.board.Migrations, MigrationRecord{
		Version:     currentSchemaVersion,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Description: fmt.Sprintf("add actual_time field (defaulted %d records to 0)", defaulted),
	})
	return true, nil
}
