// Package transfer implements the import/export migration pipeline: it turns
// board state into the portable export payload and turns externally supplied
// payloads back into internally valid records, tracking per-field repairs.
package transfer

import (
	"encoding/json"
	"fmt"
	"time"

	"weekboard/models"
)

// FormatVersion is the export format version written to new payloads.
const FormatVersion = "2.0"

// ExportInfo describes an export payload.
type ExportInfo struct {
	ExportDate             string `json:"exportDate"`
	Version                string `json:"version"`
	CategoriesIncluded     bool   `json:"categoriesIncluded"`
	RecurringTasksIncluded bool   `json:"recurringTasksIncluded,omitempty"`
}

// Payload is the export document shape. Importers must accept any JSON
// document matching it; unknown extra fields are ignored.
type Payload struct {
	Tasks      []models.Task         `json:"tasks"`
	Settings   models.Settings       `json:"settings"`
	Archive    []models.ArchivedTask `json:"archive"`
	ExportInfo ExportInfo            `json:"exportInfo"`
}

// BuildPayload assembles an export payload verbatim from board state. No
// validation runs here: the data is assumed valid from save-time validation.
func BuildPayload(tasks []models.Task, settings models.Settings, archive []models.ArchivedTask, now time.Time) Payload {
	recurring := false
	for _, t := range tasks {
		if t.IsRecurring {
			recurring = true
			break
		}
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	if archive == nil {
		archive = []models.ArchivedTask{}
	}
	return Payload{
		Tasks:    tasks,
		Settings: settings,
		Archive:  archive,
		ExportInfo: ExportInfo{
			ExportDate:             now.UTC().Format(time.RFC3339),
			Version:                FormatVersion,
			CategoriesIncluded:     true,
			RecurringTasksIncluded: recurring,
		},
	}
}

// Marshal serializes a payload as indented JSON.
func Marshal(p Payload) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// Parse decodes an export document. Malformed JSON is a structural error for
// the caller to report; missing archive/settings default to empty.
func Parse(data []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, fmt.Errorf("failed to decode import data: %w", err)
	}
	if p.Tasks == nil {
		p.Tasks = []models.Task{}
	}
	if p.Archive == nil {
		p.Archive = []models.ArchivedTask{}
	}
	p.Settings.Normalize()
	return p, nil
}

// ImportStats is the user-facing summary of what an import touched.
type ImportStats struct {
	Tasks              int `json:"tasks"`
	ArchivedTasks      int `json:"archived_tasks"`
	RepairedCategories int `json:"repaired_categories"`
	RecurringTasks     int `json:"recurring_tasks"`
	ActualTimeDefaults int `json:"actual_time_defaults"`
}

// Sanitize re-validates the categories of every incoming task and archived
// task and defaults any missing actual_time to 0, in place. It deliberately
// does not re-run the full time pipeline on import; rounding and negative
// checks happened at save time on the exporting side.
func Sanitize(p *Payload) ImportStats {
	stats := ImportStats{
		Tasks:         len(p.Tasks),
		ArchivedTasks: len(p.Archive),
	}
	for i := range p.Tasks {
		sanitizeTask(&p.Tasks[i], &stats)
		if p.Tasks[i].IsRecurring {
			stats.RecurringTasks++
		}
	}
	for i := range p.Archive {
		sanitizeTask(&p.Archive[i].Task, &stats)
	}
	return stats
}

func sanitizeTask(t *models.Task, stats *ImportStats) {
	repaired := models.NormalizeCategory(string(t.Category))
	if repaired != t.Category {
		stats.RepairedCategories++
		t.Category = repaired
	}
	if t.ActualTime == nil {
		zero := 0.0
		t.ActualTime = &zero
		stats.ActualTimeDefaults++
	}
}
