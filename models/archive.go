package models

import "time"

// ArchivedTask is a task that was removed from the active board and kept for
// historical statistics. Statistics treat archived tasks as completed no
// matter what the embedded Completed flag says; the literal value at archive
// time is preserved here.
type ArchivedTask struct {
	Task
	ArchivedDate string `json:"archived_date" validate:"required"`
}

// NewArchivedTask snapshots a task into the archive with the given archival
// timestamp.
func NewArchivedTask(t Task, at time.Time) ArchivedTask {
	return ArchivedTask{
		Task:         t,
		ArchivedDate: at.UTC().Format(time.RFC3339),
	}
}
