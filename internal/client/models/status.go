// Package models defines the client-side domain model: jobs, notes and
// staged video attachments, each carrying a stable local identifier, an
// optional server identifier and a sync status.
package models

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SyncStatus tracks whether a record's local state has been confirmed by the
// remote authority.
type SyncStatus string

const (
	// SyncPending marks a local mutation not yet confirmed remotely.
	SyncPending SyncStatus = "pending"
	// SyncSynced marks local state equal to the last known remote state.
	SyncSynced SyncStatus = "synced"
	// SyncFailed marks a record whose last push was rejected. It is retried
	// on the next trigger.
	SyncFailed SyncStatus = "failed"
)

// NeedsSync reports whether the record must be pushed by the next pass.
func (s SyncStatus) NeedsSync() bool {
	return s == SyncPending || s == SyncFailed
}

// JobStatus is the business state of a job.
type JobStatus string

const (
	JobStatusActive    JobStatus = "active"
	JobStatusPending   JobStatus = "pending"
	JobStatusCompleted JobStatus = "completed"
)

var titleCaser = cases.Title(language.English)

// DisplayName returns the status formatted for display, e.g. "Completed".
func (s JobStatus) DisplayName() string {
	return titleCaser.String(string(s))
}

// Valid reports whether s is one of the known statuses.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusActive, JobStatusPending, JobStatusCompleted:
		return true
	}
	return false
}

// ParseJobStatus maps free text onto a JobStatus. Unknown input falls back to
// JobStatusPending and ok=false.
func ParseJobStatus(s string) (status JobStatus, ok bool) {
	status = JobStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return JobStatusPending, false
	}
	return status, true
}
