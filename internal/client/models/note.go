package models

import (
	"time"

	"github.com/google/uuid"
)

// Note is a free-text remark attached to a job. JobID always holds the
// owning job's LocalID; the server id is resolved at sync time.
type Note struct {
	ServerID   string     `json:"server_id,omitempty"`
	LocalID    string     `json:"local_id"`
	JobID      string     `json:"job_id"`
	Content    string     `json:"content"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
	SyncStatus SyncStatus `json:"sync_status"`
}

// NewNote creates a local-only note for the job with the given LocalID.
func NewNote(jobLocalID, content string) Note {
	return Note{
		LocalID:    uuid.NewString(),
		JobID:      jobLocalID,
		Content:    content,
		SyncStatus: SyncPending,
	}
}

func (n Note) HasServerID() bool { return n.ServerID != "" }

// Edit replaces the content and re-enters the pending state.
func (n *Note) Edit(content string) {
	n.Content = content
	n.SyncStatus = SyncPending
}

// ApplyServer copies the server-owned fields of a server copy into n.
func (n *Note) ApplyServer(server Note) {
	n.Content = server.Content
	if server.CreatedAt != nil {
		n.CreatedAt = server.CreatedAt
	}
	if server.UpdatedAt != nil {
		n.UpdatedAt = server.UpdatedAt
	}
}

func (n Note) ContentEqual(o Note) bool {
	return n.Content == o.Content
}

// NotePayload is the request body for remote note create and update.
type NotePayload struct {
	Content string
}

func (n Note) Payload() NotePayload { return NotePayload{Content: n.Content} }
