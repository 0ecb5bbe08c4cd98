package models

import "time"

// PendingVideo is a staged video file queued for upload. It has no sync
// status: the record exists until the upload is confirmed and is then removed.
type PendingVideo struct {
	LocalID string `json:"local_id"`
	// JobRef is the job identifier known when the video was captured: the
	// server id if the job had one, its local id otherwise.
	JobRef     string    `json:"job_id"`
	LocalJobID string    `json:"local_job_id"`
	FilePath   string    `json:"file_path"`
	CreatedAt  time.Time `json:"created_at"`
}

// Session is the authenticated account the client acts for.
type Session struct {
	UserID string
	Name   string
	Email  string
	Token  string
}
