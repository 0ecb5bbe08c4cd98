package client

import (
	"context"

	"github.com/dmitrijs2005/jobkeeper/internal/client/models"
)

// Client is the remote authority. Returned jobs and notes carry their server
// id and content only; local ids and sync status are the caller's concern.
type Client interface {
	CreateJob(ctx context.Context, p models.JobPayload) (models.Job, error)
	UpdateJob(ctx context.Context, serverID string, p models.JobPayload) (models.Job, error)
	GetJob(ctx context.Context, serverID string) (models.Job, error)
	ListJobs(ctx context.Context) ([]models.Job, error)

	CreateNote(ctx context.Context, jobServerID string, p models.NotePayload) (models.Note, error)
	UpdateNote(ctx context.Context, jobServerID, noteServerID string, p models.NotePayload) (models.Note, error)
	ListNotes(ctx context.Context, jobServerID string) ([]models.Note, error)

	UploadVideo(ctx context.Context, jobServerID string, data []byte) error

	Login(ctx context.Context, email, password string) (models.Session, error)
	Register(ctx context.Context, name, email, password string) error
	Ping(ctx context.Context) error
}

// TokenSource supplies the bearer token for authenticated requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// StaticToken always returns the same token.
func StaticToken(token string) TokenSource {
	return TokenFunc(func(context.Context) (string, error) { return token, nil })
}
