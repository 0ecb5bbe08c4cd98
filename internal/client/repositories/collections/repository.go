// Package collections persists named documents (JSON-encoded record arrays)
// in the local database.
package collections

import "context"

// Collection keys.
const (
	KeyJobs          = "jobs"
	KeyNotes         = "notes"
	KeyPendingVideos = "pending_videos"
)

// Repository reads and writes whole collections. Get returns (nil, nil) for a
// collection that was never written.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
