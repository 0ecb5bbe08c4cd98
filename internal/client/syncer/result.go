package syncer

import (
	"sync"
	"time"
)

// Result counts what one pass did.
type Result struct {
	JobsCreated  int
	JobsUpdated  int
	JobsFailed   int
	NotesCreated int
	NotesUpdated int
	NotesFailed  int
	// Skipped counts records left for a later pass: owner job not yet
	// created remotely, unreadable video file, or already in flight.
	Skipped        int
	VideosUploaded int
	VideosFailed   int
	Pulled         int
	PullFailed     bool
	Duration       time.Duration
}

type EventKind int

const (
	EventPassCompleted EventKind = iota
	EventUnauthorized
)

func (k EventKind) String() string {
	switch k {
	case EventPassCompleted:
		return "pass-completed"
	case EventUnauthorized:
		return "unauthorized"
	}
	return "unknown"
}

// Event is published after every pass, and additionally when the backend
// rejected the session.
type Event struct {
	Kind   EventKind
	Result Result
	Err    error
}

type tally struct {
	mu  sync.Mutex
	res Result
}

func (t *tally) add(fn func(r *Result)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(&t.res)
}

func (t *tally) snapshot() Result {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.res
}
