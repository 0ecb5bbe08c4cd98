// Package syncer reconciles the local store with the remote authority.
//
// A pass pushes unsynced jobs, then notes, then staged videos, and finally
// pulls the authoritative job list. Each phase finishes before the next one
// starts, so server ids assigned to jobs are visible to the notes and videos
// of the same pass. Remote calls inside a phase run concurrently up to
// Options.Concurrency. Passes may overlap; a per-record in-flight set keeps
// two passes from pushing the same record at once.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/jobkeeper/internal/client/connectivity"
	"github.com/dmitrijs2005/jobkeeper/internal/client/events"
	"github.com/dmitrijs2005/jobkeeper/internal/client/models"
	"github.com/dmitrijs2005/jobkeeper/internal/common"
	"github.com/dmitrijs2005/jobkeeper/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Remote is the subset of the backend API the engine drives.
type Remote interface {
	CreateJob(ctx context.Context, p models.JobPayload) (models.Job, error)
	UpdateJob(ctx context.Context, serverID string, p models.JobPayload) (models.Job, error)
	ListJobs(ctx context.Context) ([]models.Job, error)
	CreateNote(ctx context.Context, jobServerID string, p models.NotePayload) (models.Note, error)
	UpdateNote(ctx context.Context, jobServerID, noteServerID string, p models.NotePayload) (models.Note, error)
	ListNotes(ctx context.Context, jobServerID string) ([]models.Note, error)
	UploadVideo(ctx context.Context, jobServerID string, data []byte) error
}

// LocalStore is the subset of the local store the engine reads and writes.
type LocalStore interface {
	ListUnsyncedJobs(ctx context.Context) ([]models.Job, error)
	ListUnsyncedNotes(ctx context.Context) ([]models.Note, error)
	ListPendingVideos(ctx context.Context) ([]models.PendingVideo, error)
	GetPendingVideo(ctx context.Context, localID string) (models.PendingVideo, error)
	GetJobByLocalID(ctx context.Context, localID string) (models.Job, error)
	GetNoteByLocalID(ctx context.Context, localID string) (models.Note, error)
	FindJob(ctx context.Context, ref string) (models.Job, error)
	ModifyJob(ctx context.Context, localID string, fn func(j *models.Job) error) (models.Job, bool, error)
	ModifyNote(ctx context.Context, localID string, fn func(n *models.Note) error) (models.Note, bool, error)
	RemovePendingVideo(ctx context.Context, localID string) error
	MergeServerJob(ctx context.Context, server models.Job) (models.Job, error)
	MergeServerJobKeepEdits(ctx context.Context, server models.Job) (models.Job, error)
	MergeServerNote(ctx context.Context, jobLocalID string, server models.Note) (models.Note, error)
}

// Availability reports whether the backend is currently reachable.
type Availability interface {
	IsOnline() bool
}

// Connectivity is an Availability that also reports transitions.
type Connectivity interface {
	Availability
	Subscribe() (<-chan connectivity.Event, func())
}

type Options struct {
	// Concurrency bounds the remote calls in flight within one phase.
	Concurrency int
	// PullOnSync appends a pull of the job list to every pass.
	PullOnSync bool
	// OnUploaded, if set, receives the file path of every uploaded video
	// after it left the queue.
	OnUploaded func(path string)
}

type Engine struct {
	store  LocalStore
	remote Remote
	avail  Availability
	log    logging.Logger
	opts   Options
	bus    *events.Broadcaster[Event]

	readFile func(name string) ([]byte, error)

	mu       sync.Mutex
	inflight map[string]struct{}

	triggerMu  sync.Mutex
	running    bool
	rerun      bool
	background sync.WaitGroup
}

func New(st LocalStore, remote Remote, avail Availability, log logging.Logger, opts Options) *Engine {
	if log == nil {
		log = logging.Nop()
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 4
	}
	return &Engine{
		store:    st,
		remote:   remote,
		avail:    avail,
		log:      log.With("component", "syncer"),
		opts:     opts,
		bus:      events.NewBroadcaster[Event](16),
		readFile: os.ReadFile,
		inflight: make(map[string]struct{}),
	}
}

// Subscribe returns a channel of engine events and a function releasing it.
func (e *Engine) Subscribe() (<-chan Event, func()) {
	return e.bus.Subscribe()
}

// SyncNow runs one pass and waits for it. It returns
// common.ErrNetworkUnavailable without touching anything when offline, and
// common.ErrUnauthorized when the backend rejected the session, in which case
// the pass stops early. Other remote failures only change record statuses.
func (e *Engine) SyncNow(ctx context.Context) (Result, error) {
	if !e.avail.IsOnline() {
		return Result{}, common.ErrNetworkUnavailable
	}

	start := time.Now()
	p := &pass{Engine: e}
	err := p.run(ctx)
	res := p.result()
	res.Duration = time.Since(start)

	switch {
	case errors.Is(err, common.ErrUnauthorized):
		e.log.Warn(ctx, "sync pass rejected: unauthorized")
		e.bus.Publish(Event{Kind: EventUnauthorized, Result: res, Err: err})
		err = common.ErrUnauthorized
	case err != nil:
		e.log.Error(ctx, "sync pass aborted", "error", err)
	default:
		e.log.Info(ctx, "sync pass completed", "result", res)
	}
	e.bus.Publish(Event{Kind: EventPassCompleted, Result: res, Err: err})
	return res, err
}

// Trigger requests a pass in the background and returns immediately.
// Requests arriving while a triggered pass runs collapse into one follow-up
// pass.
func (e *Engine) Trigger(ctx context.Context) {
	e.triggerMu.Lock()
	defer e.triggerMu.Unlock()

	if e.running {
		e.rerun = true
		return
	}
	e.running = true
	e.background.Add(1)
	go e.drain(ctx)
}

func (e *Engine) drain(ctx context.Context) {
	defer e.background.Done()
	for {
		if _, err := e.SyncNow(ctx); err != nil && !errors.Is(err, common.ErrNetworkUnavailable) {
			e.log.Debug(ctx, "triggered pass failed", "error", err)
		}

		e.triggerMu.Lock()
		if !e.rerun || ctx.Err() != nil {
			e.running = false
			e.rerun = false
			e.triggerMu.Unlock()
			return
		}
		e.rerun = false
		e.triggerMu.Unlock()
	}
}

// Wait blocks until every triggered pass has finished.
func (e *Engine) Wait() {
	e.background.Wait()
}

// Run triggers an exploratory pass if the backend is already reachable and
// then one pass per offline to online transition, until ctx is done.
func (e *Engine) Run(ctx context.Context, conn Connectivity) error {
	return e.Follow(conn)(ctx)
}

// Follow subscribes to conn right away and returns the loop Run would
// execute. Subscribing before conn starts probing keeps its first
// transition from being missed.
func (e *Engine) Follow(conn Connectivity) func(ctx context.Context) error {
	ch, cancel := conn.Subscribe()

	return func(ctx context.Context) error {
		defer cancel()

		if conn.IsOnline() {
			e.Trigger(ctx)
		}
		for {
			select {
			case <-ctx.Done():
				e.Wait()
				return ctx.Err()
			case ev, ok := <-ch:
				if !ok {
					e.Wait()
					return nil
				}
				if ev.Online {
					e.log.Info(ctx, "back online, syncing")
					e.Trigger(ctx)
				}
			}
		}
	}
}

func (e *Engine) acquire(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.inflight[key]; busy {
		return false
	}
	e.inflight[key] = struct{}{}
	return true
}

func (e *Engine) release(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.inflight, key)
}

func inflightKey(kind, localID string) string {
	return kind + ":" + localID
}

// runPhase applies fn to every item with at most limit calls in flight. The
// first error cancels the context handed to the remaining calls.
func runPhase[T any](ctx context.Context, limit int, items []T, fn func(ctx context.Context, item T) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, item := range items {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			return fn(gctx, item)
		})
	}
	return g.Wait()
}

// abortOn reports whether a remote failure must stop the pass.
func abortOn(err error) error {
	if errors.Is(err, common.ErrUnauthorized) {
		return fmt.Errorf("%w: %v", common.ErrUnauthorized, err)
	}
	return nil
}
