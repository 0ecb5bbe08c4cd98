package syncer

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/jobkeeper/internal/client/models"
	"github.com/dmitrijs2005/jobkeeper/internal/common"
)

type pass struct {
	*Engine
	tally tally
}

func (p *pass) result() Result { return p.tally.snapshot() }

func (p *pass) run(ctx context.Context) error {
	if err := p.pushJobs(ctx); err != nil {
		return err
	}
	if err := p.pushNotes(ctx); err != nil {
		return err
	}
	if err := p.pushVideos(ctx); err != nil {
		return err
	}
	if p.opts.PullOnSync {
		return p.pull(ctx, true)
	}
	return nil
}

func (p *pass) skip() { p.tally.add(func(r *Result) { r.Skipped++ }) }

func (p *pass) pushJobs(ctx context.Context) error {
	jobs, err := p.store.ListUnsyncedJobs(ctx)
	if err != nil {
		return fmt.Errorf("list unsynced jobs: %w", err)
	}
	return runPhase(ctx, p.opts.Concurrency, jobs, func(ctx context.Context, job models.Job) error {
		return p.pushJob(ctx, job.LocalID)
	})
}

func (p *pass) pushJob(ctx context.Context, localID string) error {
	key := inflightKey("job", localID)
	if !p.acquire(key) {
		p.skip()
		return nil
	}
	defer p.release(key)

	// Re-read under the guard: an overlapping pass may have finished it.
	snapshot, err := p.store.GetJobByLocalID(ctx, localID)
	if errors.Is(err, common.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !snapshot.SyncStatus.NeedsSync() {
		return nil
	}

	creating := !snapshot.HasServerID()
	var server models.Job
	if creating {
		server, err = p.remote.CreateJob(ctx, snapshot.Payload())
		if err == nil && server.ServerID == "" {
			err = fmt.Errorf("create job: %w: response carries no id", common.ErrRemoteRejected)
		}
	} else {
		server, err = p.remote.UpdateJob(ctx, snapshot.ServerID, snapshot.Payload())
	}
	if err != nil {
		return p.jobFailed(ctx, snapshot, err)
	}

	_, _, err = p.store.ModifyJob(ctx, localID, func(j *models.Job) error {
		if !j.HasServerID() {
			j.ServerID = server.ServerID
		}
		// An edit made while the call was in flight stays pending.
		if j.ContentEqual(snapshot) {
			j.ApplyServer(server)
			j.SyncStatus = models.SyncSynced
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store job %s: %w", localID, err)
	}

	p.tally.add(func(r *Result) {
		if creating {
			r.JobsCreated++
		} else {
			r.JobsUpdated++
		}
	})
	p.log.Debug(ctx, "job pushed", "local_id", localID, "server_id", server.ServerID, "created", creating)
	return nil
}

func (p *pass) jobFailed(ctx context.Context, snapshot models.Job, cause error) error {
	if err := abortOn(cause); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}

	p.log.Warn(ctx, "job push failed", "local_id", snapshot.LocalID, "error", cause)
	_, _, err := p.store.ModifyJob(ctx, snapshot.LocalID, func(j *models.Job) error {
		if j.ContentEqual(snapshot) {
			j.SyncStatus = models.SyncFailed
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store job %s: %w", snapshot.LocalID, err)
	}
	p.tally.add(func(r *Result) { r.JobsFailed++ })
	return nil
}

func (p *pass) pushNotes(ctx context.Context) error {
	notes, err := p.store.ListUnsyncedNotes(ctx)
	if err != nil {
		return fmt.Errorf("list unsynced notes: %w", err)
	}
	return runPhase(ctx, p.opts.Concurrency, notes, func(ctx context.Context, note models.Note) error {
		return p.pushNote(ctx, note.LocalID)
	})
}

func (p *pass) pushNote(ctx context.Context, localID string) error {
	key := inflightKey("note", localID)
	if !p.acquire(key) {
		p.skip()
		return nil
	}
	defer p.release(key)

	snapshot, err := p.store.GetNoteByLocalID(ctx, localID)
	if errors.Is(err, common.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !snapshot.SyncStatus.NeedsSync() {
		return nil
	}

	job, err := p.store.FindJob(ctx, snapshot.JobID)
	if errors.Is(err, common.ErrNotFound) || (err == nil && !job.HasServerID()) {
		p.log.Debug(ctx, "note waits for its job", "local_id", localID, "job", snapshot.JobID)
		p.skip()
		return nil
	}
	if err != nil {
		return err
	}

	creating := !snapshot.HasServerID()
	var server models.Note
	if creating {
		server, err = p.remote.CreateNote(ctx, job.ServerID, snapshot.Payload())
		if err == nil && server.ServerID == "" {
			err = fmt.Errorf("create note: %w: response carries no id", common.ErrRemoteRejected)
		}
	} else {
		server, err = p.remote.UpdateNote(ctx, job.ServerID, snapshot.ServerID, snapshot.Payload())
	}
	if err != nil {
		return p.noteFailed(ctx, snapshot, err)
	}

	_, _, err = p.store.ModifyNote(ctx, localID, func(n *models.Note) error {
		if !n.HasServerID() {
			n.ServerID = server.ServerID
		}
		n.JobID = job.LocalID
		if n.ContentEqual(snapshot) {
			n.ApplyServer(server)
			n.SyncStatus = models.SyncSynced
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store note %s: %w", localID, err)
	}

	p.tally.add(func(r *Result) {
		if creating {
			r.NotesCreated++
		} else {
			r.NotesUpdated++
		}
	})
	return nil
}

func (p *pass) noteFailed(ctx context.Context, snapshot models.Note, cause error) error {
	if err := abortOn(cause); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}

	p.log.Warn(ctx, "note push failed", "local_id", snapshot.LocalID, "error", cause)
	_, _, err := p.store.ModifyNote(ctx, snapshot.LocalID, func(n *models.Note) error {
		if n.ContentEqual(snapshot) {
			n.SyncStatus = models.SyncFailed
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store note %s: %w", snapshot.LocalID, err)
	}
	p.tally.add(func(r *Result) { r.NotesFailed++ })
	return nil
}

func (p *pass) pushVideos(ctx context.Context) error {
	videos, err := p.store.ListPendingVideos(ctx)
	if err != nil {
		return fmt.Errorf("list pending videos: %w", err)
	}
	return runPhase(ctx, p.opts.Concurrency, videos, p.pushVideo)
}

func (p *pass) pushVideo(ctx context.Context, v models.PendingVideo) error {
	key := inflightKey("video", v.LocalID)
	if !p.acquire(key) {
		p.skip()
		return nil
	}
	defer p.release(key)

	// Another pass may have uploaded it while this one waited in the phase.
	v, err := p.store.GetPendingVideo(ctx, v.LocalID)
	if errors.Is(err, common.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	job, err := p.store.FindJob(ctx, v.LocalJobID)
	if errors.Is(err, common.ErrNotFound) {
		job, err = p.store.FindJob(ctx, v.JobRef)
	}
	if errors.Is(err, common.ErrNotFound) || (err == nil && !job.HasServerID()) {
		p.skip()
		return nil
	}
	if err != nil {
		return err
	}

	data, err := p.readFile(v.FilePath)
	if err != nil {
		p.log.Warn(ctx, "staged video unreadable, keeping it queued",
			"local_id", v.LocalID, "path", v.FilePath, "error", fmt.Errorf("%w: %v", common.ErrFileUnreadable, err))
		p.skip()
		return nil
	}

	if err := p.remote.UploadVideo(ctx, job.ServerID, data); err != nil {
		if abort := abortOn(err); abort != nil {
			return abort
		}
		if ctx.Err() == nil {
			p.log.Warn(ctx, "video upload failed", "local_id", v.LocalID, "error", err)
			p.tally.add(func(r *Result) { r.VideosFailed++ })
		}
		return nil
	}

	if err := p.store.RemovePendingVideo(ctx, v.LocalID); err != nil {
		return fmt.Errorf("remove pending video %s: %w", v.LocalID, err)
	}
	if p.opts.OnUploaded != nil {
		p.opts.OnUploaded(v.FilePath)
	}
	p.tally.add(func(r *Result) { r.VideosUploaded++ })
	return nil
}

// pull merges the remote job list. Inside a pass it runs with keepEdits set,
// so a record whose push just failed keeps the local edit for the retry.
func (p *pass) pull(ctx context.Context, keepEdits bool) error {
	merge := p.store.MergeServerJob
	if keepEdits {
		merge = p.store.MergeServerJobKeepEdits
	}

	jobs, err := p.remote.ListJobs(ctx)
	if err != nil {
		if abort := abortOn(err); abort != nil {
			return abort
		}
		p.log.Warn(ctx, "pull failed", "error", err)
		p.tally.add(func(r *Result) { r.PullFailed = true })
		return nil
	}

	for _, server := range jobs {
		if server.ServerID == "" {
			continue
		}
		if _, err := merge(ctx, server); err != nil {
			return fmt.Errorf("merge job %s: %w", server.ServerID, err)
		}
		p.tally.add(func(r *Result) { r.Pulled++ })
	}
	return nil
}
