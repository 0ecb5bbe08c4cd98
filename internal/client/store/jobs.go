package store

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/jobkeeper/internal/client/models"
	"github.com/dmitrijs2005/jobkeeper/internal/common"
	"github.com/google/uuid"
)

func (st *state) jobByLocalID(localID string) int {
	if localID == "" {
		return -1
	}
	return slices.IndexFunc(st.jobs, func(j models.Job) bool { return j.LocalID == localID })
}

func (st *state) jobByServerID(serverID string) int {
	if serverID == "" {
		return -1
	}
	return slices.IndexFunc(st.jobs, func(j models.Job) bool { return j.ServerID == serverID })
}

// jobByRef resolves a reference that may be either identifier of a job.
func (st *state) jobByRef(ref string) int {
	if i := st.jobByLocalID(ref); i >= 0 {
		return i
	}
	return st.jobByServerID(ref)
}

// putJob stores job at index i and folds any other record holding the same
// server id into it. The record at i keeps its identity; notes and videos of
// the folded copy are re-pointed to it.
func (st *state) putJob(i int, job models.Job) {
	st.jobs[i] = job
	st.jobsDirty = true
	if job.ServerID == "" {
		return
	}

	for k := len(st.jobs) - 1; k >= 0; k-- {
		if k == i || st.jobs[k].ServerID != job.ServerID {
			continue
		}
		dup := st.jobs[k]
		st.jobs = slices.Delete(st.jobs, k, k+1)
		st.repointJob(dup.LocalID, job.LocalID)
		if k < i {
			i--
		}
	}
}

func (st *state) repointJob(from, to string) {
	for k := range st.notes {
		if st.notes[k].JobID == from {
			st.notes[k].JobID = to
			st.notesDirty = true
		}
	}
	for k := range st.videos {
		if st.videos[k].LocalJobID == from {
			st.videos[k].LocalJobID = to
			if st.videos[k].JobRef == from {
				st.videos[k].JobRef = to
			}
			st.videosDirty = true
		}
	}
}

func (st *state) upsertJob(job models.Job) (models.Job, error) {
	if job.LocalID == "" {
		job.LocalID = uuid.NewString()
	}

	byLocal := st.jobByLocalID(job.LocalID)
	bySrv := st.jobByServerID(job.ServerID)

	switch {
	case byLocal >= 0:
		existing := st.jobs[byLocal]
		if existing.ServerID != "" && job.ServerID != "" && existing.ServerID != job.ServerID {
			return models.Job{}, fmt.Errorf("job %s: %w", job.LocalID, common.ErrServerIDImmutable)
		}
		if job.ServerID == "" {
			job.ServerID = existing.ServerID
		}
		st.putJob(byLocal, job)
	case bySrv >= 0:
		job.LocalID = st.jobs[bySrv].LocalID
		st.putJob(bySrv, job)
	default:
		st.jobs = append(st.jobs, job)
		st.jobsDirty = true
	}
	return job, nil
}

// UpsertJob inserts job or replaces the record it matches. A record is
// matched by server id first, then by local id; when the two match different
// records the local id record wins and absorbs the other. A server id already
// assigned is carried forward when job has none, and can never be replaced by
// a different one. The stored record is returned.
func (s *Store) UpsertJob(ctx context.Context, job models.Job) (models.Job, error) {
	var out models.Job
	err := s.update(ctx, func(st *state) (err error) {
		out, err = st.upsertJob(job)
		return err
	})
	return out, err
}

func (s *Store) GetJobByLocalID(ctx context.Context, localID string) (models.Job, error) {
	return s.findJob(ctx, localID, (*state).jobByLocalID)
}

func (s *Store) GetJobByServerID(ctx context.Context, serverID string) (models.Job, error) {
	return s.findJob(ctx, serverID, (*state).jobByServerID)
}

// FindJob resolves ref against both the local and the server id.
func (s *Store) FindJob(ctx context.Context, ref string) (models.Job, error) {
	return s.findJob(ctx, ref, (*state).jobByRef)
}

func (s *Store) findJob(ctx context.Context, id string, index func(*state, string) int) (models.Job, error) {
	var out models.Job
	err := s.view(ctx, func(st *state) error {
		i := index(st, id)
		if i < 0 {
			return fmt.Errorf("job %s: %w", id, common.ErrNotFound)
		}
		out = st.jobs[i]
		return nil
	})
	return out, err
}

func (s *Store) ListJobs(ctx context.Context) ([]models.Job, error) {
	return s.filterJobs(ctx, func(models.Job) bool { return true })
}

// ListPendingJobs returns the jobs whose status is pending.
func (s *Store) ListPendingJobs(ctx context.Context) ([]models.Job, error) {
	return s.filterJobs(ctx, func(j models.Job) bool { return j.SyncStatus == models.SyncPending })
}

// ListUnsyncedJobs returns the jobs that still need a push: pending or failed.
func (s *Store) ListUnsyncedJobs(ctx context.Context) ([]models.Job, error) {
	return s.filterJobs(ctx, func(j models.Job) bool { return j.SyncStatus.NeedsSync() })
}

func (s *Store) filterJobs(ctx context.Context, keep func(models.Job) bool) ([]models.Job, error) {
	var out []models.Job
	err := s.view(ctx, func(st *state) error {
		for _, j := range st.jobs {
			if keep(j) {
				out = append(out, j)
			}
		}
		return nil
	})
	return out, err
}

// DeleteJob removes the job with its notes and pending videos.
func (s *Store) DeleteJob(ctx context.Context, localID string) error {
	return s.update(ctx, func(st *state) error {
		i := st.jobByLocalID(localID)
		if i < 0 {
			return fmt.Errorf("job %s: %w", localID, common.ErrNotFound)
		}
		job := st.jobs[i]
		st.jobs = slices.Delete(st.jobs, i, i+1)
		st.jobsDirty = true

		owned := func(ref string) bool {
			return ref == job.LocalID || (job.ServerID != "" && ref == job.ServerID)
		}
		st.notes = slices.DeleteFunc(st.notes, func(n models.Note) bool { return owned(n.JobID) })
		st.notesDirty = true
		st.videos = slices.DeleteFunc(st.videos, func(v models.PendingVideo) bool { return v.LocalJobID == job.LocalID })
		st.videosDirty = true
		return nil
	})
}

// MarkJobSynced sets the job's status to synced. Missing jobs are ignored.
func (s *Store) MarkJobSynced(ctx context.Context, localID string) error {
	_, _, err := s.ModifyJob(ctx, localID, func(j *models.Job) error {
		j.SyncStatus = models.SyncSynced
		return nil
	})
	return err
}

// ModifyJob applies fn to the current copy of the job and stores the result
// atomically. ok is false, and nothing is written, when the job no longer
// exists. fn may assign a server id to a job that has none but never change
// an assigned one.
func (s *Store) ModifyJob(ctx context.Context, localID string, fn func(j *models.Job) error) (job models.Job, ok bool, err error) {
	err = s.update(ctx, func(st *state) error {
		i := st.jobByLocalID(localID)
		if i < 0 {
			return nil
		}
		cur := st.jobs[i]
		next := cur
		if err := fn(&next); err != nil {
			return err
		}
		next.LocalID = cur.LocalID
		if cur.ServerID != "" && next.ServerID != cur.ServerID {
			return fmt.Errorf("job %s: %w", localID, common.ErrServerIDImmutable)
		}
		st.putJob(i, next)
		job, ok = next, true
		return nil
	})
	if err != nil {
		return models.Job{}, false, err
	}
	return job, ok, nil
}

var errMissingServerID = errors.New("server record without id")

// MergeServerJob folds a job fetched from the remote authority into the
// store. A known record gets the server content with its local id and sync
// status untouched; an unknown one is inserted as synced under a fresh local
// id. The merged record is returned.
func (s *Store) MergeServerJob(ctx context.Context, server models.Job) (models.Job, error) {
	return s.mergeServerJob(ctx, server, false)
}

// MergeServerJobKeepEdits is MergeServerJob except that a known record still
// waiting for its push (pending or failed) keeps its local content.
func (s *Store) MergeServerJobKeepEdits(ctx context.Context, server models.Job) (models.Job, error) {
	return s.mergeServerJob(ctx, server, true)
}

func (s *Store) mergeServerJob(ctx context.Context, server models.Job, keepEdits bool) (models.Job, error) {
	if server.ServerID == "" {
		return models.Job{}, errMissingServerID
	}

	var out models.Job
	err := s.update(ctx, func(st *state) error {
		if i := st.jobByServerID(server.ServerID); i >= 0 {
			merged := st.jobs[i]
			if keepEdits && merged.SyncStatus.NeedsSync() {
				out = merged
				return nil
			}
			merged.ApplyServer(server)
			st.putJob(i, merged)
			out = merged
			return nil
		}

		fresh := server
		fresh.LocalID = uuid.NewString()
		fresh.SyncStatus = models.SyncSynced
		st.jobs = append(st.jobs, fresh)
		st.jobsDirty = true
		out = fresh
		return nil
	})
	return out, err
}
