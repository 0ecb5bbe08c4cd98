package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/jobkeeper/internal/client/models"
	"github.com/dmitrijs2005/jobkeeper/internal/common"
	"github.com/google/uuid"
)

func (st *state) noteByLocalID(localID string) int {
	if localID == "" {
		return -1
	}
	return slices.IndexFunc(st.notes, func(n models.Note) bool { return n.LocalID == localID })
}

func (st *state) noteByServerID(serverID string) int {
	if serverID == "" {
		return -1
	}
	return slices.IndexFunc(st.notes, func(n models.Note) bool { return n.ServerID == serverID })
}

// putNote stores note at index i and drops any other copy with the same
// server id.
func (st *state) putNote(i int, note models.Note) {
	st.notes[i] = note
	st.notesDirty = true
	if note.ServerID == "" {
		return
	}
	keep := st.notes[i].LocalID
	st.notes = slices.DeleteFunc(st.notes, func(n models.Note) bool {
		return n.ServerID == note.ServerID && n.LocalID != keep
	})
}

// ownedBy reports whether a note's job reference points at job.
func ownedBy(n models.Note, job models.Job) bool {
	return n.JobID == job.LocalID || (job.ServerID != "" && n.JobID == job.ServerID)
}

// UpsertNote follows the same identity rules as UpsertJob.
func (s *Store) UpsertNote(ctx context.Context, note models.Note) (models.Note, error) {
	if note.LocalID == "" {
		note.LocalID = uuid.NewString()
	}

	err := s.update(ctx, func(st *state) error {
		byLocal := st.noteByLocalID(note.LocalID)
		bySrv := st.noteByServerID(note.ServerID)

		switch {
		case byLocal >= 0:
			existing := st.notes[byLocal]
			if existing.ServerID != "" && note.ServerID != "" && existing.ServerID != note.ServerID {
				return fmt.Errorf("note %s: %w", note.LocalID, common.ErrServerIDImmutable)
			}
			if note.ServerID == "" {
				note.ServerID = existing.ServerID
			}
			st.putNote(byLocal, note)
		case bySrv >= 0:
			note.LocalID = st.notes[bySrv].LocalID
			st.putNote(bySrv, note)
		default:
			st.notes = append(st.notes, note)
			st.notesDirty = true
		}
		return nil
	})
	if err != nil {
		return models.Note{}, err
	}
	return note, nil
}

func (s *Store) GetNoteByLocalID(ctx context.Context, localID string) (models.Note, error) {
	var out models.Note
	err := s.view(ctx, func(st *state) error {
		i := st.noteByLocalID(localID)
		if i < 0 {
			return fmt.Errorf("note %s: %w", localID, common.ErrNotFound)
		}
		out = st.notes[i]
		return nil
	})
	return out, err
}

func (s *Store) ListNotes(ctx context.Context) ([]models.Note, error) {
	return s.filterNotes(ctx, func(models.Note) bool { return true })
}

func (s *Store) ListPendingNotes(ctx context.Context) ([]models.Note, error) {
	return s.filterNotes(ctx, func(n models.Note) bool { return n.SyncStatus == models.SyncPending })
}

func (s *Store) ListUnsyncedNotes(ctx context.Context) ([]models.Note, error) {
	return s.filterNotes(ctx, func(n models.Note) bool { return n.SyncStatus.NeedsSync() })
}

func (s *Store) filterNotes(ctx context.Context, keep func(models.Note) bool) ([]models.Note, error) {
	var out []models.Note
	err := s.view(ctx, func(st *state) error {
		for _, n := range st.notes {
			if keep(n) {
				out = append(out, n)
			}
		}
		return nil
	})
	return out, err
}

// NotesForJob returns the notes of the job referenced by jobRef, which may be
// the job's local or server id.
func (s *Store) NotesForJob(ctx context.Context, jobRef string) ([]models.Note, error) {
	var out []models.Note
	err := s.view(ctx, func(st *state) error {
		job := models.Job{LocalID: jobRef}
		if i := st.jobByRef(jobRef); i >= 0 {
			job = st.jobs[i]
		}
		for _, n := range st.notes {
			if ownedBy(n, job) {
				out = append(out, n)
			}
		}
		return nil
	})
	return out, err
}

func (s *Store) DeleteNote(ctx context.Context, localID string) error {
	return s.update(ctx, func(st *state) error {
		i := st.noteByLocalID(localID)
		if i < 0 {
			return fmt.Errorf("note %s: %w", localID, common.ErrNotFound)
		}
		st.notes = slices.Delete(st.notes, i, i+1)
		st.notesDirty = true
		return nil
	})
}

func (s *Store) MarkNoteSynced(ctx context.Context, localID string) error {
	_, _, err := s.ModifyNote(ctx, localID, func(n *models.Note) error {
		n.SyncStatus = models.SyncSynced
		return nil
	})
	return err
}

// ModifyNote is the note counterpart of ModifyJob.
func (s *Store) ModifyNote(ctx context.Context, localID string, fn func(n *models.Note) error) (note models.Note, ok bool, err error) {
	err = s.update(ctx, func(st *state) error {
		i := st.noteByLocalID(localID)
		if i < 0 {
			return nil
		}
		cur := st.notes[i]
		next := cur
		if err := fn(&next); err != nil {
			return err
		}
		next.LocalID = cur.LocalID
		if cur.ServerID != "" && next.ServerID != cur.ServerID {
			return fmt.Errorf("note %s: %w", localID, common.ErrServerIDImmutable)
		}
		st.putNote(i, next)
		note, ok = next, true
		return nil
	})
	if err != nil {
		return models.Note{}, false, err
	}
	return note, ok, nil
}

// MergeServerNote folds a note fetched for the job with local id jobLocalID
// into the store, with the same policy as MergeServerJobKeepEdits: a known
// note still waiting for its push keeps its local content. Inserted notes
// reference the job by its local id.
func (s *Store) MergeServerNote(ctx context.Context, jobLocalID string, server models.Note) (models.Note, error) {
	if server.ServerID == "" {
		return models.Note{}, errMissingServerID
	}

	var out models.Note
	err := s.update(ctx, func(st *state) error {
		if i := st.noteByServerID(server.ServerID); i >= 0 {
			merged := st.notes[i]
			if merged.SyncStatus.NeedsSync() {
				out = merged
				return nil
			}
			merged.ApplyServer(server)
			st.putNote(i, merged)
			out = merged
			return nil
		}

		fresh := server
		fresh.LocalID = uuid.NewString()
		fresh.JobID = jobLocalID
		fresh.SyncStatus = models.SyncSynced
		st.notes = append(st.notes, fresh)
		st.notesDirty = true
		out = fresh
		return nil
	})
	return out, err
}
