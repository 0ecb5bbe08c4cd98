// Package services holds the application services the UI layer calls. Every
// mutation is written to the local store first and then handed to the sync
// engine in the background, so the UI never waits on the network.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/jobkeeper/internal/client/models"
	"github.com/dmitrijs2005/jobkeeper/internal/client/store"
)

var ErrEmptyNote = errors.New("note content is empty")

// JobStore is the part of the local store the job service uses.
type JobStore interface {
	UpsertJob(ctx context.Context, job models.Job) (models.Job, error)
	GetJobByLocalID(ctx context.Context, localID string) (models.Job, error)
	FindJob(ctx context.Context, ref string) (models.Job, error)
	ListJobs(ctx context.Context) ([]models.Job, error)
	DeleteJob(ctx context.Context, localID string) error
	UpsertNote(ctx context.Context, note models.Note) (models.Note, error)
	GetNoteByLocalID(ctx context.Context, localID string) (models.Note, error)
	NotesForJob(ctx context.Context, jobRef string) ([]models.Note, error)
	AddPendingVideo(ctx context.Context, jobRef, localJobID, path string) (models.PendingVideo, error)
	PendingVideosForJob(ctx context.Context, localJobID string) ([]models.PendingVideo, error)
	Counts(ctx context.Context) (store.Counts, error)
}

// Syncer requests a background sync pass.
type Syncer interface {
	Trigger(ctx context.Context)
}

// Stager copies captured files into the staging area.
type Stager interface {
	Stage(src string) (string, error)
	Discard(path string) error
}

type JobService interface {
	CreateJob(ctx context.Context, p models.JobPayload) (models.Job, error)
	EditJob(ctx context.Context, ref string, p models.JobPayload) (models.Job, error)
	DeleteJob(ctx context.Context, ref string) error
	GetJob(ctx context.Context, ref string) (models.Job, error)
	ListJobs(ctx context.Context) ([]models.Job, error)

	AddNote(ctx context.Context, jobRef, content string) (models.Note, error)
	EditNote(ctx context.Context, noteLocalID, content string) (models.Note, error)
	Notes(ctx context.Context, jobRef string) ([]models.Note, error)

	AttachVideo(ctx context.Context, jobRef, srcPath string) (models.PendingVideo, error)
	PendingVideos(ctx context.Context, jobRef string) ([]models.PendingVideo, error)

	Status(ctx context.Context) (store.Counts, error)
}

type jobService struct {
	store  JobStore
	syncer Syncer
	stager Stager
}

// NewJobService wires the service. syncer and stager may be nil; without a
// stager AttachVideo is unavailable.
func NewJobService(st JobStore, syncer Syncer, stager Stager) JobService {
	return &jobService{store: st, syncer: syncer, stager: stager}
}

func (s *jobService) kick(ctx context.Context) {
	if s.syncer != nil {
		s.syncer.Trigger(ctx)
	}
}

func (s *jobService) CreateJob(ctx context.Context, p models.JobPayload) (models.Job, error) {
	if err := p.Validate(); err != nil {
		return models.Job{}, err
	}
	job, err := s.store.UpsertJob(ctx, models.NewJob(p))
	if err != nil {
		return models.Job{}, fmt.Errorf("saving job: %w", err)
	}
	s.kick(ctx)
	return job, nil
}

func (s *jobService) EditJob(ctx context.Context, ref string, p models.JobPayload) (models.Job, error) {
	if err := p.Validate(); err != nil {
		return models.Job{}, err
	}
	job, err := s.store.FindJob(ctx, ref)
	if err != nil {
		return models.Job{}, err
	}
	job.Edit(p)
	job, err = s.store.UpsertJob(ctx, job)
	if err != nil {
		return models.Job{}, fmt.Errorf("saving job: %w", err)
	}
	s.kick(ctx)
	return job, nil
}

// DeleteJob removes the job locally, together with its notes and staged
// videos. Deletion is not propagated to the backend.
func (s *jobService) DeleteJob(ctx context.Context, ref string) error {
	job, err := s.store.FindJob(ctx, ref)
	if err != nil {
		return err
	}
	videos, err := s.store.PendingVideosForJob(ctx, job.LocalID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteJob(ctx, job.LocalID); err != nil {
		return err
	}
	if s.stager != nil {
		for _, v := range videos {
			_ = s.stager.Discard(v.FilePath)
		}
	}
	return nil
}

func (s *jobService) GetJob(ctx context.Context, ref string) (models.Job, error) {
	return s.store.FindJob(ctx, ref)
}

func (s *jobService) ListJobs(ctx context.Context) ([]models.Job, error) {
	return s.store.ListJobs(ctx)
}

func (s *jobService) AddNote(ctx context.Context, jobRef, content string) (models.Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Note{}, ErrEmptyNote
	}
	job, err := s.store.FindJob(ctx, jobRef)
	if err != nil {
		return models.Note{}, err
	}
	note, err := s.store.UpsertNote(ctx, models.NewNote(job.LocalID, content))
	if err != nil {
		return models.Note{}, fmt.Errorf("saving note: %w", err)
	}
	s.kick(ctx)
	return note, nil
}

func (s *jobService) EditNote(ctx context.Context, noteLocalID, content string) (models.Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Note{}, ErrEmptyNote
	}
	note, err := s.store.GetNoteByLocalID(ctx, noteLocalID)
	if err != nil {
		return models.Note{}, err
	}
	note.Edit(content)
	note, err = s.store.UpsertNote(ctx, note)
	if err != nil {
		return models.Note{}, fmt.Errorf("saving note: %w", err)
	}
	s.kick(ctx)
	return note, nil
}

func (s *jobService) Notes(ctx context.Context, jobRef string) ([]models.Note, error) {
	return s.store.NotesForJob(ctx, jobRef)
}

// AttachVideo stages a copy of srcPath and queues it for upload to the job.
func (s *jobService) AttachVideo(ctx context.Context, jobRef, srcPath string) (models.PendingVideo, error) {
	if s.stager == nil {
		return models.PendingVideo{}, errors.New("video staging is not configured")
	}
	job, err := s.store.FindJob(ctx, jobRef)
	if err != nil {
		return models.PendingVideo{}, err
	}

	staged, err := s.stager.Stage(srcPath)
	if err != nil {
		return models.PendingVideo{}, err
	}

	ref := job.LocalID
	if job.HasServerID() {
		ref = job.ServerID
	}
	v, err := s.store.AddPendingVideo(ctx, ref, job.LocalID, staged)
	if err != nil {
		_ = s.stager.Discard(staged)
		return models.PendingVideo{}, fmt.Errorf("queueing video: %w", err)
	}
	s.kick(ctx)
	return v, nil
}

func (s *jobService) PendingVideos(ctx context.Context, jobRef string) ([]models.PendingVideo, error) {
	job, err := s.store.FindJob(ctx, jobRef)
	if err != nil {
		return nil, err
	}
	return s.store.PendingVideosForJob(ctx, job.LocalID)
}

func (s *jobService) Status(ctx context.Context) (store.Counts, error) {
	return s.store.Counts(ctx)
}
