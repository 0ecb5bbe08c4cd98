package store

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/jobkeeper/internal/client/models"
	"github.com/dmitrijs2005/jobkeeper/internal/common"
	"github.com/google/uuid"
)

// AddPendingVideo queues the staged file at path for upload to the job.
func (s *Store) AddPendingVideo(ctx context.Context, jobRef, localJobID, path string) (models.PendingVideo, error) {
	v := models.PendingVideo{
		LocalID:    uuid.NewString(),
		JobRef:     jobRef,
		LocalJobID: localJobID,
		FilePath:   path,
		CreatedAt:  time.Now().UTC(),
	}
	err := s.update(ctx, func(st *state) error {
		st.videos = append(st.videos, v)
		st.videosDirty = true
		return nil
	})
	if err != nil {
		return models.PendingVideo{}, err
	}
	return v, nil
}

func (s *Store) ListPendingVideos(ctx context.Context) ([]models.PendingVideo, error) {
	var out []models.PendingVideo
	err := s.view(ctx, func(st *state) error {
		out = slices.Clone(st.videos)
		return nil
	})
	return out, err
}

// GetPendingVideo returns the queued upload, or an error wrapping
// common.ErrNotFound once it has been removed.
func (s *Store) GetPendingVideo(ctx context.Context, localID string) (models.PendingVideo, error) {
	var out models.PendingVideo
	err := s.view(ctx, func(st *state) error {
		i := slices.IndexFunc(st.videos, func(v models.PendingVideo) bool { return v.LocalID == localID })
		if i < 0 {
			return fmt.Errorf("video %s: %w", localID, common.ErrNotFound)
		}
		out = st.videos[i]
		return nil
	})
	return out, err
}

func (s *Store) PendingVideosForJob(ctx context.Context, localJobID string) ([]models.PendingVideo, error) {
	var out []models.PendingVideo
	err := s.view(ctx, func(st *state) error {
		for _, v := range st.videos {
			if v.LocalJobID == localJobID {
				out = append(out, v)
			}
		}
		return nil
	})
	return out, err
}

// RemovePendingVideo drops the queued upload. Removing an unknown id is a
// no-op.
func (s *Store) RemovePendingVideo(ctx context.Context, localID string) error {
	return s.update(ctx, func(st *state) error {
		n := len(st.videos)
		st.videos = slices.DeleteFunc(st.videos, func(v models.PendingVideo) bool { return v.LocalID == localID })
		st.videosDirty = len(st.videos) != n
		return nil
	})
}
