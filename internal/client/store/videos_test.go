package store

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/jobkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingVideos(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	v1, err := s.AddPendingVideo(ctx, "S1", "job-a", "/staging/1.mp4")
	require.NoError(t, err)
	assert.NotEmpty(t, v1.LocalID)
	assert.False(t, v1.CreatedAt.IsZero())
	_, err = s.AddPendingVideo(ctx, "job-b", "job-b", "/staging/2.mp4")
	require.NoError(t, err)

	all, err := s.ListPendingVideos(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	forA, err := s.PendingVideosForJob(ctx, "job-a")
	require.NoError(t, err)
	require.Len(t, forA, 1)
	assert.Equal(t, "S1", forA[0].JobRef)
	assert.Equal(t, "/staging/1.mp4", forA[0].FilePath)

	require.NoError(t, s.RemovePendingVideo(ctx, v1.LocalID))
	require.NoError(t, s.RemovePendingVideo(ctx, v1.LocalID))

	all, _ = s.ListPendingVideos(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, "job-b", all[0].LocalJobID)
}

func TestGetPendingVideo(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	v, err := s.AddPendingVideo(ctx, "S1", "job-a", "/staging/1.mp4")
	require.NoError(t, err)

	got, err := s.GetPendingVideo(ctx, v.LocalID)
	require.NoError(t, err)
	assert.Equal(t, v.FilePath, got.FilePath)
	assert.Equal(t, "job-a", got.LocalJobID)

	require.NoError(t, s.RemovePendingVideo(ctx, v.LocalID))
	_, err = s.GetPendingVideo(ctx, v.LocalID)
	require.ErrorIs(t, err, common.ErrNotFound)
}
