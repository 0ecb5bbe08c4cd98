package staging

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStage(t *testing.T) {
	s, err := NewStager(filepath.Join(t.TempDir(), "staging"))
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "clip.MOV")
	require.NoError(t, os.WriteFile(src, []byte("frames"), 0o600))

	a, err := s.Stage(src)
	require.NoError(t, err)
	b, err := s.Stage(src)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Equal(t, s.Dir(), filepath.Dir(a))
	assert.Equal(t, ".mov", filepath.Ext(a))

	data, err := os.ReadFile(a)
	require.NoError(t, err)
	assert.Equal(t, []byte("frames"), data)

	_, err = os.Stat(src)
	assert.NoError(t, err, "source is kept")
}

func TestStage_DefaultExtensionAndErrors(t *testing.T) {
	s, err := NewStager(t.TempDir())
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "raw")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o600))
	p, err := s.Stage(src)
	require.NoError(t, err)
	assert.Equal(t, ".mp4", filepath.Ext(p))

	_, err = s.Stage(filepath.Join(t.TempDir(), "missing.mp4"))
	assert.Error(t, err)
	_, err = s.Stage(t.TempDir())
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	s, err := NewStager(t.TempDir())
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o600))
	staged, err := s.Stage(src)
	require.NoError(t, err)

	require.NoError(t, s.Discard(staged))
	require.NoError(t, s.Discard(staged))
	_, err = os.Stat(staged)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, s.Discard(src))
	_, err = os.Stat(src)
	assert.NoError(t, err, "files outside the staging dir are never removed")
}

func TestWatcher_DebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	calls := make(chan struct{}, 10)
	w, err := NewWatcher(dir, 100*time.Millisecond, func(context.Context) { calls <- struct{}{} }, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "v.mp4"), []byte{byte(i)}, 0o600))
	}

	select {
	case <-calls:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not fire")
	}
	select {
	case <-calls:
		t.Fatal("burst produced more than one call")
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_MissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "nope"), time.Millisecond, func(context.Context) {}, nil)
	assert.Error(t, err)
}
