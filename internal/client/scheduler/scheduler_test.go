package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	require.ErrorIs(t, Validate(""), ErrDisabled)
	require.NoError(t, Validate("*/5 * * * *"))
	require.NoError(t, Validate("@every 15m"))
	require.Error(t, Validate("every now and then"))
}

func TestNew(t *testing.T) {
	_, err := New("", nil)
	require.ErrorIs(t, err, ErrDisabled)

	s, err := New("0 * * * *", nil)
	require.NoError(t, err)

	from := time.Date(2025, 1, 1, 10, 30, 0, 0, time.Local)
	assert.Equal(t, time.Date(2025, 1, 1, 11, 0, 0, 0, time.Local), s.Next(from))
}

func TestStart_RunsJobUntilCancelled(t *testing.T) {
	s, err := New("@every 1s", nil)
	require.NoError(t, err)

	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx, func(context.Context) { runs.Add(1) }))

	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
	cancel()

	time.Sleep(100 * time.Millisecond)
	after := runs.Load()
	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}

func TestStart_SkipsActivationWhileRunning(t *testing.T) {
	s, err := New("@every 1s", nil)
	require.NoError(t, err)

	var runs atomic.Int32
	release := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Start(ctx, func(context.Context) {
		if runs.Add(1) == 1 {
			<-release
		}
	}))

	require.Eventually(t, func() bool { return runs.Load() == 1 }, 3*time.Second, 20*time.Millisecond)
	// At least two more activations fire while the first run blocks.
	time.Sleep(2500 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())

	close(release)
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 3*time.Second, 20*time.Millisecond)
}
