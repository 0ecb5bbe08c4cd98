package connectivity

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/jobkeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProber struct {
	up    atomic.Bool
	calls atomic.Int32
}

func (p *fakeProber) Ping(context.Context) error {
	p.calls.Add(1)
	if p.up.Load() {
		return nil
	}
	return errors.New("unreachable")
}

func TestStart_InitialStateIsSynchronousAndSilent(t *testing.T) {
	p := &fakeProber{}
	p.up.Store(true)
	m := NewMonitor(p, time.Hour, logging.Nop())
	ch, cancel := m.Subscribe()
	defer cancel()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	m.Start(ctx)

	assert.True(t, m.IsOnline())
	assert.EqualValues(t, 1, p.calls.Load())
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %+v", ev)
	default:
	}
}

func TestPolling_EmitsEdgesOnly(t *testing.T) {
	p := &fakeProber{}
	m := NewMonitor(p, 5*time.Millisecond, logging.Nop())
	ch, cancel := m.Subscribe()
	defer cancel()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	m.Start(ctx)
	require.False(t, m.IsOnline())

	p.up.Store(true)
	select {
	case ev := <-ch:
		assert.True(t, ev.Online)
	case <-time.After(time.Second):
		t.Fatal("no online event")
	}

	// Several more polls while still online publish nothing.
	calls := p.calls.Load()
	require.Eventually(t, func() bool { return p.calls.Load() > calls+3 }, time.Second, time.Millisecond)
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %+v", ev)
	default:
	}

	p.up.Store(false)
	select {
	case ev := <-ch:
		assert.False(t, ev.Online)
	case <-time.After(time.Second):
		t.Fatal("no offline event")
	}
}

func TestSet(t *testing.T) {
	m := NewMonitor(ProberFunc(func(context.Context) error { return nil }), time.Hour, nil)
	ch, cancel := m.Subscribe()
	defer cancel()

	m.Set(false)
	m.Set(true)
	m.Set(true)

	ev := <-ch
	assert.True(t, ev.Online)
	assert.False(t, ev.At.IsZero())
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %+v", ev)
	default:
	}
	assert.True(t, m.IsOnline())
}

func TestCheck(t *testing.T) {
	p := &fakeProber{}
	m := NewMonitor(p, time.Hour, nil)

	assert.False(t, m.Check(context.Background()))
	p.up.Store(true)
	assert.True(t, m.Check(context.Background()))
	assert.True(t, m.IsOnline())
}

func TestStop_ClosesSubscriptions(t *testing.T) {
	m := NewMonitor(&fakeProber{}, time.Millisecond, nil)
	ch, _ := m.Subscribe()

	ctx, stop := context.WithCancel(context.Background())
	m.Start(ctx)
	stop()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("subscription not closed")
	}
}
