// Package connectivity tracks whether the backend is reachable and reports
// transitions between the online and offline states.
package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/jobkeeper/internal/client/events"
	"github.com/dmitrijs2005/jobkeeper/internal/logging"
)

// Prober answers whether the backend can be reached right now.
type Prober interface {
	Ping(ctx context.Context) error
}

type ProberFunc func(ctx context.Context) error

func (f ProberFunc) Ping(ctx context.Context) error { return f(ctx) }

// Event is a transition. It is published only when the state flips.
type Event struct {
	Online bool
	At     time.Time
}

type Monitor struct {
	prober   Prober
	interval time.Duration
	log      logging.Logger
	bus      *events.Broadcaster[Event]

	mu     sync.RWMutex
	online bool
}

func NewMonitor(p Prober, interval time.Duration, log logging.Logger) *Monitor {
	if log == nil {
		log = logging.Nop()
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Monitor{
		prober:   p,
		interval: interval,
		log:      log.With("component", "connectivity"),
		bus:      events.NewBroadcaster[Event](8),
	}
}

// Start establishes the initial state with a synchronous probe, without
// publishing an event, and then polls in the background until ctx is done.
func (m *Monitor) Start(ctx context.Context) {
	online := m.probe(ctx)
	m.mu.Lock()
	m.online = online
	m.mu.Unlock()
	m.log.Info(ctx, "initial connectivity", "online", online)

	go m.loop(ctx)
}

func (m *Monitor) loop(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	defer m.bus.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Set(m.probe(ctx))
		}
	}
}

func (m *Monitor) probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, m.interval)
	defer cancel()

	if err := m.prober.Ping(ctx); err != nil {
		m.log.Debug(ctx, "probe failed", "error", err)
		return false
	}
	return true
}

// Check probes immediately and records the result.
func (m *Monitor) Check(ctx context.Context) bool {
	online := m.probe(ctx)
	m.Set(online)
	return online
}

// IsOnline returns the last observed state.
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// Set records an observation from outside the poll loop, such as a platform
// network hook. An event is published only if the state changes.
func (m *Monitor) Set(online bool) {
	m.mu.Lock()
	changed := m.online != online
	m.online = online
	m.mu.Unlock()

	if !changed {
		return
	}
	m.log.Info(context.Background(), "connectivity changed", "online", online)
	m.bus.Publish(Event{Online: online, At: time.Now()})
}

// Subscribe returns a channel of transitions and a function releasing it.
func (m *Monitor) Subscribe() (<-chan Event, func()) {
	return m.bus.Subscribe()
}
