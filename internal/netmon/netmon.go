// Package netmon tracks whether the packing-list service is reachable.
// A periodic probe drives Online/Offline transitions, surfaces them as
// notifications, and classifies connection quality from probe latency.
package netmon

import (
	"context"
	"sync"
	"time"

	"github.com/packsync/packsync/internal/toast"
)

// State is the connectivity state.
type State uint8

// Connectivity states. Unknown only lasts until the first probe.
const (
	Unknown State = iota
	Online
	Offline
)

func (s State) String() string {
	switch s {
	case Online:
		return "online"
	case Offline:
		return "offline"
	}

	return "unknown"
}

// Quality is the best-effort connection quality classification.
type Quality uint8

// Quality classifications. Stays QualityUnknown until a probe succeeds.
const (
	QualityUnknown Quality = iota
	QualityGood
	QualityPoor
)

func (q Quality) String() string {
	switch q {
	case QualityGood:
		return "good"
	case QualityPoor:
		return "poor"
	}

	return "unknown"
}

// Probe latency above this classifies the connection as poor.
const qualityGoodMax = 500 * time.Millisecond

const defaultInterval = 15 * time.Second

// ProbeFunc checks reachability and returns the round-trip latency.
// (*api.Client).Ping satisfies this.
type ProbeFunc func(ctx context.Context) (time.Duration, error)

// Monitor owns the connectivity state. Construct with NewMonitor, start
// the probe loop with Run, and inject the monitor wherever online/
// offline decisions are made.
type Monitor struct {
	mu         sync.Mutex
	probe      ProbeFunc
	notify     toast.Notifier
	interval   time.Duration
	state      State
	quality    Quality
	wasOffline bool
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithInterval overrides the probe interval.
func WithInterval(d time.Duration) Option {
	return func(m *Monitor) { m.interval = d }
}

// NewMonitor returns a monitor in the Unknown state.
func NewMonitor(probe ProbeFunc, notify toast.Notifier, opts ...Option) *Monitor {
	m := &Monitor{
		probe:    probe,
		notify:   notify,
		interval: defaultInterval,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// State returns the current connectivity state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

// Online reports whether the service should be treated as reachable.
// Unknown counts as online: mutations attempt the network until a probe
// proves otherwise.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state != Offline
}

// Quality returns the current connection quality classification.
func (m *Monitor) Quality() Quality {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.quality
}

// ConsumeWasOffline reports whether an Offline->Online transition
// happened since the last call, clearing the latch. Each transition is
// observed exactly once, so catch-up refreshes run once, not per poll.
func (m *Monitor) ConsumeWasOffline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	was := m.wasOffline
	m.wasOffline = false

	return was
}

// Poll performs one probe and applies any state transition. Returns the
// resulting state.
func (m *Monitor) Poll(ctx context.Context) State {
	latency, err := m.probe(ctx)

	m.mu.Lock()

	prev := m.state

	if err != nil {
		m.state = Offline
	} else {
		m.state = Online

		if latency > qualityGoodMax {
			m.quality = QualityPoor
		} else {
			m.quality = QualityGood
		}
	}

	next := m.state

	if prev == Offline && next == Online {
		m.wasOffline = true
	}

	m.mu.Unlock()

	switch {
	case next == Offline && prev != Offline:
		m.notify.Notify(toast.Warning, "You are offline. Changes will sync when connection returns.")
	case next == Online && prev == Offline:
		m.notify.Notify(toast.Success, "Back online.")
	}

	return next
}

// Run polls until ctx is canceled. Blocks; run it in its own goroutine.
func (m *Monitor) Run(ctx context.Context) {
	m.Poll(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Poll(ctx)
		}
	}
}

// SetOffline forces the offline state, for tests and for the CLI's
// --offline flag.
func (m *Monitor) SetOffline() {
	m.mu.Lock()
	prev := m.state
	m.state = Offline
	m.mu.Unlock()

	if prev != Offline {
		m.notify.Notify(toast.Warning, "You are offline. Changes will sync when connection returns.")
	}
}
