package netmon_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/packsync/packsync/internal/netmon"
	"github.com/packsync/packsync/internal/toast"
)

// scriptedProbe returns results in sequence, repeating the last one.
type scriptedProbe struct {
	results []probeResult
	idx     int
}

type probeResult struct {
	latency time.Duration
	err     error
}

func (p *scriptedProbe) probe(context.Context) (time.Duration, error) {
	r := p.results[p.idx]
	if p.idx < len(p.results)-1 {
		p.idx++
	}

	return r.latency, r.err
}

func Test_Going_Offline_Shows_Warning_Once(t *testing.T) {
	t.Parallel()

	probe := &scriptedProbe{results: []probeResult{
		{latency: 20 * time.Millisecond},
		{err: errors.New("no route to host")},
		{err: errors.New("no route to host")},
	}}
	rec := &toast.Recorder{}
	monitor := netmon.NewMonitor(probe.probe, rec)

	ctx := context.Background()

	if got := monitor.Poll(ctx); got != netmon.Online {
		t.Fatalf("state = %s, want online", got)
	}

	if got := monitor.Poll(ctx); got != netmon.Offline {
		t.Fatalf("state = %s, want offline", got)
	}

	monitor.Poll(ctx) // still offline, no second toast

	entries := rec.Entries()
	if len(entries) != 1 {
		t.Fatalf("toasts = %+v, want exactly one offline warning", entries)
	}

	if entries[0].Level != toast.Warning {
		t.Fatalf("level = %s, want warning", entries[0].Level)
	}

	if monitor.Online() {
		t.Fatal("monitor should report offline")
	}
}

func Test_Reconnect_Shows_Confirmation_And_Latches_WasOffline_Once(t *testing.T) {
	t.Parallel()

	probe := &scriptedProbe{results: []probeResult{
		{err: errors.New("refused")},
		{latency: 20 * time.Millisecond},
	}}
	rec := &toast.Recorder{}
	monitor := netmon.NewMonitor(probe.probe, rec)

	ctx := context.Background()

	monitor.Poll(ctx)

	if monitor.ConsumeWasOffline() {
		t.Fatal("latch must not be set before a reconnect")
	}

	monitor.Poll(ctx)

	if !monitor.ConsumeWasOffline() {
		t.Fatal("latch must be set after offline->online")
	}

	if monitor.ConsumeWasOffline() {
		t.Fatal("latch must be consumed exactly once")
	}

	entries := rec.Entries()
	if len(entries) != 2 {
		t.Fatalf("toasts = %+v, want warning then confirmation", entries)
	}

	if entries[1].Level != toast.Success {
		t.Fatalf("reconnect toast level = %s, want success", entries[1].Level)
	}
}

func Test_Quality_Classified_From_Probe_Latency(t *testing.T) {
	t.Parallel()

	probe := &scriptedProbe{results: []probeResult{
		{latency: 20 * time.Millisecond},
		{latency: 900 * time.Millisecond},
	}}
	monitor := netmon.NewMonitor(probe.probe, toast.Discard{})

	ctx := context.Background()

	if monitor.Quality() != netmon.QualityUnknown {
		t.Fatal("quality must start unknown")
	}

	monitor.Poll(ctx)

	if got := monitor.Quality(); got != netmon.QualityGood {
		t.Fatalf("quality = %s, want good", got)
	}

	monitor.Poll(ctx)

	if got := monitor.Quality(); got != netmon.QualityPoor {
		t.Fatalf("quality = %s, want poor", got)
	}
}

func Test_Unknown_State_Counts_As_Online(t *testing.T) {
	t.Parallel()

	monitor := netmon.NewMonitor(nil, toast.Discard{})

	if !monitor.Online() {
		t.Fatal("unknown state should be treated as online until a probe says otherwise")
	}
}
