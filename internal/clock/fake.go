package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake is a deterministic Clock for tests. Time only moves when Advance
// is called; due timer callbacks run synchronously inside Advance, in
// deadline order, without holding the clock's lock.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

// NewFake returns a fake clock initialized to a fixed UTC start time.
func NewFake() *Fake {
	return &Fake{
		now: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Now returns the fake's current time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.now
}

// AfterFunc registers fn to run when the fake clock advances past d.
func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()

	t := &fakeTimer{
		clock:    f,
		deadline: f.now.Add(d),
		fn:       fn,
		pending:  true,
	}
	f.timers = append(f.timers, t)

	return t
}

// Advance moves the clock forward by d, firing due timers in deadline
// order. Callbacks may register new timers; those fire too if they fall
// within the advanced window.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	f.mu.Unlock()

	for {
		t := f.popDue(target)
		if t == nil {
			break
		}

		t.fn()
	}

	f.mu.Lock()
	f.now = target
	f.mu.Unlock()
}

// popDue removes and returns the earliest pending timer with deadline at
// or before target, advancing now to that deadline. Returns nil when no
// timer is due.
func (f *Fake) popDue(target time.Time) *fakeTimer {
	f.mu.Lock()
	defer f.mu.Unlock()

	sort.SliceStable(f.timers, func(i, j int) bool {
		return f.timers[i].deadline.Before(f.timers[j].deadline)
	})

	for _, t := range f.timers {
		if !t.pending || t.deadline.After(target) {
			continue
		}

		t.pending = false
		f.now = t.deadline

		return t
	}

	return nil
}

type fakeTimer struct {
	clock    *Fake
	deadline time.Time
	fn       func()
	pending  bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	was := t.pending
	t.pending = false

	return was
}

func (t *fakeTimer) Reset(d time.Duration) bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	was := t.pending
	t.pending = true
	t.deadline = t.clock.now.Add(d)

	return was
}
