package sync

import stdsync "sync"

// Status is the process-wide gauge of in-flight mutations, consumed by
// anything that wants a global "saving..." indicator. It is constructed
// at application startup and injected; there is no package-level
// instance.
type Status struct {
	mu          stdsync.Mutex
	pending     int
	subscribers []func(pending int)
}

// NewStatus returns a gauge with no pending operations.
func NewStatus() *Status {
	return &Status{}
}

// Pending returns the number of in-flight mutations.
func (s *Status) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pending
}

// IsPending reports whether any mutation is in flight.
func (s *Status) IsPending() bool {
	return s.Pending() > 0
}

// Increment records the start of a mutation.
func (s *Status) Increment() {
	s.mu.Lock()
	s.pending++
	count := s.pending
	subs := s.subscribers
	s.mu.Unlock()

	for _, fn := range subs {
		fn(count)
	}
}

// Decrement records the end of a mutation, success or failure. Floored
// at zero to tolerate mismatched calls.
func (s *Status) Decrement() {
	s.mu.Lock()

	if s.pending > 0 {
		s.pending--
	}

	count := s.pending
	subs := s.subscribers
	s.mu.Unlock()

	for _, fn := range subs {
		fn(count)
	}
}

// Subscribe registers fn to run after every counter change with the new
// pending count. Subscribers must not block.
func (s *Status) Subscribe(fn func(pending int)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subscribers = append(s.subscribers, fn)
}
