// Package sync implements the client-side write path: optimistic
// mutations with rollback, the debounced invalidation batcher, the
// pending-operation gauge, and replay of the offline queue.
package sync

import (
	stdsync "sync"
	"time"

	"github.com/packsync/packsync/internal/clock"
	"github.com/packsync/packsync/internal/query"
)

// Debounce tuning. The window slides on every new key; a batch younger
// than minBatchAge when its timer fires is re-checked at retryDelay
// until it has settled.
const (
	debounceWindow = 150 * time.Millisecond
	minBatchAge    = 100 * time.Millisecond
	retryDelay     = 50 * time.Millisecond
)

// FlushFunc receives the merged key set for one list once its debounce
// window has settled.
type FlushFunc func(listID int, keys []query.Key)

// Batcher coalesces invalidation requests per packing list. Many
// mutations landing within one debounce window produce a single flush
// whose key set is the union of every request's keys.
//
// Each list moves through idle -> accumulating -> flushing -> idle.
// Requests arriving while a flush runs start a fresh accumulating cycle
// on the shorter retry delay so the queue drains quickly.
type Batcher struct {
	mu       stdsync.Mutex
	clk      clock.Clock
	flush    FlushFunc
	batches  map[int]*batch
	flushing map[int]bool
	stopped  bool
}

type batch struct {
	keys      map[query.Key]struct{}
	createdAt time.Time
	timer     clock.Timer
}

// NewBatcher returns a batcher that delivers settled key sets to flush.
func NewBatcher(clk clock.Clock, flush FlushFunc) *Batcher {
	return &Batcher{
		clk:      clk,
		flush:    flush,
		batches:  make(map[int]*batch),
		flushing: make(map[int]bool),
	}
}

// Add merges keys into the list's pending batch, creating one if the
// list is idle, and slides the debounce window.
func (b *Batcher) Add(listID int, keys []query.Key) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopped {
		return
	}

	cur, ok := b.batches[listID]
	if ok {
		for _, k := range keys {
			cur.keys[k] = struct{}{}
		}

		cur.timer.Reset(debounceWindow)

		return
	}

	window := debounceWindow
	if b.flushing[listID] {
		window = retryDelay
	}

	cur = &batch{
		keys:      make(map[query.Key]struct{}, len(keys)),
		createdAt: b.clk.Now(),
	}

	for _, k := range keys {
		cur.keys[k] = struct{}{}
	}

	cur.timer = b.clk.AfterFunc(window, func() { b.onTimer(listID) })
	b.batches[listID] = cur
}

// Immediate bypasses batching and flushes keys for the list right away.
// Any pending batch for the list is folded in so its keys aren't flushed
// a second time later.
func (b *Batcher) Immediate(listID int, keys []query.Key) {
	b.mu.Lock()

	if b.stopped {
		b.mu.Unlock()

		return
	}

	merged := make(map[query.Key]struct{}, len(keys))
	for _, k := range keys {
		merged[k] = struct{}{}
	}

	if cur, ok := b.batches[listID]; ok {
		cur.timer.Stop()
		delete(b.batches, listID)

		for k := range cur.keys {
			merged[k] = struct{}{}
		}
	}

	b.mu.Unlock()

	b.flush(listID, keySlice(merged))
}

// Stop cancels every pending batch without flushing. Part of application
// teardown; a stopped batcher ignores further requests.
func (b *Batcher) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopped = true

	for listID, cur := range b.batches {
		cur.timer.Stop()
		delete(b.batches, listID)
	}
}

// PendingLists returns how many lists currently have an unflushed batch.
func (b *Batcher) PendingLists() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.batches)
}

func (b *Batcher) onTimer(listID int) {
	b.mu.Lock()

	cur, ok := b.batches[listID]
	if !ok || b.stopped {
		b.mu.Unlock()

		return
	}

	// A batch that just started accumulating gets another moment to
	// settle before we pay for a refetch round.
	if b.clk.Now().Sub(cur.createdAt) < minBatchAge {
		cur.timer = b.clk.AfterFunc(retryDelay, func() { b.onTimer(listID) })
		b.mu.Unlock()

		return
	}

	delete(b.batches, listID)
	b.flushing[listID] = true
	keys := keySlice(cur.keys)
	b.mu.Unlock()

	b.flush(listID, keys)

	b.mu.Lock()
	delete(b.flushing, listID)
	b.mu.Unlock()
}

func keySlice(set map[query.Key]struct{}) []query.Key {
	out := make([]query.Key, 0, len(set))
	for k := range set {
		out = append(out, k)
	}

	return out
}
