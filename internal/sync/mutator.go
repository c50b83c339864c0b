package sync

import (
	"context"
	"encoding/json"
	"fmt"
	stdsync "sync"

	"github.com/packsync/packsync/internal/api"
	"github.com/packsync/packsync/internal/offline"
	"github.com/packsync/packsync/internal/query"
	"github.com/packsync/packsync/internal/toast"
)

// Backend is the slice of the REST client the mutator needs.
// *api.Client satisfies it; tests substitute a fake.
type Backend interface {
	CreateItem(ctx context.Context, draft api.ItemDraft) (api.Item, error)
	UpdateItem(ctx context.Context, itemID int, patch api.ItemPatch) (api.Item, error)
	DeleteItem(ctx context.Context, itemID int) error

	CreateCategory(ctx context.Context, draft api.CategoryDraft) (api.Category, error)
	UpdateCategory(ctx context.Context, categoryID int, patch api.CategoryPatch) (api.Category, error)
	DeleteCategory(ctx context.Context, categoryID int) error

	CreateBag(ctx context.Context, draft api.BagDraft) (api.Bag, error)
	UpdateBag(ctx context.Context, bagID int, patch api.BagPatch) (api.Bag, error)
	DeleteBag(ctx context.Context, bagID int) error

	CreateTraveler(ctx context.Context, draft api.TravelerDraft) (api.Traveler, error)
	UpdateTraveler(ctx context.Context, travelerID int, patch api.TravelerPatch) (api.Traveler, error)
	DeleteTraveler(ctx context.Context, travelerID int) error
}

// Connectivity reports whether the service should be treated as
// reachable. *netmon.Monitor satisfies it.
type Connectivity interface {
	Online() bool
}

// Outcome describes how a mutation concluded on the happy path.
type Outcome struct {
	// Queued is true when the device was offline and the change was
	// recorded for later sync instead of sent.
	Queued bool
}

// Options tune one mutation call.
type Options struct {
	// NoRollback leaves the optimistic cache state in place even when
	// the network call fails.
	NoRollback bool
}

// Option configures one mutation call.
type Option func(*Options)

// WithoutRollback disables rollback-on-error for this call.
func WithoutRollback() Option {
	return func(o *Options) { o.NoRollback = true }
}

// Mutator wraps entity mutations with the collaborative write contract:
// optimistic cache update before the call, rollback on failure, pending
// gauge held for the call's duration, offline recording, and batched
// invalidation on success.
type Mutator struct {
	backend Backend
	cache   *query.Cache
	batcher *Batcher
	status  *Status
	net     Connectivity
	queue   *offline.Queue
	notify  toast.Notifier

	mu     stdsync.Mutex
	tempID int
}

// NewMutator wires a mutator. queue may be nil, in which case offline
// mutations keep their optimistic state but are not recorded for replay.
func NewMutator(backend Backend, cache *query.Cache, batcher *Batcher, status *Status,
	net Connectivity, queue *offline.Queue, notify toast.Notifier,
) *Mutator {
	return &Mutator{
		backend: backend,
		cache:   cache,
		batcher: batcher,
		status:  status,
		net:     net,
		queue:   queue,
		notify:  notify,
	}
}

// nextTempID returns a fresh placeholder ID for an optimistic create.
// Always negative, so it can never collide with a server-assigned ID.
func (m *Mutator) nextTempID() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tempID--

	return m.tempID
}

// mutation carries everything the shared write path needs for one call.
type mutation struct {
	listID int
	kind   query.EntityKind
	opKind offline.OpKind
	// label names the entity in user-facing messages ("item", "bag").
	label string
	// entityID is set for updates and deletes.
	entityID *int
	// payload is the draft or patch, recorded verbatim when offline.
	payload any
	// apply performs the optimistic cache change and returns the
	// pre-change snapshot.
	apply func() query.Snapshot
	// send performs the network call.
	send func(ctx context.Context) error
}

// run executes the shared mutation sequence. The ordering is part of
// the contract: snapshot and optimistic update happen before the
// network call starts, and rollback happens before the error reaches
// the caller.
func (m *Mutator) run(ctx context.Context, mut mutation, opts ...Option) (Outcome, error) {
	var o Options

	for _, opt := range opts {
		opt(&o)
	}

	snap := mut.apply()

	m.status.Increment()
	defer m.status.Decrement()

	if !m.net.Online() {
		return m.recordOffline(ctx, mut)
	}

	err := mut.send(ctx)
	if err != nil {
		if !o.NoRollback {
			m.cache.Restore(snap)
		}

		if m.net.Online() {
			m.notify.Notify(toast.Error, fmt.Sprintf("Failed to %s %s", mut.opKind, mut.label))
		}

		return Outcome{}, err
	}

	m.batcher.Add(mut.listID, query.Plan(mut.listID, mut.kind))

	return Outcome{}, nil
}

// recordOffline keeps the optimistic state and queues the operation for
// replay. The caller is told the change will sync later; offline is an
// expected condition, not an error.
func (m *Mutator) recordOffline(ctx context.Context, mut mutation) (Outcome, error) {
	if m.queue != nil {
		payload, err := json.Marshal(mut.payload)
		if err != nil {
			return Outcome{}, fmt.Errorf("record offline %s %s: %w", mut.opKind, mut.label, err)
		}

		_, err = m.queue.Enqueue(ctx, offline.Op{
			Kind:     mut.opKind,
			Entity:   mut.kind,
			EntityID: mut.entityID,
			ListID:   mut.listID,
			Payload:  payload,
		})
		if err != nil {
			return Outcome{}, fmt.Errorf("record offline %s %s: %w", mut.opKind, mut.label, err)
		}
	}

	m.notify.Notify(toast.Info, fmt.Sprintf("Offline: %s will sync when connection returns", mut.label))

	return Outcome{Queued: true}, nil
}

// CreateItem optimistically appends the item with a temporary ID and
// sends the create.
func (m *Mutator) CreateItem(ctx context.Context, draft api.ItemDraft, opts ...Option) (Outcome, error) {
	listID := draft.PackingListID

	return m.run(ctx, mutation{
		listID:  listID,
		kind:    query.KindItem,
		opKind:  offline.OpCreate,
		label:   "item",
		payload: draft,
		apply: func() query.Snapshot {
			return applyCreateItem(m.cache, draft, m.nextTempID())
		},
		send: func(ctx context.Context) error {
			_, err := m.backend.CreateItem(ctx, draft)

			return err
		},
	}, opts...)
}

// UpdateItem optimistically merges the patch into the cached item.
func (m *Mutator) UpdateItem(ctx context.Context, listID, itemID int, patch api.ItemPatch, opts ...Option) (Outcome, error) {
	return m.run(ctx, mutation{
		listID:   listID,
		kind:     query.KindItem,
		opKind:   offline.OpUpdate,
		label:    "item",
		entityID: &itemID,
		payload:  patch,
		apply: func() query.Snapshot {
			return applyUpdateItem(m.cache, listID, itemID, patch)
		},
		send: func(ctx context.Context) error {
			_, err := m.backend.UpdateItem(ctx, itemID, patch)

			return err
		},
	}, opts...)
}

// DeleteItem optimistically removes the cached item.
func (m *Mutator) DeleteItem(ctx context.Context, listID, itemID int, opts ...Option) (Outcome, error) {
	return m.run(ctx, mutation{
		listID:   listID,
		kind:     query.KindItem,
		opKind:   offline.OpDelete,
		label:    "item",
		entityID: &itemID,
		payload:  struct{}{},
		apply: func() query.Snapshot {
			return applyDeleteItem(m.cache, listID, itemID)
		},
		send: func(ctx context.Context) error {
			return m.backend.DeleteItem(ctx, itemID)
		},
	}, opts...)
}

// CreateCategory optimistically appends the category.
func (m *Mutator) CreateCategory(ctx context.Context, draft api.CategoryDraft, opts ...Option) (Outcome, error) {
	listID := draft.PackingListID

	return m.run(ctx, mutation{
		listID:  listID,
		kind:    query.KindCategory,
		opKind:  offline.OpCreate,
		label:   "category",
		payload: draft,
		apply: func() query.Snapshot {
			return applyCreateCategory(m.cache, draft, m.nextTempID())
		},
		send: func(ctx context.Context) error {
			_, err := m.backend.CreateCategory(ctx, draft)

			return err
		},
	}, opts...)
}

// UpdateCategory optimistically merges the patch into the cached
// category.
func (m *Mutator) UpdateCategory(ctx context.Context, listID, categoryID int, patch api.CategoryPatch, opts ...Option) (Outcome, error) {
	return m.run(ctx, mutation{
		listID:   listID,
		kind:     query.KindCategory,
		opKind:   offline.OpUpdate,
		label:    "category",
		entityID: &categoryID,
		payload:  patch,
		apply: func() query.Snapshot {
			return applyUpdateCategory(m.cache, listID, categoryID, patch)
		},
		send: func(ctx context.Context) error {
			_, err := m.backend.UpdateCategory(ctx, categoryID, patch)

			return err
		},
	}, opts...)
}

// DeleteCategory optimistically removes the cached category.
func (m *Mutator) DeleteCategory(ctx context.Context, listID, categoryID int, opts ...Option) (Outcome, error) {
	return m.run(ctx, mutation{
		listID:   listID,
		kind:     query.KindCategory,
		opKind:   offline.OpDelete,
		label:    "category",
		entityID: &categoryID,
		payload:  struct{}{},
		apply: func() query.Snapshot {
			return applyDeleteCategory(m.cache, listID, categoryID)
		},
		send: func(ctx context.Context) error {
			return m.backend.DeleteCategory(ctx, categoryID)
		},
	}, opts...)
}

// CreateBag optimistically appends the bag.
func (m *Mutator) CreateBag(ctx context.Context, draft api.BagDraft, opts ...Option) (Outcome, error) {
	listID := draft.PackingListID

	return m.run(ctx, mutation{
		listID:  listID,
		kind:    query.KindBag,
		opKind:  offline.OpCreate,
		label:   "bag",
		payload: draft,
		apply: func() query.Snapshot {
			return applyCreateBag(m.cache, draft, m.nextTempID())
		},
		send: func(ctx context.Context) error {
			_, err := m.backend.CreateBag(ctx, draft)

			return err
		},
	}, opts...)
}

// UpdateBag optimistically merges the patch into the cached bag.
func (m *Mutator) UpdateBag(ctx context.Context, listID, bagID int, patch api.BagPatch, opts ...Option) (Outcome, error) {
	return m.run(ctx, mutation{
		listID:   listID,
		kind:     query.KindBag,
		opKind:   offline.OpUpdate,
		label:    "bag",
		entityID: &bagID,
		payload:  patch,
		apply: func() query.Snapshot {
			return applyUpdateBag(m.cache, listID, bagID, patch)
		},
		send: func(ctx context.Context) error {
			_, err := m.backend.UpdateBag(ctx, bagID, patch)

			return err
		},
	}, opts...)
}

// DeleteBag optimistically removes the cached bag.
func (m *Mutator) DeleteBag(ctx context.Context, listID, bagID int, opts ...Option) (Outcome, error) {
	return m.run(ctx, mutation{
		listID:   listID,
		kind:     query.KindBag,
		opKind:   offline.OpDelete,
		label:    "bag",
		entityID: &bagID,
		payload:  struct{}{},
		apply: func() query.Snapshot {
			return applyDeleteBag(m.cache, listID, bagID)
		},
		send: func(ctx context.Context) error {
			return m.backend.DeleteBag(ctx, bagID)
		},
	}, opts...)
}

// CreateTraveler optimistically appends the traveler.
func (m *Mutator) CreateTraveler(ctx context.Context, draft api.TravelerDraft, opts ...Option) (Outcome, error) {
	listID := draft.PackingListID

	return m.run(ctx, mutation{
		listID:  listID,
		kind:    query.KindTraveler,
		opKind:  offline.OpCreate,
		label:   "traveler",
		payload: draft,
		apply: func() query.Snapshot {
			return applyCreateTraveler(m.cache, draft, m.nextTempID())
		},
		send: func(ctx context.Context) error {
			_, err := m.backend.CreateTraveler(ctx, draft)

			return err
		},
	}, opts...)
}

// UpdateTraveler optimistically merges the patch into the cached
// traveler.
func (m *Mutator) UpdateTraveler(ctx context.Context, listID, travelerID int, patch api.TravelerPatch, opts ...Option) (Outcome, error) {
	return m.run(ctx, mutation{
		listID:   listID,
		kind:     query.KindTraveler,
		opKind:   offline.OpUpdate,
		label:    "traveler",
		entityID: &travelerID,
		payload:  patch,
		apply: func() query.Snapshot {
			return applyUpdateTraveler(m.cache, listID, travelerID, patch)
		},
		send: func(ctx context.Context) error {
			_, err := m.backend.UpdateTraveler(ctx, travelerID, patch)

			return err
		},
	}, opts...)
}

// DeleteTraveler optimistically removes the cached traveler.
func (m *Mutator) DeleteTraveler(ctx context.Context, listID, travelerID int, opts ...Option) (Outcome, error) {
	return m.run(ctx, mutation{
		listID:   listID,
		kind:     query.KindTraveler,
		opKind:   offline.OpDelete,
		label:    "traveler",
		entityID: &travelerID,
		payload:  struct{}{},
		apply: func() query.Snapshot {
			return applyDeleteTraveler(m.cache, listID, travelerID)
		},
		send: func(ctx context.Context) error {
			return m.backend.DeleteTraveler(ctx, travelerID)
		},
	}, opts...)
}
