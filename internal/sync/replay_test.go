package sync_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/packsync/packsync/internal/api"
	"github.com/packsync/packsync/internal/offline"
	"github.com/packsync/packsync/internal/query"
	"github.com/packsync/packsync/internal/toast"
)

func mustPayload(t *testing.T, v any) []byte {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)

	return data
}

func openQueue(t *testing.T) *offline.Queue {
	t.Helper()

	queue, err := offline.Open(context.Background(), t.TempDir())
	require.NoError(t, err)

	t.Cleanup(func() { _ = queue.Close() })

	return queue
}

func Test_ReplayQueue_Sends_Ops_In_Recording_Order(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	queue := openQueue(t)

	_, err := queue.Enqueue(ctx, offline.Op{
		Kind:    offline.OpCreate,
		Entity:  query.KindItem,
		ListID:  7,
		Payload: mustPayload(t, api.ItemDraft{PackingListID: 7, Name: "Sunscreen"}),
	})
	require.NoError(t, err)

	itemID := 42
	packed := true

	_, err = queue.Enqueue(ctx, offline.Op{
		Kind:     offline.OpUpdate,
		Entity:   query.KindItem,
		EntityID: &itemID,
		ListID:   7,
		Payload:  mustPayload(t, api.ItemPatch{Packed: &packed}),
	})
	require.NoError(t, err)

	h := newHarness(t, true, queue)

	report, err := h.mutator.ReplayQueue(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, report.Replayed)
	require.Equal(t, []string{"create-item", "update-item"}, h.backend.calls)

	remaining, err := queue.CountPending(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, remaining)

	entries := h.notify.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, toast.Success, entries[0].Level)
}

func Test_ReplayQueue_Parks_Rejected_Ops_Dead(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	queue := openQueue(t)

	_, err := queue.Enqueue(ctx, offline.Op{
		Kind:    offline.OpCreate,
		Entity:  query.KindBag,
		ListID:  2,
		Payload: mustPayload(t, api.BagDraft{PackingListID: 2, Name: "Duffel"}),
	})
	require.NoError(t, err)

	h := newHarness(t, true, queue)
	h.backend.failWith = &api.HTTPError{Status: 422, Message: "duplicate bag"}

	report, err := h.mutator.ReplayQueue(ctx)
	require.NoError(t, err, "a rejection is handled, not propagated")
	require.Equal(t, 1, report.Dead)

	remaining, err := queue.CountPending(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, remaining, "dead ops leave the pending set")
}

func Test_ReplayQueue_Stops_On_Transport_Failure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	queue := openQueue(t)

	for _, name := range []string{"Sunscreen", "Towel"} {
		_, err := queue.Enqueue(ctx, offline.Op{
			Kind:    offline.OpCreate,
			Entity:  query.KindItem,
			ListID:  7,
			Payload: mustPayload(t, api.ItemDraft{PackingListID: 7, Name: name}),
		})
		require.NoError(t, err)
	}

	h := newHarness(t, true, queue)
	h.backend.failWith = &api.NetworkError{Err: context.DeadlineExceeded}

	report, err := h.mutator.ReplayQueue(ctx)
	require.Error(t, err, "a transport failure surfaces so callers know sync is incomplete")
	require.Equal(t, 0, report.Replayed)
	require.Equal(t, 2, report.Remaining)

	remaining, err := queue.CountPending(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, remaining, "everything stays queued for the next reconnect")
}

func Test_ReplayQueue_Parks_Malformed_Ops_Dead(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	queue := openQueue(t)

	// Update without an entity ID can never be dispatched.
	_, err := queue.Enqueue(ctx, offline.Op{
		Kind:    offline.OpUpdate,
		Entity:  query.KindItem,
		ListID:  7,
		Payload: mustPayload(t, api.ItemPatch{}),
	})
	require.NoError(t, err)

	h := newHarness(t, true, queue)

	report, err := h.mutator.ReplayQueue(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.Dead)
	require.Empty(t, h.backend.calls)
}
