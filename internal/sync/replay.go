package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/packsync/packsync/internal/api"
	"github.com/packsync/packsync/internal/offline"
	"github.com/packsync/packsync/internal/query"
	"github.com/packsync/packsync/internal/toast"
)

// errOpMalformed marks a queued operation that can't be dispatched
// (unknown kind, missing entity ID, undecodable payload). Such
// operations are parked dead rather than retried forever.
var errOpMalformed = errors.New("malformed pending operation")

// ReplayReport summarizes one replay pass over the offline queue.
type ReplayReport struct {
	Replayed  int
	Dead      int
	Remaining int
}

// ReplayQueue sends queued offline operations in recording order.
// Server rejections (4xx) park the operation dead; transport failures
// stop the pass, leaving the rest queued for the next reconnect.
// Mutations are never retried within a pass, the queue itself is the
// retry mechanism.
func (m *Mutator) ReplayQueue(ctx context.Context) (ReplayReport, error) {
	var report ReplayReport

	if m.queue == nil {
		return report, nil
	}

	ops, err := m.queue.Pending(ctx)
	if err != nil {
		return report, fmt.Errorf("replay queue: %w", err)
	}

	for i, op := range ops {
		sendErr := m.replayOne(ctx, op)

		if sendErr == nil {
			err = m.queue.MarkDone(ctx, op.ID)
			if err != nil {
				return report, fmt.Errorf("replay queue: %w", err)
			}

			report.Replayed++
			m.batcher.Add(op.ListID, query.Plan(op.ListID, op.Entity))

			continue
		}

		if terminal(sendErr) {
			err = m.queue.MarkDead(ctx, op.ID, sendErr.Error())
			if err != nil {
				return report, fmt.Errorf("replay queue: %w", err)
			}

			report.Dead++

			continue
		}

		// Transport failure: still offline. Count the attempt and stop.
		_ = m.queue.BumpAttempts(ctx, op.ID)
		report.Remaining = len(ops) - i

		return report, fmt.Errorf("replay queue: %w", sendErr)
	}

	if report.Replayed > 0 {
		m.notify.Notify(toast.Success, fmt.Sprintf("Synced %d offline change(s)", report.Replayed))
	}

	return report, nil
}

// terminal reports whether the server rejected the operation outright:
// a 4xx response, or an operation we can't even decode. Replaying these
// again can only fail the same way.
func terminal(err error) bool {
	if errors.Is(err, errOpMalformed) {
		return true
	}

	var httpErr *api.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status >= 400 && httpErr.Status < 500
	}

	return false
}

func (m *Mutator) replayOne(ctx context.Context, op offline.Op) error {
	switch op.Entity {
	case query.KindItem:
		return m.replayItem(ctx, op)
	case query.KindCategory:
		return m.replayCategory(ctx, op)
	case query.KindBag:
		return m.replayBag(ctx, op)
	case query.KindTraveler:
		return m.replayTraveler(ctx, op)
	}

	return fmt.Errorf("%w: entity %q", errOpMalformed, op.Entity)
}

func (m *Mutator) replayItem(ctx context.Context, op offline.Op) error {
	switch op.Kind {
	case offline.OpCreate:
		var draft api.ItemDraft

		err := json.Unmarshal(op.Payload, &draft)
		if err != nil {
			return fmt.Errorf("%w: %v", errOpMalformed, err)
		}

		_, err = m.backend.CreateItem(ctx, draft)

		return err
	case offline.OpUpdate:
		if op.EntityID == nil {
			return fmt.Errorf("%w: update without entity id", errOpMalformed)
		}

		var patch api.ItemPatch

		err := json.Unmarshal(op.Payload, &patch)
		if err != nil {
			return fmt.Errorf("%w: %v", errOpMalformed, err)
		}

		_, err = m.backend.UpdateItem(ctx, *op.EntityID, patch)

		return err
	case offline.OpDelete:
		if op.EntityID == nil {
			return fmt.Errorf("%w: delete without entity id", errOpMalformed)
		}

		return m.backend.DeleteItem(ctx, *op.EntityID)
	}

	return fmt.Errorf("%w: kind %q", errOpMalformed, op.Kind)
}

func (m *Mutator) replayCategory(ctx context.Context, op offline.Op) error {
	switch op.Kind {
	case offline.OpCreate:
		var draft api.CategoryDraft

		err := json.Unmarshal(op.Payload, &draft)
		if err != nil {
			return fmt.Errorf("%w: %v", errOpMalformed, err)
		}

		_, err = m.backend.CreateCategory(ctx, draft)

		return err
	case offline.OpUpdate:
		if op.EntityID == nil {
			return fmt.Errorf("%w: update without entity id", errOpMalformed)
		}

		var patch api.CategoryPatch

		err := json.Unmarshal(op.Payload, &patch)
		if err != nil {
			return fmt.Errorf("%w: %v", errOpMalformed, err)
		}

		_, err = m.backend.UpdateCategory(ctx, *op.EntityID, patch)

		return err
	case offline.OpDelete:
		if op.EntityID == nil {
			return fmt.Errorf("%w: delete without entity id", errOpMalformed)
		}

		return m.backend.DeleteCategory(ctx, *op.EntityID)
	}

	return fmt.Errorf("%w: kind %q", errOpMalformed, op.Kind)
}

func (m *Mutator) replayBag(ctx context.Context, op offline.Op) error {
	switch op.Kind {
	case offline.OpCreate:
		var draft api.BagDraft

		err := json.Unmarshal(op.Payload, &draft)
		if err != nil {
			return fmt.Errorf("%w: %v", errOpMalformed, err)
		}

		_, err = m.backend.CreateBag(ctx, draft)

		return err
	case offline.OpUpdate:
		if op.EntityID == nil {
			return fmt.Errorf("%w: update without entity id", errOpMalformed)
		}

		var patch api.BagPatch

		err := json.Unmarshal(op.Payload, &patch)
		if err != nil {
			return fmt.Errorf("%w: %v", errOpMalformed, err)
		}

		_, err = m.backend.UpdateBag(ctx, *op.EntityID, patch)

		return err
	case offline.OpDelete:
		if op.EntityID == nil {
			return fmt.Errorf("%w: delete without entity id", errOpMalformed)
		}

		return m.backend.DeleteBag(ctx, *op.EntityID)
	}

	return fmt.Errorf("%w: kind %q", errOpMalformed, op.Kind)
}

func (m *Mutator) replayTraveler(ctx context.Context, op offline.Op) error {
	switch op.Kind {
	case offline.OpCreate:
		var draft api.TravelerDraft

		err := json.Unmarshal(op.Payload, &draft)
		if err != nil {
			return fmt.Errorf("%w: %v", errOpMalformed, err)
		}

		_, err = m.backend.CreateTraveler(ctx, draft)

		return err
	case offline.OpUpdate:
		if op.EntityID == nil {
			return fmt.Errorf("%w: update without entity id", errOpMalformed)
		}

		var patch api.TravelerPatch

		err := json.Unmarshal(op.Payload, &patch)
		if err != nil {
			return fmt.Errorf("%w: %v", errOpMalformed, err)
		}

		_, err = m.backend.UpdateTraveler(ctx, *op.EntityID, patch)

		return err
	case offline.OpDelete:
		if op.EntityID == nil {
			return fmt.Errorf("%w: delete without entity id", errOpMalformed)
		}

		return m.backend.DeleteTraveler(ctx, *op.EntityID)
	}

	return fmt.Errorf("%w: kind %q", errOpMalformed, op.Kind)
}
