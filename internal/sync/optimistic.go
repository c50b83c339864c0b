package sync

import (
	"time"

	"github.com/packsync/packsync/internal/api"
	"github.com/packsync/packsync/internal/query"
)

// Optimistic cache edits. Each helper snapshots the entity's
// list-scoped collection, installs a replacement slice (cached values
// are immutable; see query.Cache), and returns the snapshot for
// rollback. A collection that was never fetched snapshots as absent and
// seeds from empty, so a rollback removes the entry again instead of
// leaving a fabricated one behind.

func applyCreateItem(cache *query.Cache, draft api.ItemDraft, tempID int) query.Snapshot {
	key := query.CollectionKey(draft.PackingListID, query.KindItem)
	snap := cache.Snapshot(key)

	cur, _ := cache.Get(key)
	items, _ := cur.([]api.Item)

	quantity := draft.Quantity
	if quantity == 0 {
		quantity = 1
	}

	next := make([]api.Item, 0, len(items)+1)
	next = append(next, items...)
	next = append(next, api.Item{
		ID:            tempID,
		PackingListID: draft.PackingListID,
		Name:          draft.Name,
		Quantity:      quantity,
		CategoryID:    draft.CategoryID,
		BagID:         draft.BagID,
		TravelerID:    draft.TravelerID,
		CreatedAt:     time.Now(),
	})

	cache.Set(key, next)

	return snap
}

func applyUpdateItem(cache *query.Cache, listID, itemID int, patch api.ItemPatch) query.Snapshot {
	key := query.CollectionKey(listID, query.KindItem)
	snap := cache.Snapshot(key)

	cur, ok := cache.Get(key)
	if !ok {
		return snap
	}

	items, _ := cur.([]api.Item)
	next := make([]api.Item, len(items))

	for i, item := range items {
		if item.ID == itemID {
			item = mergeItem(item, patch)
		}

		next[i] = item
	}

	cache.Set(key, next)

	return snap
}

func applyDeleteItem(cache *query.Cache, listID, itemID int) query.Snapshot {
	key := query.CollectionKey(listID, query.KindItem)
	snap := cache.Snapshot(key)

	cur, ok := cache.Get(key)
	if !ok {
		return snap
	}

	items, _ := cur.([]api.Item)
	next := make([]api.Item, 0, len(items))

	for _, item := range items {
		if item.ID == itemID {
			continue
		}

		next = append(next, item)
	}

	cache.Set(key, next)

	return snap
}

// mergeItem applies the non-nil patch fields to item. The Null* flags
// clear assignments; a nil pointer means "leave as is", so nil alone
// can't express "set to null".
func mergeItem(item api.Item, patch api.ItemPatch) api.Item {
	if patch.Name != nil {
		item.Name = *patch.Name
	}

	if patch.Quantity != nil {
		item.Quantity = *patch.Quantity
	}

	if patch.Packed != nil {
		item.Packed = *patch.Packed
	}

	if patch.CategoryID != nil {
		item.CategoryID = patch.CategoryID
	}

	if patch.BagID != nil {
		item.BagID = patch.BagID
	}

	if patch.TravelerID != nil {
		item.TravelerID = patch.TravelerID
	}

	if patch.NullCategory {
		item.CategoryID = nil
	}

	if patch.NullBag {
		item.BagID = nil
	}

	if patch.NullTraveler {
		item.TravelerID = nil
	}

	return item
}

func applyCreateCategory(cache *query.Cache, draft api.CategoryDraft, tempID int) query.Snapshot {
	key := query.CollectionKey(draft.PackingListID, query.KindCategory)
	snap := cache.Snapshot(key)

	cur, _ := cache.Get(key)
	categories, _ := cur.([]api.Category)

	next := make([]api.Category, 0, len(categories)+1)
	next = append(next, categories...)
	next = append(next, api.Category{
		ID:            tempID,
		PackingListID: draft.PackingListID,
		Name:          draft.Name,
		Position:      draft.Position,
	})

	cache.Set(key, next)

	return snap
}

func applyUpdateCategory(cache *query.Cache, listID, categoryID int, patch api.CategoryPatch) query.Snapshot {
	key := query.CollectionKey(listID, query.KindCategory)
	snap := cache.Snapshot(key)

	cur, ok := cache.Get(key)
	if !ok {
		return snap
	}

	categories, _ := cur.([]api.Category)
	next := make([]api.Category, len(categories))

	for i, category := range categories {
		if category.ID == categoryID {
			if patch.Name != nil {
				category.Name = *patch.Name
			}

			if patch.Position != nil {
				category.Position = *patch.Position
			}
		}

		next[i] = category
	}

	cache.Set(key, next)

	return snap
}

func applyDeleteCategory(cache *query.Cache, listID, categoryID int) query.Snapshot {
	key := query.CollectionKey(listID, query.KindCategory)
	snap := cache.Snapshot(key)

	cur, ok := cache.Get(key)
	if !ok {
		return snap
	}

	categories, _ := cur.([]api.Category)
	next := make([]api.Category, 0, len(categories))

	for _, category := range categories {
		if category.ID == categoryID {
			continue
		}

		next = append(next, category)
	}

	cache.Set(key, next)

	return snap
}

func applyCreateBag(cache *query.Cache, draft api.BagDraft, tempID int) query.Snapshot {
	key := query.CollectionKey(draft.PackingListID, query.KindBag)
	snap := cache.Snapshot(key)

	cur, _ := cache.Get(key)
	bags, _ := cur.([]api.Bag)

	next := make([]api.Bag, 0, len(bags)+1)
	next = append(next, bags...)
	next = append(next, api.Bag{
		ID:            tempID,
		PackingListID: draft.PackingListID,
		Name:          draft.Name,
	})

	cache.Set(key, next)

	return snap
}

func applyUpdateBag(cache *query.Cache, listID, bagID int, patch api.BagPatch) query.Snapshot {
	key := query.CollectionKey(listID, query.KindBag)
	snap := cache.Snapshot(key)

	cur, ok := cache.Get(key)
	if !ok {
		return snap
	}

	bags, _ := cur.([]api.Bag)
	next := make([]api.Bag, len(bags))

	for i, bag := range bags {
		if bag.ID == bagID && patch.Name != nil {
			bag.Name = *patch.Name
		}

		next[i] = bag
	}

	cache.Set(key, next)

	return snap
}

func applyDeleteBag(cache *query.Cache, listID, bagID int) query.Snapshot {
	key := query.CollectionKey(listID, query.KindBag)
	snap := cache.Snapshot(key)

	cur, ok := cache.Get(key)
	if !ok {
		return snap
	}

	bags, _ := cur.([]api.Bag)
	next := make([]api.Bag, 0, len(bags))

	for _, bag := range bags {
		if bag.ID == bagID {
			continue
		}

		next = append(next, bag)
	}

	cache.Set(key, next)

	return snap
}

func applyCreateTraveler(cache *query.Cache, draft api.TravelerDraft, tempID int) query.Snapshot {
	key := query.CollectionKey(draft.PackingListID, query.KindTraveler)
	snap := cache.Snapshot(key)

	cur, _ := cache.Get(key)
	travelers, _ := cur.([]api.Traveler)

	next := make([]api.Traveler, 0, len(travelers)+1)
	next = append(next, travelers...)
	next = append(next, api.Traveler{
		ID:            tempID,
		PackingListID: draft.PackingListID,
		Name:          draft.Name,
	})

	cache.Set(key, next)

	return snap
}

func applyUpdateTraveler(cache *query.Cache, listID, travelerID int, patch api.TravelerPatch) query.Snapshot {
	key := query.CollectionKey(listID, query.KindTraveler)
	snap := cache.Snapshot(key)

	cur, ok := cache.Get(key)
	if !ok {
		return snap
	}

	travelers, _ := cur.([]api.Traveler)
	next := make([]api.Traveler, len(travelers))

	for i, traveler := range travelers {
		if traveler.ID == travelerID && patch.Name != nil {
			traveler.Name = *patch.Name
		}

		next[i] = traveler
	}

	cache.Set(key, next)

	return snap
}

func applyDeleteTraveler(cache *query.Cache, listID, travelerID int) query.Snapshot {
	key := query.CollectionKey(listID, query.KindTraveler)
	snap := cache.Snapshot(key)

	cur, ok := cache.Get(key)
	if !ok {
		return snap
	}

	travelers, _ := cur.([]api.Traveler)
	next := make([]api.Traveler, 0, len(travelers))

	for _, traveler := range travelers {
		if traveler.ID == travelerID {
			continue
		}

		next = append(next, traveler)
	}

	cache.Set(key, next)

	return snap
}
