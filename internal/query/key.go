// Package query defines the closed cache-key taxonomy for packing-list
// data, the invalidation planner that maps entity mutations to stale
// keys, and the in-memory query cache those keys index into.
package query

import "fmt"

// EntityKind identifies which entity a mutation touched.
type EntityKind string

// Mutable entity kinds.
const (
	KindItem     EntityKind = "item"
	KindCategory EntityKind = "category"
	KindBag      EntityKind = "bag"
	KindTraveler EntityKind = "traveler"
)

// Valid reports whether k is one of the known entity kinds.
func (k EntityKind) Valid() bool {
	switch k {
	case KindItem, KindCategory, KindBag, KindTraveler:
		return true
	}

	return false
}

// View enumerates every cacheable server view. The set is closed on
// purpose: invalidation plans are built from these constants only, so a
// plan can never reference a key the cache doesn't know about.
type View uint8

// Views of one packing list, plus the list-independent overview.
const (
	ViewLists View = iota // all lists visible to the user; ListID is 0
	ViewSummary
	ViewComplete // the aggregate view the main UI reads from
	ViewCategories
	ViewBags
	ViewTravelers
	ViewItems
	ViewAllItems
	ViewUnassignedCategory
	ViewUnassignedBag
	ViewUnassignedTraveler
)

var viewNames = map[View]string{
	ViewLists:              "lists",
	ViewSummary:            "summary",
	ViewComplete:           "complete",
	ViewCategories:         "categories",
	ViewBags:               "bags",
	ViewTravelers:          "travelers",
	ViewItems:              "items",
	ViewAllItems:           "all-items",
	ViewUnassignedCategory: "unassigned-category",
	ViewUnassignedBag:      "unassigned-bag",
	ViewUnassignedTraveler: "unassigned-traveler",
}

func (v View) String() string {
	name, ok := viewNames[v]
	if !ok {
		return fmt.Sprintf("view(%d)", uint8(v))
	}

	return name
}

// Key addresses one cached server view. Comparable, so it can be used
// directly as a map key and collected into sets.
type Key struct {
	ListID int
	View   View
}

func (k Key) String() string {
	if k.View == ViewLists {
		return "lists"
	}

	return fmt.Sprintf("list/%d/%s", k.ListID, k.View)
}

// ListsKey addresses the list-independent overview of all lists.
func ListsKey() Key {
	return Key{View: ViewLists}
}

// SummaryKey addresses one list's summary.
func SummaryKey(listID int) Key {
	return Key{ListID: listID, View: ViewSummary}
}

// CompleteKey addresses one list's aggregate view.
func CompleteKey(listID int) Key {
	return Key{ListID: listID, View: ViewComplete}
}

// CollectionKey addresses the list-scoped collection an entity kind
// lives in: the key the mutation wrapper snapshots and optimistically
// edits.
func CollectionKey(listID int, kind EntityKind) Key {
	switch kind {
	case KindItem:
		return Key{ListID: listID, View: ViewItems}
	case KindCategory:
		return Key{ListID: listID, View: ViewCategories}
	case KindBag:
		return Key{ListID: listID, View: ViewBags}
	case KindTraveler:
		return Key{ListID: listID, View: ViewTravelers}
	}

	// Unreachable for valid kinds; callers validate with Valid().
	return Key{ListID: listID, View: ViewItems}
}
