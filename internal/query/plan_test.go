package query_test

import (
	"testing"

	"github.com/packsync/packsync/internal/query"
)

func Test_Plan_Always_Includes_Complete_And_Summary_Keys(t *testing.T) {
	t.Parallel()

	kinds := []query.EntityKind{
		query.KindItem,
		query.KindCategory,
		query.KindBag,
		query.KindTraveler,
	}

	for _, kind := range kinds {
		keys := query.Plan(7, kind)

		if !containsView(keys, query.ViewComplete) {
			t.Fatalf("plan for %s missing complete key: %v", kind, keys)
		}

		if !containsView(keys, query.ViewSummary) {
			t.Fatalf("plan for %s missing summary key: %v", kind, keys)
		}

		for _, k := range keys {
			if k.ListID != 7 {
				t.Fatalf("plan for %s contains foreign list key %v", kind, k)
			}
		}
	}
}

func Test_Plan_For_Item_Covers_All_Item_Family_Views(t *testing.T) {
	t.Parallel()

	keys := query.Plan(3, query.KindItem)

	want := []query.View{
		query.ViewCategories,
		query.ViewBags,
		query.ViewTravelers,
		query.ViewAllItems,
		query.ViewItems,
		query.ViewUnassignedCategory,
		query.ViewUnassignedBag,
		query.ViewUnassignedTraveler,
		query.ViewComplete,
		query.ViewSummary,
	}

	if len(keys) != len(want) {
		t.Fatalf("plan size = %d, want %d: %v", len(keys), len(want), keys)
	}

	for _, view := range want {
		if !containsView(keys, view) {
			t.Fatalf("item plan missing view %s: %v", view, keys)
		}
	}
}

func Test_Plan_For_Bag_Includes_Own_Collection_And_Unassigned_View(t *testing.T) {
	t.Parallel()

	keys := query.Plan(5, query.KindBag)

	for _, view := range []query.View{query.ViewBags, query.ViewAllItems, query.ViewUnassignedBag} {
		if !containsView(keys, view) {
			t.Fatalf("bag plan missing view %s: %v", view, keys)
		}
	}

	if containsView(keys, query.ViewUnassignedTraveler) {
		t.Fatalf("bag plan should not invalidate traveler views: %v", keys)
	}
}

func Test_CollectionKey_Maps_Each_Kind_To_Its_View(t *testing.T) {
	t.Parallel()

	cases := []struct {
		kind query.EntityKind
		view query.View
	}{
		{query.KindItem, query.ViewItems},
		{query.KindCategory, query.ViewCategories},
		{query.KindBag, query.ViewBags},
		{query.KindTraveler, query.ViewTravelers},
	}

	for _, tc := range cases {
		got := query.CollectionKey(9, tc.kind)
		if got.View != tc.view || got.ListID != 9 {
			t.Fatalf("CollectionKey(9, %s) = %v, want view %s", tc.kind, got, tc.view)
		}
	}
}

func Test_Key_String_Is_Stable(t *testing.T) {
	t.Parallel()

	if got := query.ListsKey().String(); got != "lists" {
		t.Fatalf("lists key = %q", got)
	}

	if got := query.CompleteKey(4).String(); got != "list/4/complete" {
		t.Fatalf("complete key = %q", got)
	}

	if got := (query.Key{ListID: 2, View: query.ViewUnassignedBag}).String(); got != "list/2/unassigned-bag" {
		t.Fatalf("unassigned bag key = %q", got)
	}
}

func containsView(keys []query.Key, view query.View) bool {
	for _, k := range keys {
		if k.View == view {
			return true
		}
	}

	return false
}
