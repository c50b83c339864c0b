package query

// Plan returns the closed set of keys that may hold stale data after a
// mutation of the given entity kind on the given list.
//
// The Complete and Summary keys are appended unconditionally for every
// kind: the aggregate view is the single view the main UI reads from,
// and omitting it leaves the UI stale despite a successful write.
func Plan(listID int, kind EntityKind) []Key {
	var keys []Key

	switch kind {
	case KindItem:
		// Item moves can change counts in every grouping, so every
		// collection and unassigned view is suspect.
		keys = []Key{
			{ListID: listID, View: ViewCategories},
			{ListID: listID, View: ViewBags},
			{ListID: listID, View: ViewTravelers},
			{ListID: listID, View: ViewAllItems},
			{ListID: listID, View: ViewItems},
			{ListID: listID, View: ViewUnassignedCategory},
			{ListID: listID, View: ViewUnassignedBag},
			{ListID: listID, View: ViewUnassignedTraveler},
		}
	case KindCategory:
		keys = []Key{
			{ListID: listID, View: ViewCategories},
			{ListID: listID, View: ViewAllItems},
			{ListID: listID, View: ViewUnassignedCategory},
		}
	case KindBag:
		keys = []Key{
			{ListID: listID, View: ViewBags},
			{ListID: listID, View: ViewAllItems},
			{ListID: listID, View: ViewUnassignedBag},
		}
	case KindTraveler:
		keys = []Key{
			{ListID: listID, View: ViewTravelers},
			{ListID: listID, View: ViewAllItems},
			{ListID: listID, View: ViewUnassignedTraveler},
		}
	}

	return append(keys,
		Key{ListID: listID, View: ViewComplete},
		Key{ListID: listID, View: ViewSummary},
	)
}
