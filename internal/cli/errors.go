package cli

import "errors"

var (
	errNoActiveList   = errors.New("no active list (run: packsync use <list-id>)")
	errListIDRequired = errors.New("list ID is required")
	errItemIDRequired = errors.New("item ID is required")
	errNameRequired   = errors.New("name is required")
	errEmailRequired  = errors.New("email is required")
	errTokenRequired  = errors.New("invitation token is required")
	errBadEntityKind  = errors.New("entity must be one of: item, category, bag, traveler")
	errNoMoveTarget   = errors.New("one of --to-category, --to-bag, --to-traveler is required")
	errNoItemsGiven   = errors.New("at least one item ID is required")
)
