package api

import "time"

// ListSummary is the lightweight list representation used in list
// overviews and the recent-lists cache.
type ListSummary struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	ItemCount   int       `json:"itemCount"`
	PackedCount int       `json:"packedCount"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PackingList is the full list record.
type PackingList struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	OwnerID   int       `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Item is a single packing-list entry. CategoryID, BagID and TravelerID
// are nil when the item is unassigned for that dimension.
type Item struct {
	ID            int       `json:"id"`
	PackingListID int       `json:"packingListId"`
	Name          string    `json:"name"`
	Quantity      int       `json:"quantity"`
	Packed        bool      `json:"packed"`
	CategoryID    *int      `json:"categoryId"`
	BagID         *int      `json:"bagId"`
	TravelerID    *int      `json:"travelerId"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Category groups items within one list.
type Category struct {
	ID            int    `json:"id"`
	PackingListID int    `json:"packingListId"`
	Name          string `json:"name"`
	Position      int    `json:"position"`
}

// Bag is a physical container items are packed into.
type Bag struct {
	ID            int    `json:"id"`
	PackingListID int    `json:"packingListId"`
	Name          string `json:"name"`
}

// Traveler is a person items can be assigned to.
type Traveler struct {
	ID            int    `json:"id"`
	PackingListID int    `json:"packingListId"`
	Name          string `json:"name"`
}

// CompleteList is the aggregate view the main UI reads from: one list
// with all of its collections in a single response.
type CompleteList struct {
	List       PackingList `json:"list"`
	Categories []Category  `json:"categories"`
	Bags       []Bag       `json:"bags"`
	Travelers  []Traveler  `json:"travelers"`
	Items      []Item      `json:"items"`
}

// Collaborator is a user with access to a shared list.
type Collaborator struct {
	UserID int    `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Invitation is a pending offer to collaborate on a list.
type Invitation struct {
	ID            int       `json:"id"`
	PackingListID int       `json:"packingListId"`
	Email         string    `json:"email"`
	Token         string    `json:"token"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ItemDraft carries the fields for creating an item.
type ItemDraft struct {
	PackingListID int    `json:"packingListId"`
	Name          string `json:"name"`
	Quantity      int    `json:"quantity,omitempty"`
	CategoryID    *int   `json:"categoryId,omitempty"`
	BagID         *int   `json:"bagId,omitempty"`
	TravelerID    *int   `json:"travelerId,omitempty"`
}

// ItemPatch carries partial item updates. Nil fields are left unchanged.
// NullCategory/NullBag/NullTraveler explicitly clear an assignment, since
// a nil pointer already means "no change".
type ItemPatch struct {
	Name         *string `json:"name,omitempty"`
	Quantity     *int    `json:"quantity,omitempty"`
	Packed       *bool   `json:"packed,omitempty"`
	CategoryID   *int    `json:"categoryId,omitempty"`
	BagID        *int    `json:"bagId,omitempty"`
	TravelerID   *int    `json:"travelerId,omitempty"`
	NullCategory bool    `json:"nullCategory,omitempty"`
	NullBag      bool    `json:"nullBag,omitempty"`
	NullTraveler bool    `json:"nullTraveler,omitempty"`
}

// CategoryDraft carries the fields for creating a category.
type CategoryDraft struct {
	PackingListID int    `json:"packingListId"`
	Name          string `json:"name"`
	Position      int    `json:"position,omitempty"`
}

// CategoryPatch carries partial category updates.
type CategoryPatch struct {
	Name     *string `json:"name,omitempty"`
	Position *int    `json:"position,omitempty"`
}

// BagDraft carries the fields for creating a bag.
type BagDraft struct {
	PackingListID int    `json:"packingListId"`
	Name          string `json:"name"`
}

// BagPatch carries partial bag updates.
type BagPatch struct {
	Name *string `json:"name,omitempty"`
}

// TravelerDraft carries the fields for creating a traveler.
type TravelerDraft struct {
	PackingListID int    `json:"packingListId"`
	Name          string `json:"name"`
}

// TravelerPatch carries partial traveler updates.
type TravelerPatch struct {
	Name *string `json:"name,omitempty"`
}

// MultiEdit is the bulk field update payload for POST /items/multi-edit.
type MultiEdit struct {
	ItemIDs []int     `json:"itemIds"`
	Patch   ItemPatch `json:"patch"`
}

// BulkAssign moves a set of items to a category, bag or traveler. A nil
// TargetID clears the assignment.
type BulkAssign struct {
	ItemIDs  []int `json:"itemIds"`
	TargetID *int  `json:"targetId"`
}
