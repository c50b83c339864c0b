package api

import (
	"context"
	"fmt"
)

// Lists returns all packing lists visible to the session user.
func (c *Client) Lists(ctx context.Context) ([]ListSummary, error) {
	var out []ListSummary

	err := c.get(ctx, "/packing-lists", &out)
	if err != nil {
		return nil, fmt.Errorf("fetch lists: %w", err)
	}

	return out, nil
}

// ListSummary returns the lightweight summary for one list.
func (c *Client) ListSummary(ctx context.Context, listID int) (ListSummary, error) {
	var out ListSummary

	err := c.get(ctx, fmt.Sprintf("/packing-lists/%d/summary", listID), &out)
	if err != nil {
		return ListSummary{}, fmt.Errorf("fetch list %d summary: %w", listID, err)
	}

	return out, nil
}

// Complete returns the aggregate view for one list: the list record plus
// all of its categories, bags, travelers and items. This is the view the
// main UI reads from.
func (c *Client) Complete(ctx context.Context, listID int) (CompleteList, error) {
	var out CompleteList

	err := c.get(ctx, fmt.Sprintf("/packing-lists/%d/complete", listID), &out)
	if err != nil {
		return CompleteList{}, fmt.Errorf("fetch list %d complete view: %w", listID, err)
	}

	return out, nil
}

// CreateList creates a new packing list.
func (c *Client) CreateList(ctx context.Context, name string) (PackingList, error) {
	var out PackingList

	payload := struct {
		Name string `json:"name"`
	}{Name: name}

	err := c.do(ctx, "POST", "/packing-lists", payload, &out)
	if err != nil {
		return PackingList{}, fmt.Errorf("create list: %w", err)
	}

	return out, nil
}

// DeleteList deletes a packing list and everything in it.
func (c *Client) DeleteList(ctx context.Context, listID int) error {
	err := c.do(ctx, "DELETE", fmt.Sprintf("/packing-lists/%d", listID), nil, nil)
	if err != nil {
		return fmt.Errorf("delete list %d: %w", listID, err)
	}

	return nil
}

// ListCategories returns the categories of one list.
func (c *Client) ListCategories(ctx context.Context, listID int) ([]Category, error) {
	var out []Category

	err := c.get(ctx, fmt.Sprintf("/packing-lists/%d/categories", listID), &out)
	if err != nil {
		return nil, fmt.Errorf("fetch list %d categories: %w", listID, err)
	}

	return out, nil
}

// ListBags returns the bags of one list.
func (c *Client) ListBags(ctx context.Context, listID int) ([]Bag, error) {
	var out []Bag

	err := c.get(ctx, fmt.Sprintf("/packing-lists/%d/bags", listID), &out)
	if err != nil {
		return nil, fmt.Errorf("fetch list %d bags: %w", listID, err)
	}

	return out, nil
}

// ListTravelers returns the travelers of one list.
func (c *Client) ListTravelers(ctx context.Context, listID int) ([]Traveler, error) {
	var out []Traveler

	err := c.get(ctx, fmt.Sprintf("/packing-lists/%d/travelers", listID), &out)
	if err != nil {
		return nil, fmt.Errorf("fetch list %d travelers: %w", listID, err)
	}

	return out, nil
}

// ListItems returns the items of one list.
func (c *Client) ListItems(ctx context.Context, listID int) ([]Item, error) {
	var out []Item

	err := c.get(ctx, fmt.Sprintf("/packing-lists/%d/items", listID), &out)
	if err != nil {
		return nil, fmt.Errorf("fetch list %d items: %w", listID, err)
	}

	return out, nil
}

// UnassignedKind selects which foreign key an unassigned-items view
// filters on.
type UnassignedKind string

// Unassigned view kinds.
const (
	UnassignedCategory UnassignedKind = "category"
	UnassignedBag      UnassignedKind = "bag"
	UnassignedTraveler UnassignedKind = "traveler"
)

// Unassigned returns the items of one list whose category, bag or
// traveler assignment is null, depending on kind.
func (c *Client) Unassigned(ctx context.Context, listID int, kind UnassignedKind) ([]Item, error) {
	var out []Item

	err := c.get(ctx, fmt.Sprintf("/packing-lists/%d/unassigned/%s", listID, kind), &out)
	if err != nil {
		return nil, fmt.Errorf("fetch list %d unassigned %s items: %w", listID, kind, err)
	}

	return out, nil
}
