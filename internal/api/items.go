package api

import (
	"context"
	"fmt"
)

// CreateItem creates an item and returns the stored record with its
// server-assigned ID.
func (c *Client) CreateItem(ctx context.Context, draft ItemDraft) (Item, error) {
	var out Item

	err := c.do(ctx, "POST", "/items", draft, &out)
	if err != nil {
		return Item{}, fmt.Errorf("create item: %w", err)
	}

	return out, nil
}

// UpdateItem applies a partial update to one item.
func (c *Client) UpdateItem(ctx context.Context, itemID int, patch ItemPatch) (Item, error) {
	var out Item

	err := c.do(ctx, "PATCH", fmt.Sprintf("/items/%d", itemID), patch, &out)
	if err != nil {
		return Item{}, fmt.Errorf("update item %d: %w", itemID, err)
	}

	return out, nil
}

// DeleteItem deletes one item.
func (c *Client) DeleteItem(ctx context.Context, itemID int) error {
	err := c.do(ctx, "DELETE", fmt.Sprintf("/items/%d", itemID), nil, nil)
	if err != nil {
		return fmt.Errorf("delete item %d: %w", itemID, err)
	}

	return nil
}

// MultiEditItems applies the same partial update to every item in the id
// list in one request.
func (c *Client) MultiEditItems(ctx context.Context, edit MultiEdit) ([]Item, error) {
	var out []Item

	err := c.do(ctx, "POST", "/items/multi-edit", edit, &out)
	if err != nil {
		return nil, fmt.Errorf("multi-edit items: %w", err)
	}

	return out, nil
}

// MoveItemsToCategory bulk-moves items into a category (nil target
// clears the category).
func (c *Client) MoveItemsToCategory(ctx context.Context, assign BulkAssign) ([]Item, error) {
	var out []Item

	err := c.do(ctx, "POST", "/items/move-category", assign, &out)
	if err != nil {
		return nil, fmt.Errorf("move items to category: %w", err)
	}

	return out, nil
}

// AssignItemsToBag bulk-assigns items to a bag (nil target clears the
// bag).
func (c *Client) AssignItemsToBag(ctx context.Context, assign BulkAssign) ([]Item, error) {
	var out []Item

	err := c.do(ctx, "POST", "/items/assign-bag", assign, &out)
	if err != nil {
		return nil, fmt.Errorf("assign items to bag: %w", err)
	}

	return out, nil
}

// AssignItemsToTraveler bulk-assigns items to a traveler (nil target
// clears the traveler).
func (c *Client) AssignItemsToTraveler(ctx context.Context, assign BulkAssign) ([]Item, error) {
	var out []Item

	err := c.do(ctx, "POST", "/items/assign-traveler", assign, &out)
	if err != nil {
		return nil, fmt.Errorf("assign items to traveler: %w", err)
	}

	return out, nil
}
