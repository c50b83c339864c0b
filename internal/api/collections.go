package api

import (
	"context"
	"fmt"
)

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, draft CategoryDraft) (Category, error) {
	var out Category

	err := c.do(ctx, "POST", "/categories", draft, &out)
	if err != nil {
		return Category{}, fmt.Errorf("create category: %w", err)
	}

	return out, nil
}

// UpdateCategory applies a partial update to one category.
func (c *Client) UpdateCategory(ctx context.Context, categoryID int, patch CategoryPatch) (Category, error) {
	var out Category

	err := c.do(ctx, "PATCH", fmt.Sprintf("/categories/%d", categoryID), patch, &out)
	if err != nil {
		return Category{}, fmt.Errorf("update category %d: %w", categoryID, err)
	}

	return out, nil
}

// DeleteCategory deletes one category. Items in it become uncategorized.
func (c *Client) DeleteCategory(ctx context.Context, categoryID int) error {
	err := c.do(ctx, "DELETE", fmt.Sprintf("/categories/%d", categoryID), nil, nil)
	if err != nil {
		return fmt.Errorf("delete category %d: %w", categoryID, err)
	}

	return nil
}

// CreateBag creates a bag.
func (c *Client) CreateBag(ctx context.Context, draft BagDraft) (Bag, error) {
	var out Bag

	err := c.do(ctx, "POST", "/bags", draft, &out)
	if err != nil {
		return Bag{}, fmt.Errorf("create bag: %w", err)
	}

	return out, nil
}

// UpdateBag applies a partial update to one bag.
func (c *Client) UpdateBag(ctx context.Context, bagID int, patch BagPatch) (Bag, error) {
	var out Bag

	err := c.do(ctx, "PATCH", fmt.Sprintf("/bags/%d", bagID), patch, &out)
	if err != nil {
		return Bag{}, fmt.Errorf("update bag %d: %w", bagID, err)
	}

	return out, nil
}

// DeleteBag deletes one bag. Items in it become unassigned.
func (c *Client) DeleteBag(ctx context.Context, bagID int) error {
	err := c.do(ctx, "DELETE", fmt.Sprintf("/bags/%d", bagID), nil, nil)
	if err != nil {
		return fmt.Errorf("delete bag %d: %w", bagID, err)
	}

	return nil
}

// CreateTraveler creates a traveler.
func (c *Client) CreateTraveler(ctx context.Context, draft TravelerDraft) (Traveler, error) {
	var out Traveler

	err := c.do(ctx, "POST", "/travelers", draft, &out)
	if err != nil {
		return Traveler{}, fmt.Errorf("create traveler: %w", err)
	}

	return out, nil
}

// UpdateTraveler applies a partial update to one traveler.
func (c *Client) UpdateTraveler(ctx context.Context, travelerID int, patch TravelerPatch) (Traveler, error) {
	var out Traveler

	err := c.do(ctx, "PATCH", fmt.Sprintf("/travelers/%d", travelerID), patch, &out)
	if err != nil {
		return Traveler{}, fmt.Errorf("update traveler %d: %w", travelerID, err)
	}

	return out, nil
}

// DeleteTraveler deletes one traveler. Items assigned to them become
// unassigned.
func (c *Client) DeleteTraveler(ctx context.Context, travelerID int) error {
	err := c.do(ctx, "DELETE", fmt.Sprintf("/travelers/%d", travelerID), nil, nil)
	if err != nil {
		return fmt.Errorf("delete traveler %d: %w", travelerID, err)
	}

	return nil
}
