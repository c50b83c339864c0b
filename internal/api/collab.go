package api

import (
	"context"
	"fmt"
)

// Invitations returns the pending invitations for a list.
func (c *Client) Invitations(ctx context.Context, listID int) ([]Invitation, error) {
	var out []Invitation

	err := c.get(ctx, fmt.Sprintf("/packing-lists/%d/invitations", listID), &out)
	if err != nil {
		return nil, fmt.Errorf("fetch list %d invitations: %w", listID, err)
	}

	return out, nil
}

// Invite creates an invitation for email to collaborate on a list.
func (c *Client) Invite(ctx context.Context, listID int, email string) (Invitation, error) {
	var out Invitation

	payload := struct {
		Email string `json:"email"`
	}{Email: email}

	err := c.do(ctx, "POST", fmt.Sprintf("/packing-lists/%d/invitations", listID), payload, &out)
	if err != nil {
		return Invitation{}, fmt.Errorf("invite %s to list %d: %w", email, listID, err)
	}

	return out, nil
}

// AcceptInvitation redeems an invitation token for the session user and
// returns the list they now collaborate on.
func (c *Client) AcceptInvitation(ctx context.Context, token string) (PackingList, error) {
	var out PackingList

	payload := struct {
		Token string `json:"token"`
	}{Token: token}

	err := c.do(ctx, "POST", "/invitations/accept", payload, &out)
	if err != nil {
		return PackingList{}, fmt.Errorf("accept invitation: %w", err)
	}

	return out, nil
}

// Collaborators returns the collaborators of a list.
func (c *Client) Collaborators(ctx context.Context, listID int) ([]Collaborator, error) {
	var out []Collaborator

	err := c.get(ctx, fmt.Sprintf("/packing-lists/%d/collaborators", listID), &out)
	if err != nil {
		return nil, fmt.Errorf("fetch list %d collaborators: %w", listID, err)
	}

	return out, nil
}

// RemoveCollaborator revokes a user's access to a list.
func (c *Client) RemoveCollaborator(ctx context.Context, listID, userID int) error {
	err := c.do(ctx, "DELETE", fmt.Sprintf("/packing-lists/%d/collaborators/%d", listID, userID), nil, nil)
	if err != nil {
		return fmt.Errorf("remove collaborator %d from list %d: %w", userID, listID, err)
	}

	return nil
}
