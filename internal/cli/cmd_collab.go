package cli

import (
	"context"
	"fmt"
	"strconv"
)

func cmdInvite() *Command {
	return &Command{
		Usage: "invite <email>",
		Short: "Invite someone to collaborate on the active list",
		Exec: func(ctx context.Context, app *App, o *IO, args []string) error {
			if len(args) == 0 {
				return errEmailRequired
			}

			listID, err := app.ActiveListID()
			if err != nil {
				return err
			}

			invitation, err := app.Client.Invite(ctx, listID, args[0])
			if err != nil {
				return err
			}

			o.Printf("Invited %s (token: %s)\n", invitation.Email, invitation.Token)

			return nil
		},
	}
}

func cmdCollaborators() *Command {
	return &Command{
		Usage: "collaborators",
		Short: "Show collaborators and pending invitations",
		Exec: func(ctx context.Context, app *App, o *IO, args []string) error {
			listID, err := app.ActiveListID()
			if err != nil {
				return err
			}

			if len(args) == 2 && args[0] == "rm" {
				userID, parseErr := strconv.Atoi(args[1])
				if parseErr != nil {
					return fmt.Errorf("invalid user ID %q", args[1])
				}

				err = app.Client.RemoveCollaborator(ctx, listID, userID)
				if err != nil {
					return err
				}

				o.Printf("Removed collaborator %d\n", userID)

				return nil
			}

			collaborators, err := app.Client.Collaborators(ctx, listID)
			if err != nil {
				return err
			}

			for _, c := range collaborators {
				o.Printf("%4d  %-30s %s\n", c.UserID, c.Email, c.Role)
			}

			invitations, err := app.Client.Invitations(ctx, listID)
			if err != nil {
				return err
			}

			for _, inv := range invitations {
				o.Printf("      %-30s invited (%s)\n", inv.Email, inv.Status)
			}

			if len(collaborators) == 0 && len(invitations) == 0 {
				o.Println("No collaborators.")
			}

			return nil
		},
	}
}

func cmdAccept() *Command {
	return &Command{
		Usage: "accept <token>",
		Short: "Accept a collaboration invitation",
		Exec: func(ctx context.Context, app *App, o *IO, args []string) error {
			if len(args) == 0 {
				return errTokenRequired
			}

			list, err := app.Client.AcceptInvitation(ctx, args[0])
			if err != nil {
				return err
			}

			o.Printf("You now collaborate on %q (list %d)\n", list.Name, list.ID)

			return app.ActivateList(ctx, list.ID)
		},
	}
}
