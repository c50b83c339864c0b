package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/packsync/packsync/internal/api"
	syncpkg "github.com/packsync/packsync/internal/sync"
)

func cmdNew() *Command {
	return &Command{
		Usage: "new <category|bag|traveler> <name>",
		Short: "Create a category, bag or traveler on the active list",
		Exec: func(ctx context.Context, app *App, o *IO, args []string) error {
			if len(args) < 2 {
				return errBadEntityKind
			}

			listID, err := app.ActiveListID()
			if err != nil {
				return err
			}

			kind, name := args[0], args[1]

			var outcome syncpkg.Outcome

			switch kind {
			case "category":
				outcome, err = app.Mutator.CreateCategory(ctx, api.CategoryDraft{
					PackingListID: listID,
					Name:          name,
				})
			case "bag":
				outcome, err = app.Mutator.CreateBag(ctx, api.BagDraft{
					PackingListID: listID,
					Name:          name,
				})
			case "traveler":
				outcome, err = app.Mutator.CreateTraveler(ctx, api.TravelerDraft{
					PackingListID: listID,
					Name:          name,
				})
			default:
				return errBadEntityKind
			}

			if err != nil {
				return err
			}

			if outcome.Queued {
				o.Printf("Created %s %q (queued for sync)\n", kind, name)
			} else {
				o.Printf("Created %s %q\n", kind, name)
			}

			return nil
		},
	}
}

func cmdRemove() *Command {
	return &Command{
		Usage: "rm <item|category|bag|traveler> <id>",
		Short: "Delete an entity from the active list",
		Long: "Deletes the entity. The cached view updates immediately and\n" +
			"is restored if the server rejects the delete.",
		Exec: func(ctx context.Context, app *App, o *IO, args []string) error {
			if len(args) < 2 {
				return errBadEntityKind
			}

			listID, err := app.ActiveListID()
			if err != nil {
				return err
			}

			id, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid ID %q", args[1])
			}

			switch args[0] {
			case "item":
				_, err = app.Mutator.DeleteItem(ctx, listID, id)
			case "category":
				_, err = app.Mutator.DeleteCategory(ctx, listID, id)
			case "bag":
				_, err = app.Mutator.DeleteBag(ctx, listID, id)
			case "traveler":
				_, err = app.Mutator.DeleteTraveler(ctx, listID, id)
			default:
				return errBadEntityKind
			}

			if err != nil {
				return err
			}

			o.Printf("Deleted %s %d\n", args[0], id)

			return nil
		},
	}
}
