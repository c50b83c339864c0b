package cli

import (
	"context"

	"github.com/packsync/packsync/internal/api"
	"github.com/packsync/packsync/internal/query"

	flag "github.com/spf13/pflag"
)

func itemPlan(listID int) []query.Key {
	return query.Plan(listID, query.KindItem)
}

func cmdMove() *Command {
	fs := flag.NewFlagSet("move", flag.ContinueOnError)
	toCategory := fs.Int("to-category", 0, "move items into this category (0 clears)")
	toBag := fs.Int("to-bag", 0, "assign items to this bag (0 clears)")
	toTraveler := fs.Int("to-traveler", 0, "assign items to this traveler (0 clears)")
	clear := fs.Bool("clear", false, "clear the chosen assignment instead of setting it")

	return &Command{
		Flags: fs,
		Usage: "move <item-id>... [flags]",
		Short: "Bulk-move items between categories, bags or travelers",
		Long: "Moves the given items with one of the bulk endpoints.\n" +
			"Exactly one of --to-category, --to-bag, --to-traveler must be\n" +
			"given; combine with --clear to unassign instead.",
		Exec: func(ctx context.Context, app *App, o *IO, args []string) error {
			if len(args) == 0 {
				return errNoItemsGiven
			}

			listID, err := app.ActiveListID()
			if err != nil {
				return err
			}

			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			chosen := 0

			for _, name := range []string{"to-category", "to-bag", "to-traveler"} {
				if fs.Changed(name) {
					chosen++
				}
			}

			if chosen != 1 {
				return errNoMoveTarget
			}

			assign := api.BulkAssign{ItemIDs: ids}

			switch {
			case fs.Changed("to-category"):
				if !*clear {
					assign.TargetID = toCategory
				}

				_, err = app.Client.MoveItemsToCategory(ctx, assign)
			case fs.Changed("to-bag"):
				if !*clear {
					assign.TargetID = toBag
				}

				_, err = app.Client.AssignItemsToBag(ctx, assign)
			default:
				if !*clear {
					assign.TargetID = toTraveler
				}

				_, err = app.Client.AssignItemsToTraveler(ctx, assign)
			}

			if err != nil {
				return err
			}

			app.Batcher.Immediate(listID, itemPlan(listID))
			o.Printf("Moved %d item(s)\n", len(ids))

			return nil
		},
	}
}
