package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/packsync/packsync/internal/api"

	flag "github.com/spf13/pflag"
)

func cmdItems() *Command {
	fs := flag.NewFlagSet("items", flag.ContinueOnError)
	unassigned := fs.String("unassigned", "", "show only items missing an assignment: category, bag or traveler")

	return &Command{
		Flags: fs,
		Usage: "items [--unassigned <type>]",
		Short: "Show the items of the active list",
		Exec: func(ctx context.Context, app *App, o *IO, _ []string) error {
			listID, err := app.ActiveListID()
			if err != nil {
				return err
			}

			if *unassigned != "" {
				kind := api.UnassignedKind(*unassigned)

				switch kind {
				case api.UnassignedCategory, api.UnassignedBag, api.UnassignedTraveler:
				default:
					return fmt.Errorf("unknown unassigned type %q", *unassigned)
				}

				items, err := app.Client.Unassigned(ctx, listID, kind)
				if err != nil {
					return err
				}

				printItems(o, items, nil)

				return nil
			}

			complete, err := app.CompleteView(ctx, listID)
			if err != nil {
				return err
			}

			categories := make(map[int]string, len(complete.Categories))
			for _, c := range complete.Categories {
				categories[c.ID] = c.Name
			}

			printItems(o, complete.Items, categories)

			return nil
		},
	}
}

func printItems(o *IO, items []api.Item, categories map[int]string) {
	if len(items) == 0 {
		o.Println("No items.")

		return
	}

	sorted := make([]api.Item, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for _, item := range sorted {
		mark := " "
		if item.Packed {
			mark = "x"
		}

		category := ""
		if item.CategoryID != nil && categories != nil {
			category = "  (" + categories[*item.CategoryID] + ")"
		}

		o.Printf("[%s] %4d  %dx %s%s\n", mark, item.ID, item.Quantity, item.Name, category)
	}
}

func cmdAdd() *Command {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	qty := fs.IntP("qty", "q", 1, "quantity")
	category := fs.Int("category", 0, "category ID")
	bag := fs.Int("bag", 0, "bag ID")
	traveler := fs.Int("traveler", 0, "traveler ID")

	return &Command{
		Flags: fs,
		Usage: "add <name> [flags]",
		Short: "Add an item to the active list",
		Long: "Adds an item to the active list. The cached view updates\n" +
			"immediately; offline, the change is queued and synced later.",
		Exec: func(ctx context.Context, app *App, o *IO, args []string) error {
			if len(args) == 0 {
				return errNameRequired
			}

			listID, err := app.ActiveListID()
			if err != nil {
				return err
			}

			draft := api.ItemDraft{
				PackingListID: listID,
				Name:          args[0],
				Quantity:      *qty,
			}

			if *category != 0 {
				draft.CategoryID = category
			}

			if *bag != 0 {
				draft.BagID = bag
			}

			if *traveler != 0 {
				draft.TravelerID = traveler
			}

			outcome, err := app.Mutator.CreateItem(ctx, draft)
			if err != nil {
				return err
			}

			if outcome.Queued {
				o.Printf("Added %q (queued for sync)\n", draft.Name)
			} else {
				o.Printf("Added %q\n", draft.Name)
			}

			return nil
		},
	}
}

func cmdCheck() *Command {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	undo := fs.Bool("undo", false, "mark as not packed")

	return &Command{
		Flags: fs,
		Usage: "check <item-id>... [--undo]",
		Short: "Mark items as packed",
		Long: "Marks one or more items as packed (or not packed with\n" +
			"--undo). Multiple IDs go through the bulk multi-edit endpoint.",
		Exec: func(ctx context.Context, app *App, o *IO, args []string) error {
			if len(args) == 0 {
				return errItemIDRequired
			}

			listID, err := app.ActiveListID()
			if err != nil {
				return err
			}

			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			packed := !*undo

			if len(ids) == 1 {
				_, err = app.Mutator.UpdateItem(ctx, listID, ids[0], api.ItemPatch{Packed: &packed})
				if err != nil {
					return err
				}
			} else {
				_, err = app.Client.MultiEditItems(ctx, api.MultiEdit{
					ItemIDs: ids,
					Patch:   api.ItemPatch{Packed: &packed},
				})
				if err != nil {
					return err
				}

				app.Batcher.Immediate(listID, itemPlan(listID))
			}

			if packed {
				o.Printf("Packed %d item(s)\n", len(ids))
			} else {
				o.Printf("Unpacked %d item(s)\n", len(ids))
			}

			return nil
		},
	}
}

func cmdEdit() *Command {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	name := fs.String("name", "", "new name")
	qty := fs.IntP("qty", "q", 0, "new quantity")

	return &Command{
		Flags: fs,
		Usage: "edit <item-id> [flags]",
		Short: "Edit an item's name or quantity",
		Exec: func(ctx context.Context, app *App, o *IO, args []string) error {
			if len(args) == 0 {
				return errItemIDRequired
			}

			listID, err := app.ActiveListID()
			if err != nil {
				return err
			}

			itemID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid item ID %q", args[0])
			}

			var patch api.ItemPatch

			if *name != "" {
				patch.Name = name
			}

			if *qty != 0 {
				patch.Quantity = qty
			}

			if patch.Name == nil && patch.Quantity == nil {
				o.Println("Nothing to change.")

				return nil
			}

			_, err = app.Mutator.UpdateItem(ctx, listID, itemID, patch)
			if err != nil {
				return err
			}

			o.Printf("Updated item %d\n", itemID)

			return nil
		},
	}
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))

	for _, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid item ID %q", arg)
		}

		ids = append(ids, id)
	}

	return ids, nil
}
