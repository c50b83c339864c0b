package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/packsync/packsync/internal/query"
)

func cmdLists() *Command {
	return &Command{
		Usage: "lists",
		Short: "Show all packing lists you can access",
		Exec: func(ctx context.Context, app *App, o *IO, _ []string) error {
			lists, err := app.Client.Lists(ctx)
			if err != nil {
				return err
			}

			app.Cache.Set(query.ListsKey(), lists)

			if len(lists) == 0 {
				o.Println("No packing lists yet.")

				return nil
			}

			active, _ := app.Lists.ActiveListID()

			for _, l := range lists {
				marker := " "
				if l.ID == active {
					marker = "*"
				}

				o.Printf("%s %4d  %-30s %d/%d packed\n", marker, l.ID, l.Name, l.PackedCount, l.ItemCount)
			}

			return nil
		},
	}
}

func cmdUse() *Command {
	return &Command{
		Usage: "use <list-id>",
		Short: "Make a list the active one",
		Long: "Makes the given list the active list, fetches its summary,\n" +
			"and records it in the recent-lists cache.",
		Exec: func(ctx context.Context, app *App, o *IO, args []string) error {
			if len(args) == 0 {
				return errListIDRequired
			}

			listID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid list ID %q", args[0])
			}

			err = app.ActivateList(ctx, listID)
			if err != nil {
				return err
			}

			o.Printf("Active list is now %d\n", listID)

			return nil
		},
	}
}

func cmdRecent() *Command {
	return &Command{
		Usage: "recent",
		Short: "Show recently visited lists",
		Exec: func(_ context.Context, app *App, o *IO, _ []string) error {
			recent := app.Lists.Recent()
			if len(recent) == 0 {
				o.Println("No recently visited lists.")

				return nil
			}

			for _, l := range recent {
				o.Printf("%4d  %-30s %d/%d packed\n", l.ID, l.Name, l.PackedCount, l.ItemCount)
			}

			return nil
		},
	}
}
