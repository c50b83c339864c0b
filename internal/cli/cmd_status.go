package cli

import (
	"context"
)

func cmdStatus() *Command {
	return &Command{
		Usage: "status",
		Short: "Show connectivity, sync state and queued changes",
		Exec: func(ctx context.Context, app *App, o *IO, _ []string) error {
			o.Printf("connection: %s (quality: %s)\n", app.Monitor.State(), app.Monitor.Quality())

			if app.Status.IsPending() {
				o.Printf("saving: %d operation(s) in flight\n", app.Status.Pending())
			} else {
				o.Println("saving: idle")
			}

			queued, err := app.Queue.CountPending(ctx)
			if err != nil {
				return err
			}

			o.Printf("queued offline changes: %d\n", queued)

			if listID, ok := app.Lists.ActiveListID(); ok {
				o.Printf("active list: %d\n", listID)
			} else {
				o.Println("active list: none")
			}

			return nil
		},
	}
}

func cmdSync() *Command {
	return &Command{
		Usage: "sync",
		Short: "Replay queued offline changes and refresh the active list",
		Long: "Probes connectivity, replays the offline queue in recording\n" +
			"order, and force-refreshes the active list's views.",
		Exec: func(ctx context.Context, app *App, o *IO, _ []string) error {
			app.Monitor.Poll(ctx)

			if !app.Monitor.Online() {
				o.Println("Still offline; queued changes kept.")

				return nil
			}

			report, err := app.CatchUp(ctx)
			if err != nil {
				return err
			}

			o.Printf("Replayed %d, rejected %d, remaining %d\n",
				report.Replayed, report.Dead, report.Remaining)

			return nil
		},
	}
}

func cmdPrintConfig() *Command {
	return &Command{
		Usage: "print-config",
		Short: "Show the effective configuration and where it came from",
		Exec: func(_ context.Context, app *App, o *IO, _ []string) error {
			o.Printf("base_url: %s\n", app.Config.BaseURL)
			o.Printf("timeout_seconds: %d\n", app.Config.TimeoutSeconds)
			o.Printf("retries: %d\n", app.Config.Retries)
			o.Printf("probe_interval_seconds: %d\n", app.Config.ProbeIntervalSeconds)
			o.Printf("state_dir: %s\n", app.Config.StateDir)

			if app.Sources.Global != "" {
				o.Printf("global config: %s\n", app.Sources.Global)
			}

			if app.Sources.Project != "" {
				o.Printf("project config: %s\n", app.Sources.Project)
			}

			return nil
		},
	}
}
