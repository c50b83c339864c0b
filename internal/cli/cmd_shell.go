package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
)

const historyFileName = "shell_history"

// Dispatch reuses the regular command table, so anything that works at
// the top level works inside the shell, minus the entries below.
var shellExcluded = map[string]bool{
	"shell": true,
}

func cmdShell() *Command {
	return &Command{
		Usage: "shell",
		Short: "Interactive shell with history and completion",
		Long: "Starts an interactive shell. Commands are the same as the\n" +
			"top-level ones; 'exit' or Ctrl-D leaves.",
		Exec: func(ctx context.Context, app *App, o *IO, _ []string) error {
			line := liner.NewLiner()
			defer line.Close()

			line.SetCtrlCAborts(true)
			line.SetCompleter(func(prefix string) []string {
				var out []string

				for _, c := range commands() {
					name := c.Name()
					if !shellExcluded[name] && strings.HasPrefix(name, prefix) {
						out = append(out, name)
					}
				}

				return out
			})

			historyPath := filepath.Join(app.Config.StateDir, historyFileName)

			if f, err := os.Open(historyPath); err == nil {
				_, _ = line.ReadHistory(f)
				_ = f.Close()
			}

			defer func() {
				f, err := os.Create(historyPath)
				if err != nil {
					return
				}

				_, _ = line.WriteHistory(f)
				_ = f.Close()
			}()

			for {
				input, err := line.Prompt("packsync> ")
				if err == liner.ErrPromptAborted || err == io.EOF {
					o.Println()

					return nil
				}

				if err != nil {
					return err
				}

				input = strings.TrimSpace(input)
				if input == "" {
					continue
				}

				line.AppendHistory(input)

				fields := strings.Fields(input)
				name := fields[0]

				if name == "exit" || name == "quit" || name == "q" {
					return nil
				}

				if name == "help" {
					printUsage(o)

					continue
				}

				dispatchShell(ctx, app, o, name, fields[1:])
			}
		},
	}
}

func dispatchShell(ctx context.Context, app *App, o *IO, name string, args []string) {
	for _, c := range commands() {
		if c.Name() != name || shellExcluded[name] {
			continue
		}

		c.Run(ctx, app, o, args)

		return
	}

	o.Errorln("error: unknown command:", name)
}
