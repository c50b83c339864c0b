// Package cli implements the packsync command-line interface: command
// dispatch, the application object graph, and the interactive shell.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
)

// Command defines a CLI command with unified help generation.
type Command struct {
	// Flags defines command-specific flags.
	// The FlagSet name is not used - command identity comes from Usage.
	Flags *flag.FlagSet

	// Usage is the freeform usage string shown after "packsync" in help.
	// Includes the command name and arguments/flags.
	// Examples: "add <name> [flags]", "use <list-id>", "status"
	Usage string

	// Short is a one-line description for the global help listing.
	Short string

	// Long is the full description shown in command help.
	// If empty, Short is used instead.
	Long string

	// Exec runs the command after flags are parsed.
	Exec func(ctx context.Context, app *App, o *IO, args []string) error
}

// Name returns the command name (first word of Usage).
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")
	return name
}

// HelpLine returns the short help line for the main usage display.
func (c *Command) HelpLine() string {
	return fmt.Sprintf("  %-24s %s", c.Usage, c.Short)
}

// PrintHelp prints the full help output for "packsync <cmd> --help".
func (c *Command) PrintHelp(o *IO) {
	o.Println("Usage: packsync", c.Usage)
	o.Println()

	desc := c.Long
	if desc == "" {
		desc = c.Short
	}

	o.Println(desc)

	if c.Flags != nil && c.Flags.HasFlags() {
		o.Println()
		o.Println("Flags:")

		var buf strings.Builder
		c.Flags.SetOutput(&buf)
		c.Flags.PrintDefaults()
		o.Printf("%s", buf.String())
	}
}

// Run parses flags and executes the command against app. Returns exit
// code.
func (c *Command) Run(ctx context.Context, app *App, o *IO, args []string) int {
	if c.Flags != nil {
		c.Flags.Usage = func() { c.PrintHelp(o) }

		err := c.Flags.Parse(args)
		if err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return 0
			}

			o.Errorln("error:", err)

			return 1
		}

		args = c.Flags.Args()
	}

	err := c.Exec(ctx, app, o, args)
	if err != nil {
		o.Errorln("error:", err)

		return 1
	}

	return 0
}
