package cli

import (
	"context"
	"io"
	"os"

	"github.com/packsync/packsync/internal/config"
	"github.com/packsync/packsync/internal/toast"

	flag "github.com/spf13/pflag"
)

// globalFlags holds flags that apply before command dispatch.
type globalFlags struct {
	configPath string
	baseURL    string
	stateDir   string
	offline    bool
	remaining  []string
}

func parseGlobalFlags(args []string) (globalFlags, error) {
	var g globalFlags

	fs := flag.NewFlagSet("packsync", flag.ContinueOnError)
	fs.StringVar(&g.configPath, "config", "", "explicit config file")
	fs.StringVar(&g.baseURL, "base-url", "", "override the service base URL")
	fs.StringVar(&g.stateDir, "state-dir", "", "override the local state directory")
	fs.BoolVar(&g.offline, "offline", false, "treat the service as unreachable")
	fs.SetInterspersed(false)

	err := fs.Parse(args)
	if err != nil {
		return globalFlags{}, err
	}

	g.remaining = fs.Args()

	return g, nil
}

func commands() []*Command {
	return []*Command{
		cmdLists(),
		cmdUse(),
		cmdRecent(),
		cmdItems(),
		cmdAdd(),
		cmdNew(),
		cmdCheck(),
		cmdEdit(),
		cmdRemove(),
		cmdMove(),
		cmdInvite(),
		cmdCollaborators(),
		cmdAccept(),
		cmdStatus(),
		cmdSync(),
		cmdShell(),
		cmdPrintConfig(),
	}
}

// Run is the main entry point. Returns exit code.
func Run(out, errOut io.Writer, args []string, env []string) int {
	o := NewIO(out, errOut)

	if len(args) < 2 {
		printUsage(o)

		return 0
	}

	flags, err := parseGlobalFlags(args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			printUsage(o)

			return 0
		}

		o.Errorln("error:", err)

		return 1
	}

	if len(flags.remaining) == 0 {
		printUsage(o)

		return 0
	}

	name := flags.remaining[0]
	if name == "help" || name == "-h" || name == "--help" {
		printUsage(o)

		return 0
	}

	var cmd *Command

	for _, c := range commands() {
		if c.Name() == name {
			cmd = c

			break
		}
	}

	if cmd == nil {
		o.Errorln("error: unknown command:", name)
		printUsage(o)

		return 1
	}

	workDir, err := os.Getwd()
	if err != nil {
		o.Errorln("error: cannot get working directory:", err)

		return 1
	}

	overrides := config.Config{BaseURL: flags.baseURL, StateDir: flags.stateDir}

	cfg, sources, err := config.Load(workDir, flags.configPath, overrides, env)
	if err != nil {
		o.Errorln("error:", err)

		return 1
	}

	ctx := context.Background()

	app, err := NewApp(ctx, cfg, sources, toast.NewRenderer(errOut))
	if err != nil {
		o.Errorln("error:", err)

		return 1
	}

	defer func() { _ = app.Close() }()

	if flags.offline {
		app.Monitor.SetOffline()
	} else {
		app.Monitor.Poll(ctx)
	}

	return cmd.Run(ctx, app, o, flags.remaining[1:])
}

func printUsage(o *IO) {
	o.Println("packsync - collaborative packing lists from the terminal")
	o.Println()
	o.Println("Usage: packsync [global flags] <command> [args]")
	o.Println()
	o.Println("Commands:")

	for _, c := range commands() {
		o.Println(c.HelpLine())
	}

	o.Println()
	o.Println("Global flags:")
	o.Println("  --config <file>          explicit config file")
	o.Println("  --base-url <url>         override the service base URL")
	o.Println("  --state-dir <dir>        override the local state directory")
	o.Println("  --offline                treat the service as unreachable")
	o.Println()
	o.Println("Run 'packsync <command> --help' for command details.")
}
