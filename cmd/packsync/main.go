// Package main provides packsync, a collaborative packing-list client
// with offline sync.
package main

import (
	"os"

	"github.com/packsync/packsync/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Stdout, os.Stderr, os.Args, os.Environ()))
}
