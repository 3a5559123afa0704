// Command simctl runs simulations and comparisons from the command line
// against the same store and price provider as the server.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	commander.Register(&runCmd{}, "simulation")
	commander.Register(&compareCmd{}, "simulation")
	commander.Register(&searchCmd{}, "data")
	commander.Register(&refreshCmd{}, "data")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
