package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/taxlots/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	completion().Complete("tlx")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()

	if name := flag.Arg(0); name != "" && !registered(commander, name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

// registered reports whether name is a built-in subcommand.
func registered(commander *subcommands.Commander, name string) (found bool) {
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		if c.Name() == name {
			found = true
		}
	})
	return found
}

// completion describes the command line for shell completion.
// Install it with COMP_INSTALL=1 tlx.
func completion() *complete.Command {
	trades := predict.Or(predict.Files("*.jsonl"), predict.Files("*.csv"))
	strategies := predict.Set{"hifo", "lowifo"}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.toml"),
			"v":      predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"gains": {
				Flags: map[string]complete.Predictor{
					"strategy": strategies,
					"year":     predict.Something,
					"audit":    predict.Nothing,
					"json":     predict.Nothing,
					"fill":     predict.Nothing,
				},
				Args: trades,
			},
			"audit": {
				Flags: map[string]complete.Predictor{
					"strategy": strategies,
					"year":     predict.Something,
					"o":        predict.Files("*.csv"),
					"fill":     predict.Nothing,
				},
				Args: trades,
			},
			"check": {
				Flags: map[string]complete.Predictor{"strategy": strategies},
				Args:  trades,
			},
			"fmt": {
				Flags: map[string]complete.Predictor{
					"o":    predict.Files("*.jsonl"),
					"fill": predict.Nothing,
				},
				Args: trades,
			},
			"price": {Args: predict.Something},
			"topic": {Args: predict.Set{"readme", "input", "strategies", "audit", "config", "*"}},
		},
	}
}
