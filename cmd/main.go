// Package cmd implements the tlx command line application.
package cmd

import (
	"flag"

	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&gainsCmd{}, "reports")
	c.Register(&auditCmd{}, "reports")
	c.Register(&checkCmd{}, "reports")

	c.Register(&fmtCmd{}, "trades")
	c.Register(&priceCmd{}, "trades")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "tlx.toml", "Path to the configuration file (TOML). Missing file means defaults.")
var verbose = flag.Bool("v", false, "Verbose output, log every disposal.")
