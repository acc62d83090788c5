package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/taxlots/renderer"
	"github.com/google/subcommands"
)

// gainsCmd holds the flags for the 'gains' subcommand.
type gainsCmd struct {
	strategy string
	year     int
	audit    bool
	json     bool
	fill     bool
}

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "realized short and long term obligations" }
func (*gainsCmd) Usage() string {
	return `tlx gains [-strategy hifo|lowifo] [-year <year>] [-audit] [-json] [-fill] <trades>...

  Matches every disposal against the lots acquired before it and displays the
  realized obligations, the quantities disposed with no basis and the leftover
  inventory.

  Trade files are JSONL, or CSV when their extension is .csv.
`
}

func (c *gainsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.strategy, "strategy", "", "Lot selection strategy (hifo, lowifo). Defaults to the configured one.")
	f.IntVar(&c.year, "year", 0, "Restrict gains per asset and the audit trail to disposals of that year.")
	f.BoolVar(&c.audit, "audit", false, "Display the audit trail.")
	f.BoolVar(&c.json, "json", false, "Print the full report as JSON.")
	f.BoolVar(&c.fill, "fill", false, "Value trades with no fiat amount from daily prices.")
}

func (c *gainsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "at least one trade file is required")
		return subcommands.ExitUsageError
	}
	report, err := compute(ctx, f.Args(), c.strategy, c.fill)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error calculating gains: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding report: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	md := renderer.GainsMarkdown(report, renderer.GainsOptions{Year: c.year, ShowAudit: c.audit})
	printMarkdown(md)
	return subcommands.ExitSuccess
}
