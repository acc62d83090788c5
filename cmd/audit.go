package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/taxlots"
	"github.com/etnz/taxlots/date"
	"github.com/google/subcommands"
)

type auditCmd struct {
	strategy   string
	year       int
	outputFile string
	fill       bool
}

func (*auditCmd) Name() string     { return "audit" }
func (*auditCmd) Synopsis() string { return "export the audit trail as CSV" }
func (*auditCmd) Usage() string {
	return `tlx audit [-strategy hifo|lowifo] [-year <year>] [-o <file>] [-fill] <trades>...

  Writes one CSV line per lot consumption: the lot (date, basis, size, trade),
  the disposal (date, basis, size, trade), the obligation and its term.
  Summing the obligation column gives the total obligation of the run.
`
}

func (c *auditCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.strategy, "strategy", "", "Lot selection strategy (hifo, lowifo). Defaults to the configured one.")
	f.IntVar(&c.year, "year", 0, "Only export disposals of that year.")
	f.StringVar(&c.outputFile, "o", "", "Output file. Defaults to stdout.")
	f.BoolVar(&c.fill, "fill", false, "Value trades with no fiat amount from daily prices.")
}

func (c *auditCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "at least one trade file is required")
		return subcommands.ExitUsageError
	}
	report, err := compute(ctx, f.Args(), c.strategy, c.fill)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error calculating gains: %v\n", err)
		return subcommands.ExitFailure
	}

	entries := report.Audit
	if c.year != 0 {
		from, to := date.Year(c.year).Bounds()
		entries = report.AuditBetween(from, to)
	}

	var w io.Writer = os.Stdout
	if c.outputFile != "" {
		out, err := os.Create(c.outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.outputFile, err)
			return subcommands.ExitFailure
		}
		defer out.Close()
		w = out
	}
	if err := taxlots.EncodeAuditCSV(w, entries); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing audit trail: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
