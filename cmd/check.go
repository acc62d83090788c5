package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/taxlots"
	"github.com/google/subcommands"
)

type checkCmd struct {
	strategy string
}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "verify the audit trail reconciles with the totals" }
func (*checkCmd) Usage() string {
	return `tlx check [-strategy hifo|lowifo] <trades>...

  Runs the computation and checks that the sum of the audit trail obligations
  equals the short plus long term totals, in cents. Exits with a non zero status
  when they differ or when the computation fails.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.strategy, "strategy", "", "Lot selection strategy (hifo, lowifo). Defaults to the configured one.")
}

func (c *checkCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "at least one trade file is required")
		return subcommands.ExitUsageError
	}
	report, err := compute(ctx, f.Args(), c.strategy, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := report.Reconcile(); err != nil {
		var rec *taxlots.ReconciliationError
		if errors.As(err, &rec) {
			fmt.Fprintf(os.Stderr, "Error: reconciliation failed: audit %s, totals %s\n", rec.Audit, rec.Totals)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return subcommands.ExitFailure
	}
	fmt.Printf("ok: %d lot consumptions reconcile with a total of %s\n", len(report.Audit), report.Total().Round().String())
	return subcommands.ExitSuccess
}
