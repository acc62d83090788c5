package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/taxlots/date"
	"github.com/google/subcommands"
)

type priceCmd struct{}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "look up the daily price of an asset" }
func (*priceCmd) Usage() string {
	return `tlx price <asset> <date>

  Prints the price of one unit of asset on that day, as used to value trades
  with no fiat amount. Fails when the asset is unknown or has no price.
`
}

func (c *priceCmd) SetFlags(f *flag.FlagSet) {}

func (c *priceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "an asset and a date are required")
		return subcommands.ExitUsageError
	}
	on, err := date.ParseDate(f.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	v, err := newValuer(cfg, newLogger(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	// the raw lookup, a failure here is reported instead of valued at zero.
	p, err := v.Lookup.Price(ctx, f.Arg(0), on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s %s %s %s\n", on, f.Arg(0), p.String(), cfg.Currency)
	return subcommands.ExitSuccess
}
