package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/taxlots"
	"github.com/google/subcommands"
)

type fmtCmd struct {
	outputFile string
	fill       bool
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats trade files into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `tlx fmt [-o <file>] [-fill] <trades>...

  Validates and formats trade files. This command reads all trades (JSONL or
  CSV), applies asset aliases, optionally values trades with no fiat amount,
  sorts them by date, and writes them in a canonical JSONL format.

Usage Examples:
# Merge exchange exports into a single file, valuing missing amounts.
$ tlx fmt -fill -o trades.jsonl coinbase.csv kraken.csv wallet.jsonl

`
}

func (p *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.outputFile, "o", "", "Output file. Defaults to stdout.")
	f.BoolVar(&p.fill, "fill", false, "Value trades with no fiat amount from daily prices.")
}

func (p *fmtCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	log := newLogger(cfg)

	trades, err := decodeInputs(f.Args(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load trades: %v\n", err)
		return subcommands.ExitFailure
	}
	if p.fill {
		if err := fill(ctx, trades, cfg, log); err != nil {
			fmt.Fprintf(os.Stderr, "Error: could not value trades: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	invalid := 0
	ids := make(map[string]bool, len(trades))
	for _, t := range trades {
		if err := t.Validate(); err != nil {
			log.Error(err)
			invalid++
		}
		if ids[t.ID] {
			log.Errorf("duplicate trade id %q", t.ID)
			invalid++
		}
		ids[t.ID] = true
	}
	if invalid > 0 {
		fmt.Fprintf(os.Stderr, "Error: %d invalid trades\n", invalid)
		return subcommands.ExitFailure
	}

	taxlots.SortTrades(trades)

	var w io.Writer = os.Stdout
	if p.outputFile != "" {
		out, err := os.Create(p.outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", p.outputFile, err)
			return subcommands.ExitFailure
		}
		defer out.Close()
		w = out
	}
	if err := taxlots.EncodeTrades(w, trades); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing trades: %v\n", err)
		return subcommands.ExitFailure
	}
	log.Infof("%d trades formatted", len(trades))
	return subcommands.ExitSuccess
}
