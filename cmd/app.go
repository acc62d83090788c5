package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/taxlots"
	"github.com/etnz/taxlots/config"
	"github.com/etnz/taxlots/price"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// loadConfig loads the configuration file and the environment.
func loadConfig() (*config.Config, error) {
	return config.Load(*configFile)
}

// newLogger returns the logger of the application, writing to stderr.
func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(cfg.Level())
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// strategyOf returns the strategy from the flag value if any, from the config otherwise.
func strategyOf(flagValue string, cfg *config.Config) (taxlots.Strategy, error) {
	if flagValue != "" {
		return taxlots.ParseStrategy(flagValue)
	}
	return cfg.StrategyValue()
}

// decodeInputs reads trades from files. CSV files use the standard layout, any
// other file and "-" (stdin) are read as JSONL. Asset aliases are applied.
func decodeInputs(paths []string, cfg *config.Config) ([]taxlots.Trade, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no trade file given")
	}
	var all []taxlots.Trade
	for _, path := range paths {
		trades, err := decodeInput(path, cfg.Currency)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		all = append(all, trades...)
	}
	taxlots.NormalizeAssets(all, cfg.AliasMap())
	return all, nil
}

func decodeInput(path, currency string) ([]taxlots.Trade, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return taxlots.DecodeTradesCSV(r, currency)
	}
	return taxlots.DecodeTrades(r, currency)
}

// newValuer returns a valuer backed by the configured price service, with an in memory cache.
func newValuer(cfg *config.Config, log logrus.FieldLogger) (price.Valuer, error) {
	pc, err := cfg.PriceConfig()
	if err != nil {
		return price.Valuer{}, err
	}
	ttl := pc.CacheTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	client := price.NewClient(pc, price.WithCache(cache.New(ttl, 2*ttl)), price.WithLogger(log))
	return price.Valuer{Lookup: client, Log: log}, nil
}

// fill values every unvalued trade with the price service.
func fill(ctx context.Context, trades []taxlots.Trade, cfg *config.Config, log *logrus.Logger) error {
	v, err := newValuer(cfg, log)
	if err != nil {
		return err
	}
	n, err := price.Fill(ctx, v, trades, cfg.Currency)
	if err != nil {
		return err
	}
	log.Infof("%d trades valued from daily prices", n)
	return nil
}

// compute runs the engine on the trades of the files in paths.
func compute(ctx context.Context, paths []string, strategy string, withPrices bool) (*taxlots.Report, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := newLogger(cfg)
	s, err := strategyOf(strategy, cfg)
	if err != nil {
		return nil, err
	}
	materiality, err := cfg.MaterialityValue()
	if err != nil {
		return nil, err
	}
	trades, err := decodeInputs(paths, cfg)
	if err != nil {
		return nil, err
	}
	if withPrices {
		if err := fill(ctx, trades, cfg, log); err != nil {
			return nil, err
		}
	}
	return taxlots.Compute(trades, s,
		taxlots.WithLogger(log),
		taxlots.WithCurrency(cfg.Currency),
		taxlots.WithMateriality(materiality),
	)
}

// printMarkdown renders markdown for the terminal, or prints it raw when it cannot.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
