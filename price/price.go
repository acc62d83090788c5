// Package price looks up historical daily prices of crypto assets, to value
// trade records that carry no fiat amount.
//
// Lookups go through a CoinGecko style HTTP API, rate limited, retried with an
// exponential backoff and cached. Valuer wraps a Lookup and degrades every
// failure to a zero price, the way an unrecognized asset is valued.
package price

import (
	"context"
	"errors"
	"time"

	"github.com/etnz/taxlots/date"
	"github.com/shopspring/decimal"
)

var (
	// ErrUnknownAsset is returned for an asset with no known coin id.
	ErrUnknownAsset = errors.New("unknown asset")
	// ErrNoData is returned when the service has no price for the asset on that day.
	ErrNoData = errors.New("no price data")
)

// Lookup returns the fiat price of one unit of asset on a given day.
type Lookup interface {
	Price(ctx context.Context, asset string, on date.Date) (decimal.Decimal, error)
}

// Cache stores prices between lookups. *cache.Cache from github.com/patrickmn/go-cache satisfies it.
type Cache interface {
	Get(k string) (any, bool)
	Set(k string, x any, d time.Duration)
}

// Config configures a Client.
type Config struct {
	BaseURL   string
	APIKey    string
	Currency  string            // lower case vs_currency, e.g. "usd"
	Attempts  int               // total number of attempts per lookup
	Backoff   time.Duration     // wait before the second attempt, doubled each time
	RateLimit float64           // requests per second
	Timeout   time.Duration     // per request
	CacheTTL  time.Duration
	CacheDir  string            // optional daily disk cache of raw responses
	Coins     map[string]string // ticker to coin id
}

// DefaultCoins maps common tickers to their CoinGecko coin id.
var DefaultCoins = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"LTC":   "litecoin",
	"BCH":   "bitcoin-cash",
	"AAVE":  "aave",
	"LINK":  "chainlink",
	"UNI":   "uniswap",
	"USDC":  "usd-coin",
	"USDT":  "tether",
	"DAI":   "dai",
	"SOL":   "solana",
	"ADA":   "cardano",
	"DOT":   "polkadot",
	"DOGE":  "dogecoin",
	"MATIC": "matic-network",
	"XLM":   "stellar",
	"XRP":   "ripple",
}

// DefaultConfig returns the configuration of the public CoinGecko API.
func DefaultConfig() Config {
	return Config{
		BaseURL:   "https://api.coingecko.com/api/v3",
		Currency:  "usd",
		Attempts:  3,
		Backoff:   time.Second,
		RateLimit: 0.5,
		Timeout:   30 * time.Second,
		CacheTTL:  24 * time.Hour,
	}
}

// coinID returns the coin id of asset, looked up in the configured coins first.
func (c Config) coinID(asset string) (string, bool) {
	if id, ok := c.Coins[asset]; ok {
		return id, id != ""
	}
	id, ok := DefaultCoins[asset]
	return id, ok
}
