package price

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/taxlots/date"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// historyDateFormat is the day format of the history endpoint (dd-mm-yyyy).
const historyDateFormat = "02-01-2006"

// Client looks up daily prices on a CoinGecko style API.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	cache   Cache
	log     logrus.FieldLogger
	sleep   func(ctx context.Context, d time.Duration) error
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the http client used for requests.
func WithHTTPClient(h *http.Client) ClientOption { return func(c *Client) { c.http = h } }

// WithCache sets the cache of looked up prices.
func WithCache(cache Cache) ClientOption { return func(c *Client) { c.cache = cache } }

// WithLogger sets the logger receiving retries and failures.
func WithLogger(l logrus.FieldLogger) ClientOption { return func(c *Client) { c.log = l } }

// NewClient creates a Client. Zero fields of cfg take their DefaultConfig value.
func NewClient(cfg Config, opts ...ClientOption) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Currency == "" {
		cfg.Currency = def.Currency
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = def.Attempts
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = def.Backoff
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = def.CacheTTL
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	c := &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, 1),
		log:     logrus.StandardLogger(),
		sleep:   sleepContext,
	}
	if cfg.CacheDir != "" {
		c.http = Daily(cfg.CacheDir, cfg.Timeout)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Price returns the price of one unit of asset on day on.
//
// It fails with ErrUnknownAsset when the asset has no coin id, and with
// ErrNoData when the service has no market data for that day.
func (c *Client) Price(ctx context.Context, asset string, on date.Date) (decimal.Decimal, error) {
	id, ok := c.cfg.coinID(strings.ToUpper(asset))
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownAsset, asset)
	}

	key := fmt.Sprintf("%s %s %s", id, c.cfg.Currency, on)
	if c.cache != nil {
		if v, found := c.cache.Get(key); found {
			if p, ok := v.(decimal.Decimal); ok {
				return p, nil
			}
		}
	}

	p, err := c.retry(ctx, id, on)
	if err != nil {
		return decimal.Zero, err
	}
	if c.cache != nil {
		c.cache.Set(key, p, c.cfg.CacheTTL)
	}
	return p, nil
}

// retry runs fetch up to Attempts times, waiting Backoff*2^i between attempts.
// Missing data is final and never retried.
func (c *Client) retry(ctx context.Context, id string, on date.Date) (decimal.Decimal, error) {
	var err error
	for i := 0; i < c.cfg.Attempts; i++ {
		if i > 0 {
			wait := c.cfg.Backoff * time.Duration(1<<(i-1))
			c.log.WithFields(logrus.Fields{"coin": id, "date": on, "attempt": i + 1, "wait": wait}).
				Warnf("retrying price lookup: %v", err)
			if err := c.sleep(ctx, wait); err != nil {
				return decimal.Zero, err
			}
		}
		var p decimal.Decimal
		p, err = c.fetch(ctx, id, on)
		if err == nil || errors.Is(err, ErrNoData) || ctx.Err() != nil {
			return p, err
		}
	}
	return decimal.Zero, fmt.Errorf("price of %s on %s: giving up after %d attempts: %w", id, on, c.cfg.Attempts, err)
}

// fetch performs a single rate limited request.
func (c *Client) fetch(ctx context.Context, id string, on date.Date) (decimal.Decimal, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return decimal.Zero, err
	}
	addr := fmt.Sprintf("%s/coins/%s/history?date=%s&localization=false",
		strings.TrimSuffix(c.cfg.BaseURL, "/"), url.PathEscape(id), on.Format(historyDateFormat))

	var jobj any
	if err := c.jwget(ctx, addr, &jobj); err != nil {
		return decimal.Zero, err
	}
	return extract(jobj, c.cfg.Currency)
}

// extract reads the price in currency from a history response.
func extract(jobj any, currency string) (decimal.Decimal, error) {
	path := fmt.Sprintf("$.market_data.current_price.%s", currency)
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		// the service answers without market_data for days it has no price for.
		return decimal.Zero, fmt.Errorf("%w: %v", ErrNoData, err)
	}
	// because jsonpath is never clear about wheter it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	switch v := jval.(type) {
	case json.Number:
		return decimal.NewFromString(v.String())
	case float64:
		return decimal.NewFromFloat(v), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q is not a number: %v", ErrNoData, path, jval)
	}
}

// jwget performs an HTTP GET request and unmarshals the JSON response into the provided data structure.
func (c *Client) jwget(ctx context.Context, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.cfg.APIKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	dec := json.NewDecoder(io.LimitReader(resp.Body, 10<<20))
	dec.UseNumber()
	return dec.Decode(data)
}
