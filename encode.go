package taxlots

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/etnz/taxlots/date"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DecodeTrades decodes trade records from a stream of JSONL data, one record per line:
//
//	{"id":"KRAKEN:T1","action":"BUY","date":"2021-01-02T10:00:00Z","size":1.5,"asset":"BTC","fee":2.5,"net_fiat":45000}
//
// Amounts are expressed in currency. A record without "net_fiat" is marked Unvalued.
// Records are returned in input order.
func DecodeTrades(r io.Reader, currency string) ([]Trade, error) {
	var trades []Trade
	scanner := bufio.NewScanner(r)
	i := 0
	for scanner.Scan() {
		i++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue // Skip empty lines
		}

		// Use a temporary type that has all possible fields.
		var temp struct {
			ID      string           `json:"id"`
			Action  Action           `json:"action"`
			Date    string           `json:"date"`
			Size    Quantity         `json:"size"`
			Asset   string           `json:"asset"`
			Fee     decimal.Decimal  `json:"fee"`
			NetFiat *decimal.Decimal `json:"net_fiat"`
		}
		if err := json.Unmarshal(line, &temp); err != nil {
			return nil, fmt.Errorf("format error on line %d %q: %w", i, string(line), err)
		}
		on, err := date.Parse(temp.Date)
		if err != nil {
			return nil, fmt.Errorf("format error on line %d: %w", i, err)
		}

		t := Trade{
			ID:      temp.ID,
			Action:  temp.Action,
			Date:    on,
			Size:    temp.Size,
			Asset:   strings.ToUpper(strings.TrimSpace(temp.Asset)),
			Fee:     M(temp.Fee, currency),
			NetFiat: M(0, currency),
		}
		if temp.NetFiat == nil {
			t.Unvalued = true
		} else {
			t.NetFiat = M(*temp.NetFiat, currency)
		}
		trades = append(trades, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return trades, nil
}

// EncodeTrades writes trades as JSONL, one record per line, with a stable field order.
func EncodeTrades(w io.Writer, trades []Trade) error {
	for _, t := range trades {
		b, err := t.MarshalJSON()
		if err != nil {
			return fmt.Errorf("encoding trade %q: %w", t.ID, err)
		}
		b = append(b, '\n')
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	return nil
}

func (t Trade) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("action", t.Action)
	w.Append("date", t.Date.UTC().Format(time.RFC3339Nano))
	w.Append("size", t.Size)
	w.Append("asset", t.Asset)
	w.Append("fee", t.Fee.Decimal())
	if !t.Unvalued {
		w.Append("net_fiat", t.NetFiat.Decimal())
	}
	return w.MarshalJSON()
}

// DefaultAliases maps legacy or exchange specific tickers to their canonical name.
var DefaultAliases = map[string]string{
	"XBT":  "BTC",
	"LEND": "AAVE", // rebranded
}

// NormalizeAssets renames, in place, every asset found in aliases.
func NormalizeAssets(trades []Trade, aliases map[string]string) {
	for i := range trades {
		if canonical, ok := aliases[trades[i].Asset]; ok {
			trades[i].Asset = canonical
		}
	}
}
