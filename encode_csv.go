package taxlots

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/taxlots/date"
	"github.com/shopspring/decimal"
)

// csvColumns is the standard trade layout produced by exchange normalizers.
var csvColumns = []string{"trade id", "action", "date", "size", "asset", "trading_fee", "total_dollars"}

// DecodeTradesCSV decodes trade records in the standard CSV layout:
//
//	trade id,action,date,size,asset,trading_fee,total_dollars
//
// The header line is required, columns may come in any order. An empty
// total_dollars marks the record Unvalued.
func DecodeTradesCSV(r io.Reader, currency string) ([]Trade, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range csvColumns {
		if _, ok := index[c]; !ok {
			return nil, fmt.Errorf("csv header %q: missing column %q", strings.Join(header, ","), c)
		}
	}

	var trades []Trade
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		field := func(name string) string { return strings.TrimSpace(rec[index[name]]) }

		t, err := decodeRecord(field, currency)
		if err != nil {
			return nil, fmt.Errorf("format error on line %d: %w", line, err)
		}
		trades = append(trades, t)
	}
	return trades, nil
}

func decodeRecord(field func(string) string, currency string) (Trade, error) {
	action, err := ParseAction(field("action"))
	if err != nil {
		return Trade{}, err
	}
	on, err := date.Parse(field("date"))
	if err != nil {
		return Trade{}, err
	}
	size, err := ParseQuantity(field("size"))
	if err != nil {
		return Trade{}, fmt.Errorf("invalid size %q: %w", field("size"), err)
	}
	t := Trade{
		ID:      field("trade id"),
		Action:  action,
		Date:    on,
		Size:    size,
		Asset:   strings.ToUpper(field("asset")),
		Fee:     M(0, currency),
		NetFiat: M(0, currency),
	}
	if s := field("trading_fee"); s != "" {
		if t.Fee, err = ParseMoney(s, currency); err != nil {
			return Trade{}, fmt.Errorf("invalid trading_fee %q: %w", s, err)
		}
	}
	s := field("total_dollars")
	if s == "" {
		t.Unvalued = true
		return t, nil
	}
	fiat, err := decimal.NewFromString(s)
	if err != nil {
		return Trade{}, fmt.Errorf("invalid total_dollars %q: %w", s, err)
	}
	t.NetFiat = M(fiat, currency)
	return t, nil
}
