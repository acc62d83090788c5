package taxlots

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/etnz/taxlots/date"
	"github.com/google/go-cmp/cmp"
)

func TestDecodeTrades(t *testing.T) {
	input := `{"id":"KRAKEN:T1","action":"BUY","date":"2021-01-02 10:00:00.0000","size":1.5,"asset":"xbt","fee":2.5,"net_fiat":45000}

{"id":"COINBASE:T2","action":"sell","date":"2021-03-04T05:06:07.000z","size":"0.5","asset":"BTC","fee":0,"net_fiat":20000.25}
{"id":"ETHERSCAN:0xabc","action":"BURN","date":"2021-03-05T00:00:00Z","size":0.002,"asset":"ETH","fee":0}
`
	trades, err := DecodeTrades(strings.NewReader(input), "USD")
	if err != nil {
		t.Fatalf("DecodeTrades() failed: %v", err)
	}
	NormalizeAssets(trades, DefaultAliases)

	want := []Trade{
		{ID: "KRAKEN:T1", Action: Buy, Date: date.MustParse("2021-01-02T10:00:00Z"), Size: Q(1.5), Asset: "BTC", Fee: USD(2.5), NetFiat: USD(45000)},
		{ID: "COINBASE:T2", Action: Sell, Date: date.MustParse("2021-03-04T05:06:07Z"), Size: Q(0.5), Asset: "BTC", Fee: USD(0), NetFiat: USD(20000.25)},
		{ID: "ETHERSCAN:0xabc", Action: Burn, Date: date.MustParse("2021-03-05T00:00:00Z"), Size: Q(0.002), Asset: "ETH", Fee: USD(0), NetFiat: USD(0), Unvalued: true},
	}
	if diff := cmp.Diff(want, trades, cmpOpts); diff != "" {
		t.Errorf("DecodeTrades() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeTrades_Errors(t *testing.T) {
	tests := []string{
		`{"id":"T1","action":"BUY","date":"2021-01-02","size":1,"asset":"BTC"`,
		`{"id":"T1","action":"GIFT","date":"2021-01-02","size":1,"asset":"BTC"}`,
		`{"id":"T1","action":"BUY","date":"last week","size":1,"asset":"BTC"}`,
	}
	for _, input := range tests {
		if _, err := DecodeTrades(strings.NewReader(input), "USD"); err == nil {
			t.Errorf("DecodeTrades(%s) succeeded, want an error", input)
		}
	}
}

func TestEncodeTrades(t *testing.T) {
	trades := []Trade{
		{ID: "T1", Action: Buy, Date: date.MustParse("2021-01-02T10:00:00Z"), Size: Q(1.5), Asset: "BTC", Fee: USD(2.5), NetFiat: USD(45000)},
		{ID: "T2", Action: Burn, Date: date.MustParse("2021-01-03T10:00:00Z"), Size: Q(0.1), Asset: "ETH", Fee: USD(0), Unvalued: true},
	}
	var buf bytes.Buffer
	if err := EncodeTrades(&buf, trades); err != nil {
		t.Fatalf("EncodeTrades() failed: %v", err)
	}
	want := `{"id":"T1","action":"BUY","date":"2021-01-02T10:00:00Z","size":1.5,"asset":"BTC","fee":2.5,"net_fiat":45000}
{"id":"T2","action":"BURN","date":"2021-01-03T10:00:00Z","size":0.1,"asset":"ETH","fee":0}
`
	if got := buf.String(); got != want {
		t.Errorf("EncodeTrades() =\n%s\nwant\n%s", got, want)
	}

	// what is encoded decodes back to the same trades.
	back, err := DecodeTrades(&buf, "USD")
	if err != nil {
		t.Fatalf("DecodeTrades() failed: %v", err)
	}
	trades[1].NetFiat = USD(0)
	if diff := cmp.Diff(trades, back, cmpOpts); diff != "" {
		t.Errorf("DecodeTrades(EncodeTrades()) mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeTradesCSV(t *testing.T) {
	input := `trade id,action,date,size,asset,trading_fee,total_dollars
BINANCE:1,BUY,1/2/2021 10:00,2,ETH,1.5,1500
BINANCE:1-AUXILIARY,SELL,1/2/2021 10:00,0.05,BTC,0,1500
ETHERSCAN:0xdef,BURN,2021-01-03 11:00:00,0.01,ETH,0,
`
	trades, err := DecodeTradesCSV(strings.NewReader(input), "USD")
	if err != nil {
		t.Fatalf("DecodeTradesCSV() failed: %v", err)
	}
	want := []Trade{
		{ID: "BINANCE:1", Action: Buy, Date: date.MustParse("2021-01-02T10:00:00Z"), Size: Q(2), Asset: "ETH", Fee: USD(1.5), NetFiat: USD(1500)},
		{ID: "BINANCE:1-AUXILIARY", Action: Sell, Date: date.MustParse("2021-01-02T10:00:00Z"), Size: Q(0.05), Asset: "BTC", Fee: USD(0), NetFiat: USD(1500)},
		{ID: "ETHERSCAN:0xdef", Action: Burn, Date: date.MustParse("2021-01-03T11:00:00Z"), Size: Q(0.01), Asset: "ETH", Fee: USD(0), NetFiat: USD(0), Unvalued: true},
	}
	if diff := cmp.Diff(want, trades, cmpOpts); diff != "" {
		t.Errorf("DecodeTradesCSV() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeTradesCSV_Errors(t *testing.T) {
	tests := map[string]string{
		"missing column": "trade id,action,date,size,asset\nT1,BUY,2021-01-01,1,BTC\n",
		"bad size":       "trade id,action,date,size,asset,trading_fee,total_dollars\nT1,BUY,2021-01-01,one,BTC,0,1\n",
		"bad action":     "trade id,action,date,size,asset,trading_fee,total_dollars\nT1,SWAP,2021-01-01,1,BTC,0,1\n",
		"empty":          "",
	}
	for name, input := range tests {
		if _, err := DecodeTradesCSV(strings.NewReader(input), "USD"); err == nil {
			t.Errorf("%s: DecodeTradesCSV() succeeded, want an error", name)
		}
	}
}

func TestEncodeAuditCSV(t *testing.T) {
	r, err := Compute([]Trade{
		buy("B1", 0, "BTC", 1, 100),
		sell("S1", 400, "BTC", 0.25, 300),
	}, HIFO)
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}
	var buf bytes.Buffer
	if err := EncodeAuditCSV(&buf, r.Audit); err != nil {
		t.Fatalf("EncodeAuditCSV() failed: %v", err)
	}
	want := `asset,entry_date,entry_basis,entry_size,entry_trade_id,exit_date,exit_basis,exit_size,exit_trade_id,obligation,term
BTC,2021-01-01T12:00:00Z,100,0.25,B1,2022-02-05T12:00:00Z,300,0.25,S1,50,long
`
	if got := buf.String(); got != want {
		t.Errorf("EncodeAuditCSV() =\n%s\nwant\n%s", got, want)
	}
}

func TestTradeValidate(t *testing.T) {
	b := burn("G1", 1, "ETH", 0.1)
	b.Unvalued = true
	if err := b.Validate(); err != nil {
		t.Errorf("Validate(unvalued burn) = %v, want nil", err)
	}
	s := sell("S1", 1, "ETH", 0.1, 10)
	s.Unvalued = true
	if err := s.Validate(); !errors.Is(err, ErrInvalidTrade) {
		t.Errorf("Validate(unvalued sell) = %v, want ErrInvalidTrade", err)
	}
	s.Action = Action(9)
	if err := s.Validate(); !errors.Is(err, ErrInvalidTrade) {
		t.Errorf("Validate(unknown action) = %v, want ErrInvalidTrade", err)
	}
}
