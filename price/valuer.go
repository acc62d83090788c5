package price

import (
	"context"
	"fmt"

	"github.com/etnz/taxlots"
	"github.com/etnz/taxlots/date"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Valuer turns lookups into values that never fail: an asset that cannot be
// priced is worth zero.
type Valuer struct {
	Lookup Lookup
	Log    logrus.FieldLogger
}

// Price returns the unit price of asset on day on, or zero if it cannot be looked up.
func (v Valuer) Price(ctx context.Context, asset string, on date.Date) decimal.Decimal {
	p, err := v.Lookup.Price(ctx, asset, on)
	if err != nil {
		if v.Log != nil {
			v.Log.WithFields(logrus.Fields{"asset": asset, "date": on}).Warnf("unrecognized asset, valued at zero: %v", err)
		}
		return decimal.Zero
	}
	return p
}

// Fill sets the fiat value of every unvalued trade to size times the daily price of its asset.
// It returns the number of trades it priced. Burns are set to zero, they receive no consideration.
func Fill(ctx context.Context, v Valuer, trades []taxlots.Trade, currency string) (int, error) {
	n := 0
	for i := range trades {
		t := &trades[i]
		if !t.Unvalued {
			continue
		}
		if err := ctx.Err(); err != nil {
			return n, fmt.Errorf("filling trade %q: %w", t.ID, err)
		}
		if t.Action == taxlots.Burn {
			t.NetFiat = taxlots.M(0, currency)
			t.Unvalued = false
			continue
		}
		p := v.Price(ctx, t.Asset, date.Of(t.Date))
		t.NetFiat = taxlots.M(p.Mul(t.Size.Decimal()), currency)
		t.Unvalued = false
		n++
	}
	return n, nil
}
