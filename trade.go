package taxlots

import (
	"fmt"
	"slices"
	"time"
)

// Trade is a normalized trade record, the common shape every source is converted to.
type Trade struct {
	ID      string    // globally unique, prefixed by its source (e.g. "KRAKEN:...")
	Action  Action    // BUY, SELL or BURN
	Date    time.Time // UTC instant of the trade
	Size    Quantity  // units of Asset exchanged, always positive
	Asset   string    // ticker
	Fee     Money     // fee paid to the venue, in fiat
	NetFiat Money     // fiat value exchanged for Size units, fees already accounted by the source

	// Unvalued is set by decoders when the source record carried no fiat value.
	// Such a trade must be completed (see price.Fill) before it can be computed.
	Unvalued bool
}

// Validate checks the record invariants.
func (t Trade) Validate() error {
	switch {
	case t.ID == "":
		return fmt.Errorf("%w: missing trade id", ErrInvalidTrade)
	case t.Asset == "":
		return fmt.Errorf("%w: trade %q: missing asset", ErrInvalidTrade, t.ID)
	case t.Action != Buy && t.Action != Sell && t.Action != Burn:
		return fmt.Errorf("%w: trade %q: unknown action", ErrInvalidTrade, t.ID)
	case t.Date.IsZero():
		return fmt.Errorf("%w: trade %q: missing date", ErrInvalidTrade, t.ID)
	case !t.Size.IsPositive():
		return fmt.Errorf("%w: trade %q: size must be positive, got %s", ErrInvalidTrade, t.ID, t.Size)
	case t.Fee.IsNegative():
		return fmt.Errorf("%w: trade %q: fee must not be negative, got %s", ErrInvalidTrade, t.ID, t.Fee)
	case t.Unvalued && t.Action != Burn:
		return fmt.Errorf("%w: trade %q: missing net fiat value", ErrInvalidTrade, t.ID)
	}
	return nil
}

// unitBasis is the acquisition cost per unit of a buy.
func (t Trade) unitBasis() Money {
	return t.NetFiat.Abs().Div(t.Size).exact()
}

// exitBasis is the consideration received per unit of a disposal.
// A burn receives nothing.
func (t Trade) exitBasis() Money {
	if t.Action == Burn {
		return M(0, t.NetFiat.Currency()).exact()
	}
	return t.NetFiat.Div(t.Size).exact()
}

// SortTrades sorts trades by ascending date, keeping the relative order of trades on the same instant.
func SortTrades(trades []Trade) {
	slices.SortStableFunc(trades, func(a, b Trade) int { return a.Date.Compare(b.Date) })
}
