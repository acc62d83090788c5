package taxlots

import (
	"slices"
	"sort"
	"time"
)

// Lot represents a single acquisition of an asset, used for cost basis calculations.
type Lot struct {
	Date    time.Time // acquisition instant
	Basis   Money     // cost per unit
	Size    Quantity  // remaining units
	TradeID string    // the buy that created this lot
}

// Value is the remaining cost of the lot.
func (l Lot) Value() Money { return l.Basis.Mul(l.Size) }

// Inventory is the ordered sequence of lots of one asset, oldest first.
// It never holds a lot with a non positive size.
type Inventory []Lot

// Insert returns the inventory with l inserted at the position preserving
// ascending date order. A lot dated like existing ones goes after them.
func (inv Inventory) Insert(l Lot) Inventory {
	if !l.Size.IsPositive() {
		return inv
	}
	i := 0
	for i < len(inv) && !l.Date.Before(inv[i].Date) {
		i++
	}
	return slices.Insert(inv, i, l)
}

// eligible returns the number of leading lots acquired strictly before on.
// Lots are scanned from the most recent one backward until the first lot
// dated before the disposal; everything after it is invisible to the disposal.
func (inv Inventory) eligible(on time.Time) int {
	for i := len(inv) - 1; i >= 0; i-- {
		if inv[i].Date.Before(on) {
			return i + 1
		}
	}
	return 0
}

// Size is the total number of units held.
func (inv Inventory) Size() Quantity {
	var total Quantity
	for _, l := range inv {
		total = total.Add(l.Size)
	}
	return total
}

// Value is the total remaining cost of the inventory.
func (inv Inventory) Value() Money {
	var total Money
	for _, l := range inv {
		total = total.Add(l.Value())
	}
	return total
}

// Inventories maps an asset ticker to its inventory.
type Inventories map[string]Inventory

// Assets returns the tickers in alphabetical order.
func (m Inventories) Assets() []string {
	assets := make([]string, 0, len(m))
	for a := range m {
		assets = append(assets, a)
	}
	sort.Strings(assets)
	return assets
}
