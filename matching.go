package taxlots

import (
	"fmt"
	"slices"
)

// MatchResult is the outcome of one disposal resolved against an inventory.
type MatchResult struct {
	ShortTerm Money        // obligation realized on lots held 365 days or less
	LongTerm  Money        // obligation realized on lots held more than 365 days
	Remaining Inventory    // the inventory after the disposal
	Unmatched Quantity     // disposed units no eligible lot could fund
	Audit     []AuditEntry // one entry per consumed lot slice, in consumption order
}

// Matched is the quantity funded by lots.
func (r MatchResult) Matched() Quantity {
	var total Quantity
	for _, e := range r.Audit {
		total = total.Add(e.ExitSize)
	}
	return total
}

// Match resolves the disposal t against the lots of its asset using strategy s.
//
// Only lots acquired strictly before the disposal are eligible. Among them the
// lot with the highest (HIFO) or lowest (LOWIFO) unit basis is consumed first,
// until the disposal is covered or no eligible lot remains. What cannot be
// covered is returned as Unmatched.
//
// BURN disposals always use LOWIFO and receive no consideration: their audit
// entries carry a zero obligation and they never add to the totals.
//
// inv is not modified; the updated inventory is returned in Remaining.
func Match(inv Inventory, t Trade, s Strategy) (MatchResult, error) {
	if !t.Action.IsDisposal() {
		return MatchResult{}, &InvalidActionError{TradeID: t.ID, Action: t.Action, Want: "SELL or BURN"}
	}
	if t.Action == Burn {
		s = LOWIFO
	}
	if err := s.validate(); err != nil {
		return MatchResult{}, err
	}
	if err := t.Validate(); err != nil {
		return MatchResult{}, err
	}

	cur := t.NetFiat.Currency()
	result := MatchResult{
		ShortTerm: M(0, cur),
		LongTerm:  M(0, cur),
		Remaining: inv,
		Unmatched: t.Size,
	}

	end := inv.eligible(t.Date)
	if end == 0 {
		return result, nil
	}

	// work on a private copy of the window, origin[i] is the index in inv of working[i].
	working := slices.Clone(inv[:end])
	origin := make([]int, end)
	for i := range origin {
		origin[i] = i
	}
	consumed := make([]Quantity, end)

	exitBasis := t.exitBasis()
	outstanding := t.Size
	for outstanding.IsPositive() && len(working) > 0 {
		k := s.pick(working)
		lot := working[k]
		amount := MinQ(lot.Size, outstanding)

		obligation := M(0, cur)
		if t.Action == Sell {
			obligation = exitBasis.Sub(lot.Basis).Mul(amount)
		}
		term := termOf(lot.Date, t.Date)
		switch {
		case t.Action == Burn:
		case term == Long:
			result.LongTerm = result.LongTerm.Add(obligation)
		default:
			result.ShortTerm = result.ShortTerm.Add(obligation)
		}

		result.Audit = append(result.Audit, AuditEntry{
			Asset:        t.Asset,
			EntryDate:    lot.Date,
			EntryBasis:   lot.Basis,
			EntrySize:    amount,
			EntryTradeID: lot.TradeID,
			ExitDate:     t.Date,
			ExitBasis:    exitBasis,
			ExitSize:     amount,
			ExitTradeID:  t.ID,
			Obligation:   obligation,
			Term:         term,
		})
		consumed[origin[k]] = consumed[origin[k]].Add(amount)
		outstanding = outstanding.Sub(amount)

		if amount.Equal(lot.Size) {
			working = slices.Delete(working, k, k+1)
			origin = slices.Delete(origin, k, k+1)
			continue
		}
		// the lot still has capacity, the disposal is covered.
		working[k].Size = lot.Size.Sub(amount)
		break
	}

	if err := verifyTemporalOrder(result.Audit); err != nil {
		return MatchResult{}, fmt.Errorf("matching disposal %q: %w", t.ID, err)
	}

	result.Remaining = settle(inv, consumed)
	result.Unmatched = outstanding
	return result, nil
}

// settle reconciles the original lot sizes against the amounts consumed per
// lot and returns the surviving inventory. consumed may be shorter than inv.
func settle(inv Inventory, consumed []Quantity) Inventory {
	remaining := make(Inventory, 0, len(inv))
	for i, l := range inv {
		if i < len(consumed) && !consumed[i].IsZero() {
			l.Size = l.Size.Sub(consumed[i])
			if !l.Size.IsPositive() {
				continue
			}
		}
		remaining = append(remaining, l)
	}
	return remaining
}
