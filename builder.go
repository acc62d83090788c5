package taxlots

// BuildInventories processes BUY records into per-asset inventories ordered by
// acquisition date, and returns the total of their fees.
//
// Records do not need to be sorted: every new lot is inserted at its date
// position. Any record that is not a BUY fails with an *InvalidActionError.
func BuildInventories(trades []Trade) (Inventories, Money, error) {
	inventories := make(Inventories)
	var fees Money
	for _, t := range trades {
		if t.Action != Buy {
			return nil, Money{}, &InvalidActionError{TradeID: t.ID, Action: t.Action, Want: Buy.String()}
		}
		if err := t.Validate(); err != nil {
			return nil, Money{}, err
		}
		inventories[t.Asset] = inventories[t.Asset].Insert(newLot(t))
		fees = fees.Add(t.Fee)
	}
	return inventories, fees, nil
}

// newLot creates the lot acquired by a buy.
func newLot(t Trade) Lot {
	return Lot{
		Date:    t.Date,
		Basis:   t.unitBasis(),
		Size:    t.Size,
		TradeID: t.ID,
	}
}
