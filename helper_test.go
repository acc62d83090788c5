package taxlots

import (
	"time"

	"github.com/etnz/taxlots/date"
)

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// day0 is the reference instant of test scenarios, day n is day0 + n days.
var day0 = date.MustParse("2021-01-01T12:00:00Z")

func day(n int) time.Time { return day0.Add(time.Duration(n) * date.Day) }

// buy is a helper to create a BUY of size units at unit price, on day n.
func buy(id string, n int, asset string, size, unit float64) Trade {
	return Trade{
		ID:      id,
		Action:  Buy,
		Date:    day(n),
		Size:    Q(size),
		Asset:   asset,
		Fee:     USD(0),
		NetFiat: USD(size * unit),
	}
}

// sell is a helper to create a SELL of size units at unit price, on day n.
func sell(id string, n int, asset string, size, unit float64) Trade {
	t := buy(id, n, asset, size, unit)
	t.Action = Sell
	return t
}

// burn is a helper to create a BURN of size units on day n.
func burn(id string, n int, asset string, size float64) Trade {
	t := buy(id, n, asset, size, 0)
	t.Action = Burn
	return t
}

// withFee returns t with the given fee.
func withFee(t Trade, fee float64) Trade {
	t.Fee = USD(fee)
	return t
}
