package taxlots

import (
	"fmt"
	"strings"
)

// Action is the kind of a trade record.
type Action int

const (
	// Buy acquires units of an asset and creates a lot.
	Buy Action = iota + 1
	// Sell disposes of units of an asset for fiat.
	Sell
	// Burn disposes of units of an asset with no market consideration (e.g. network fees paid in kind).
	Burn
)

func (a Action) String() string {
	switch a {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	case Burn:
		return "BURN"
	default:
		return "UNKNOWN"
	}
}

// IsDisposal reports whether the action removes units from an inventory.
func (a Action) IsDisposal() bool { return a == Sell || a == Burn }

// ParseAction parses an action name, case insensitive.
func ParseAction(s string) (Action, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY":
		return Buy, nil
	case "SELL":
		return Sell, nil
	case "BURN":
		return Burn, nil
	default:
		return 0, fmt.Errorf("unknown action %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(text []byte) error {
	v, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
