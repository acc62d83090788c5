package taxlots

import "strings"

// Strategy defines the order in which lots are selected to fund a disposal.
type Strategy int

const (
	// HIFO (Highest-In, First-Out) consumes the lot with the highest unit basis first, minimizing the recognized gain.
	HIFO Strategy = iota + 1
	// LOWIFO (Lowest-In, First-Out) consumes the lot with the lowest unit basis first.
	LOWIFO
)

func (s Strategy) String() string {
	switch s {
	case HIFO:
		return "hifo"
	case LOWIFO:
		return "lowifo"
	default:
		return "unknown"
	}
}

// ParseStrategy parses a string into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hifo":
		return HIFO, nil
	case "lowifo":
		return LOWIFO, nil
	default:
		return 0, &UnsupportedStrategyError{Name: s}
	}
}

func (s Strategy) validate() error {
	switch s {
	case HIFO, LOWIFO:
		return nil
	default:
		return &UnsupportedStrategyError{Name: s.String()}
	}
}

// pick returns the index of the lot to consume next.
// The first lot encountered wins ties; lots are kept in ascending date order
// so that is the earliest acquisition among equal bases.
func (s Strategy) pick(lots []Lot) int {
	best := 0
	for i := 1; i < len(lots); i++ {
		switch s {
		case HIFO:
			if lots[i].Basis.GreaterThan(lots[best].Basis) {
				best = i
			}
		case LOWIFO:
			if lots[i].Basis.LessThan(lots[best].Basis) {
				best = i
			}
		}
	}
	return best
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	v, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
