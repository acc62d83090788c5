package date

import (
	"fmt"
	"strings"
	"time"
)

// LongTermThreshold is the holding period a lot must strictly exceed to be long term.
const LongTermThreshold = 365 * Day

// layouts accepted by Parse, tried in order. They cover RFC3339 and the
// timestamps found in exchange exports.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999Z", // coinbase, fractional seconds and a literal Z
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999", // kraken
	"2006-01-02 15:04:05",
	"1/2/2006 15:04", // binance
	readDateFormat,
}

// Parse parses a trade instant. Instants without a zone are taken as UTC.
// The result is always in UTC.
func Parse(str string) (time.Time, error) {
	s := strings.TrimSpace(str)
	// some exports write the zone designator in lower case.
	if strings.HasSuffix(s, "z") {
		s = s[:len(s)-1] + "Z"
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid instant %q: want RFC3339 or an exchange timestamp like %q", str, "2006-01-02 15:04:05")
}

// MustParse is like Parse but panics on error.
func MustParse(str string) time.Time {
	t, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return t
}

// HeldLongTerm reports whether a lot acquired at entry and disposed at exit was
// held strictly more than 365 days. Exactly 365 days is short term.
func HeldLongTerm(entry, exit time.Time) bool {
	return exit.Sub(entry) > LongTermThreshold
}

// HeldDays returns the number of whole days between entry and exit.
func HeldDays(entry, exit time.Time) int {
	return int(exit.Sub(entry) / Day)
}
