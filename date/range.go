package date

import (
	"fmt"
	"time"
)

// Range represents a range of dates, boundaries included.
type Range struct{ From, To Date }

// Year returns the calendar year y, the usual tax year.
func Year(y int) Range {
	return Range{From: New(y, time.January, 1), To: New(y, time.December, 31)}
}

// Contains return true if the instant t falls on a day of the range.
func (r Range) Contains(t time.Time) bool {
	d := Of(t)
	return !d.Before(r.From) && !d.After(r.To)
}

// Bounds returns the half-open interval of instants [from, to) covered by the range.
func (r Range) Bounds() (from, to time.Time) {
	return r.From.Time(), r.To.Add(1).Time()
}

// String names the range, a calendar year is named by its number.
func (r Range) String() string {
	if r == Year(r.From.Year()) {
		return r.From.Format("2006")
	}
	return fmt.Sprintf("%s_%s", r.From, r.To)
}
