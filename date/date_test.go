package date

import (
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParse(t *testing.T) {
	want := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2021-03-04T05:06:07Z", want},
		{"2021-03-04T06:06:07+01:00", want},
		{"2021-03-04T05:06:07.000z", want},
		{"2021-03-04 05:06:07.0000", want},
		{"2021-03-04 05:06:07", want},
		{"3/4/2021 05:06", time.Date(2021, 3, 4, 5, 6, 0, 0, time.UTC)},
		{"2021-3-4", time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) || got.Location() != time.UTC {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := Parse("yesterday"); err == nil {
		t.Errorf("Parse(%q) succeeded, want an error", "yesterday")
	}
}

func TestHeldLongTerm(t *testing.T) {
	entry := MustParse("2020-01-01T00:00:00Z")
	tests := []struct {
		days int
		want bool
	}{
		{1, false},
		{364, false},
		{365, false},
		{366, true},
		{1000, true},
	}
	for _, tt := range tests {
		exit := entry.Add(time.Duration(tt.days) * Day)
		if got := HeldLongTerm(entry, exit); got != tt.want {
			t.Errorf("HeldLongTerm(day 0, day %d) = %v, want %v", tt.days, got, tt.want)
		}
		if got := HeldDays(entry, exit); got != tt.days {
			t.Errorf("HeldDays(day 0, day %d) = %d", tt.days, got)
		}
	}
	// one second past the threshold is already long term.
	if !HeldLongTerm(entry, entry.Add(LongTermThreshold+time.Second)) {
		t.Errorf("HeldLongTerm(365 days and 1s) = false, want true")
	}
}

func TestRange(t *testing.T) {
	r := Year(2021)
	if got, want := r.String(), "2021"; got != want {
		t.Errorf("Year(2021).String() = %q, want %q", got, want)
	}
	if !r.Contains(MustParse("2021-12-31T23:59:59Z")) {
		t.Errorf("Year(2021) should contain the last second of the year")
	}
	if r.Contains(MustParse("2022-01-01T00:00:00Z")) {
		t.Errorf("Year(2021) should not contain 2022-01-01")
	}
	from, to := r.Bounds()
	if !from.Equal(MustParse("2021-01-01")) || !to.Equal(MustParse("2022-01-01")) {
		t.Errorf("Year(2021).Bounds() = %v, %v", from, to)
	}
	custom := Range{From: New(2021, 3, 1), To: New(2021, 3, 31)}
	if got, want := custom.String(), "2021-03-01_2021-03-31"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-7-1")
	if err != nil {
		t.Fatalf("ParseDate() failed: %v", err)
	}
	if got, want := d.String(), "2025-07-01"; got != want {
		t.Errorf("ParseDate() = %q, want %q", got, want)
	}
	if got := Of(MustParse("2025-07-01T23:30:00-02:00")); got != New(2025, 7, 2) {
		t.Errorf("Of() = %v, want 2025-07-02", got)
	}
}
