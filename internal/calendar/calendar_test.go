package calendar

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonth(t *testing.T) {
	var g Gregorian
	anchor := date(2026, time.August, 25)
	cases := []struct {
		offset int
		start  time.Time
		end    time.Time
		label  string
	}{
		{0, date(2026, time.August, 1), date(2026, time.September, 1), "2026-08"},
		{-1, date(2026, time.July, 1), date(2026, time.August, 1), "2026-07"},
		{-8, date(2025, time.December, 1), date(2026, time.January, 1), "2025-12"}, // year rollover
		{1, date(2026, time.September, 1), date(2026, time.October, 1), "2026-09"},
	}
	for i, tc := range cases {
		w := g.Month(anchor, tc.offset)
		if !w.Start.Equal(tc.start) || !w.End.Equal(tc.end) || w.Label != tc.label {
			t.Fatalf("case %d got %v..%v %q", i, w.Start, w.End, w.Label)
		}
	}
}

func TestMonthEndOfJanuary(t *testing.T) {
	// Offsets from Jan 31 must not skip February via day normalization.
	w := Gregorian{}.Month(date(2026, time.January, 31), 1)
	if w.Label != "2026-02" {
		t.Fatalf("expected 2026-02, got %q", w.Label)
	}
}

func TestSpan(t *testing.T) {
	var g Gregorian
	anchor := date(2026, time.August, 25)

	w := g.Span(anchor, 6)
	if !w.Start.Equal(date(2026, time.March, 1)) {
		t.Fatalf("expected start 2026-03-01, got %v", w.Start)
	}
	if !w.End.Equal(date(2026, time.September, 1)) {
		t.Fatalf("expected end 2026-09-01, got %v", w.End)
	}
	if w.Label != "2026-08" {
		t.Fatalf("expected label 2026-08, got %q", w.Label)
	}

	single := g.Span(anchor, 1)
	if !single.Start.Equal(date(2026, time.August, 1)) || !single.End.Equal(date(2026, time.September, 1)) {
		t.Fatalf("span of 1 should be the anchor month, got %v..%v", single.Start, single.End)
	}
}

func TestTrailing(t *testing.T) {
	got := Gregorian{}.Trailing(date(2026, time.March, 15), 3)
	want := []string{"2026-01", "2026-02", "2026-03"}
	if len(got) != len(want) {
		t.Fatalf("expected %d windows, got %d", len(want), len(got))
	}
	for i, w := range got {
		if w.Label != want[i] {
			t.Fatalf("window %d expected %q, got %q", i, want[i], w.Label)
		}
	}
}

func TestPreceding(t *testing.T) {
	got := Gregorian{}.Preceding(date(2026, time.February, 10), 3)
	want := []string{"2025-11", "2025-12", "2026-01"}
	if len(got) != len(want) {
		t.Fatalf("expected %d windows, got %d", len(want), len(got))
	}
	for i, w := range got {
		if w.Label != want[i] {
			t.Fatalf("window %d expected %q, got %q", i, want[i], w.Label)
		}
	}
}

func TestWindowsAreContiguous(t *testing.T) {
	windows := Gregorian{}.Trailing(date(2026, time.August, 25), 12)
	for i := 1; i < len(windows); i++ {
		if !windows[i-1].End.Equal(windows[i].Start) {
			t.Fatalf("gap between %q and %q", windows[i-1].Label, windows[i].Label)
		}
	}
}
