// Package calendar builds half-open month windows for analysis queries.
//
// All windows run from midnight on the first of a month to midnight on the
// first of the next month, in the anchor's location. Month arithmetic goes
// through time.Date normalization, so offsets roll over year boundaries.
package calendar

import (
	"time"

	"finsight/internal/core"
)

const labelLayout = "2006-01"

// DayLayout is the display form of a single day, e.g. "2026-08-25".
const DayLayout = "2006-01-02"

// Ranger supplies the month windows the analysis iterates over. The engine
// treats every window as an opaque half-open interval.
type Ranger interface {
	// Month returns the window of the calendar month containing anchor,
	// shifted by offset months. Offset 0 is the anchor's own month, -1 the
	// month before it.
	Month(anchor time.Time, offset int) core.Window

	// Span returns one window covering the given number of months and
	// ending with the anchor's month. A span of 1 is the anchor month
	// itself. The label is the anchor month's label.
	Span(anchor time.Time, months int) core.Window

	// Trailing returns the given number of month windows ending with the
	// anchor's month, oldest first.
	Trailing(anchor time.Time, months int) []core.Window

	// Preceding returns the given number of full month windows before the
	// anchor's month, oldest first. The anchor month is excluded.
	Preceding(anchor time.Time, months int) []core.Window
}

// Gregorian implements Ranger over the proleptic Gregorian calendar used
// by the time package.
type Gregorian struct{}

var _ Ranger = Gregorian{}

func (Gregorian) Month(anchor time.Time, offset int) core.Window {
	y, m, _ := anchor.Date()
	start := time.Date(y, m+time.Month(offset), 1, 0, 0, 0, 0, anchor.Location())
	end := time.Date(y, m+time.Month(offset)+1, 1, 0, 0, 0, 0, anchor.Location())
	return core.Window{Start: start, End: end, Label: start.Format(labelLayout)}
}

func (g Gregorian) Span(anchor time.Time, months int) core.Window {
	first := g.Month(anchor, -(months - 1))
	last := g.Month(anchor, 0)
	return core.Window{Start: first.Start, End: last.End, Label: last.Label}
}

func (g Gregorian) Trailing(anchor time.Time, months int) []core.Window {
	out := make([]core.Window, 0, months)
	for i := months - 1; i >= 0; i-- {
		out = append(out, g.Month(anchor, -i))
	}
	return out
}

func (g Gregorian) Preceding(anchor time.Time, months int) []core.Window {
	out := make([]core.Window, 0, months)
	for i := months; i >= 1; i-- {
		out = append(out, g.Month(anchor, -i))
	}
	return out
}
