package analysis

import (
	"testing"
	"time"

	"finsight/internal/core"
)

// datesWithGaps builds a date sequence starting at day 1 with the given
// gaps in days between consecutive dates.
func datesWithGaps(gaps ...int) []time.Time {
	dates := []time.Time{day(1)}
	current := 1
	for _, g := range gaps {
		current += g
		dates = append(dates, day(current))
	}
	return dates
}

func TestClassifyInterval(t *testing.T) {
	tests := []struct {
		name         string
		dates        []time.Time
		freq         core.Frequency
		subscription bool
	}{
		{"thirty day gaps are monthly", datesWithGaps(30, 30, 30), core.FrequencyMonthly, true},
		{"lower monthly bound inclusive", datesWithGaps(25, 25), core.FrequencyMonthly, true},
		{"upper monthly bound inclusive", datesWithGaps(35, 35), core.FrequencyMonthly, true},
		{"just under monthly band", datesWithGaps(24, 24), core.FrequencyIrregular, false},
		{"just over monthly band", datesWithGaps(36, 36), core.FrequencyIrregular, false},
		{"fourteen day gaps are bi-weekly", datesWithGaps(14, 14), core.FrequencyBiWeekly, true},
		{"seven day gaps are weekly", datesWithGaps(7, 7, 7), core.FrequencyWeekly, false},
		{"ninety day gaps are quarterly", datesWithGaps(90), core.FrequencyQuarterly, true},
		{"fifty day gaps are irregular", datesWithGaps(50, 50), core.FrequencyIrregular, false},
		{"mixed gaps average into the monthly band", datesWithGaps(28, 32), core.FrequencyMonthly, true},
		{"single date is unknown", []time.Time{day(1)}, core.FrequencyUnknown, false},
		{"no dates is unknown", nil, core.FrequencyUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyInterval(tt.dates)
			if got.Frequency != tt.freq {
				t.Errorf("frequency = %q, want %q", got.Frequency, tt.freq)
			}
			if got.Subscription != tt.subscription {
				t.Errorf("subscription = %v, want %v", got.Subscription, tt.subscription)
			}
		})
	}
}

func TestClassifyIntervalForecast(t *testing.T) {
	// 9.99-style subscription: days 1, 29, 61 give gaps of 28 and 32,
	// an average of 30, and a forecast on day 91.
	got := ClassifyInterval([]time.Time{day(1), day(29), day(61)})
	if got.Frequency != core.FrequencyMonthly {
		t.Fatalf("frequency = %q, want monthly", got.Frequency)
	}
	if !got.AvgGapDays.Equal(dec("30")) {
		t.Fatalf("avg gap = %s, want 30", got.AvgGapDays)
	}
	if got.NextExpected == nil {
		t.Fatal("expected a forecast")
	}
	if want := day(91); !got.NextExpected.Equal(want) {
		t.Fatalf("next expected = %v, want %v", got.NextExpected, want)
	}
}

func TestClassifyIntervalForecastRoundsGap(t *testing.T) {
	// Gaps 30 and 31 average 30.5, which rounds to 31 days.
	got := ClassifyInterval(datesWithGaps(30, 31))
	if got.NextExpected == nil {
		t.Fatal("expected a forecast")
	}
	last := day(1 + 30 + 31)
	if want := last.AddDate(0, 0, 31); !got.NextExpected.Equal(want) {
		t.Fatalf("next expected = %v, want %v", got.NextExpected, want)
	}
}

func TestClassifyIntervalSortsDates(t *testing.T) {
	shuffled := []time.Time{day(61), day(1), day(29)}
	got := ClassifyInterval(shuffled)
	if got.Frequency != core.FrequencyMonthly {
		t.Fatalf("frequency = %q, want monthly", got.Frequency)
	}
	if want := day(91); got.NextExpected == nil || !got.NextExpected.Equal(want) {
		t.Fatalf("next expected = %v, want %v", got.NextExpected, want)
	}
}

func TestClassifyIntervalNoForecastForUnknown(t *testing.T) {
	got := ClassifyInterval([]time.Time{day(1)})
	if got.NextExpected != nil {
		t.Fatalf("expected nil forecast, got %v", got.NextExpected)
	}
	if !got.AvgGapDays.IsZero() {
		t.Fatalf("expected zero gap, got %s", got.AvgGapDays)
	}
}

func TestClassifyIntervalZeroGap(t *testing.T) {
	// Same-day duplicates: average gap 0, irregular, no forecast.
	got := ClassifyInterval([]time.Time{day(1), day(1), day(1)})
	if got.Frequency != core.FrequencyIrregular {
		t.Fatalf("frequency = %q, want irregular", got.Frequency)
	}
	if got.NextExpected != nil {
		t.Fatalf("expected nil forecast, got %v", got.NextExpected)
	}
}
