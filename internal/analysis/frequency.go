package analysis

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"finsight/internal/core"
)

// Classification is the periodicity read off a cluster's date sequence.
type Classification struct {
	Frequency    core.Frequency
	AvgGapDays   decimal.Decimal
	Subscription bool
	// NextExpected is a naive linear forecast: last date plus the average
	// gap rounded to whole days. Nil when fewer than two dates exist or
	// the average gap is zero.
	NextExpected *time.Time
}

// gapBands maps an average gap in days onto a frequency label. Bounds are
// inclusive and bands are evaluated in order, first match wins.
var gapBands = []struct {
	lo, hi int64
	freq   core.Frequency
}{
	{25, 35, core.FrequencyMonthly},
	{12, 16, core.FrequencyBiWeekly},
	{6, 8, core.FrequencyWeekly},
	{85, 95, core.FrequencyQuarterly},
}

// ClassifyInterval labels the periodicity of a date sequence from the mean
// gap between consecutive calendar days. Fewer than two dates classify as
// unknown with no forecast; a mean gap outside every band is irregular.
func ClassifyInterval(dates []time.Time) Classification {
	if len(dates) < 2 {
		return Classification{Frequency: core.FrequencyUnknown}
	}

	days := make([]time.Time, len(dates))
	for i, d := range dates {
		days[i] = civilDay(d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	var gapSum int64
	for i := 1; i < len(days); i++ {
		gapSum += int64(days[i].Sub(days[i-1]).Hours() / 24)
	}
	avgGap := decimal.NewFromInt(gapSum).Div(decimal.NewFromInt(int64(len(days) - 1)))

	freq := core.FrequencyIrregular
	for _, band := range gapBands {
		if avgGap.GreaterThanOrEqual(decimal.NewFromInt(band.lo)) && avgGap.LessThanOrEqual(decimal.NewFromInt(band.hi)) {
			freq = band.freq
			break
		}
	}

	cls := Classification{
		Frequency:    freq,
		AvgGapDays:   avgGap,
		Subscription: freq.SubscriptionLike(),
	}
	if avgGap.IsPositive() {
		next := days[len(days)-1].AddDate(0, 0, int(avgGap.Round(0).IntPart()))
		cls.NextExpected = &next
	}
	return cls
}

// civilDay strips the clock so gap math counts calendar days, immune to
// DST-length days.
func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
