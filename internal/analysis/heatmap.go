package analysis

import (
	"github.com/shopspring/decimal"

	"finsight/internal/core"
)

var (
	intensityVeryHigh = decimal.NewFromInt(80)
	intensityHigh     = decimal.NewFromInt(60)
	intensityMedium   = decimal.NewFromInt(30)
)

// DailyHeatmap expands per-day totals into one cell per calendar day of
// the window, zero-spend days included. Intensity bins each day against
// the maximum daily spend of the whole window.
func (e *Engine) DailyHeatmap(window core.Window, days []core.DayTotal) ([]core.HeatmapCell, core.HeatmapSummary) {
	byDay := make(map[string]core.DayTotal, len(days))
	maxSpend := decimal.Zero
	for _, d := range days {
		byDay[d.Date.Format(forecastLayout)] = d
		if d.Total.GreaterThan(maxSpend) {
			maxSpend = d.Total
		}
	}

	cells := []core.HeatmapCell{}
	total := decimal.Zero
	withSpending := 0
	minSpend := decimal.Zero

	for day := window.Start; day.Before(window.End); day = day.AddDate(0, 0, 1) {
		key := day.Format(forecastLayout)
		dt := byDay[key]

		total = total.Add(dt.Total)
		if dt.Total.IsPositive() {
			withSpending++
			if minSpend.IsZero() || dt.Total.LessThan(minSpend) {
				minSpend = dt.Total
			}
		}

		cells = append(cells, core.HeatmapCell{
			Date:             key,
			Amount:           dt.Total,
			TransactionCount: dt.Count,
			Intensity:        intensityFor(dt.Total, maxSpend),
		})
	}

	summary := core.HeatmapSummary{
		TotalDays:        len(cells),
		DaysWithSpending: withSpending,
		MaxDailySpending: maxSpend.Round(2),
		MinDailySpending: minSpend.Round(2),
	}
	if len(cells) > 0 {
		summary.AverageDailySpending = total.Div(decimal.NewFromInt(int64(len(cells)))).Round(2)
	}
	return cells, summary
}

// intensityFor bins a day's spend against the window maximum: none for a
// zero day, then low, medium (>=30%), high (>=60%) and very_high (>=80%).
func intensityFor(amount, maxSpend decimal.Decimal) core.Intensity {
	if amount.IsZero() {
		return core.IntensityNone
	}
	if maxSpend.IsZero() {
		return core.IntensityLow
	}
	pct := amount.Div(maxSpend).Mul(hundred)
	switch {
	case pct.GreaterThanOrEqual(intensityVeryHigh):
		return core.IntensityVeryHigh
	case pct.GreaterThanOrEqual(intensityHigh):
		return core.IntensityHigh
	case pct.GreaterThanOrEqual(intensityMedium):
		return core.IntensityMedium
	default:
		return core.IntensityLow
	}
}
