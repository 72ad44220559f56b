package analysis

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"finsight/internal/core"
)

// SpikeAlert is the outcome of comparing one category's current spend
// against its historical baseline.
type SpikeAlert struct {
	Current  decimal.Decimal
	Baseline decimal.Decimal
	SpikePct decimal.Decimal
	Savings  decimal.Decimal
}

// DetectSpike compares current spend against the mean of the historical
// totals and reports whether the spike gate fired. Zero current spend
// cannot spike; an empty or all-zero history gives no baseline to compare
// against, so both return false rather than dividing by zero. The gate is
// inclusive: a spike exactly at the threshold fires.
func DetectSpike(current decimal.Decimal, history []decimal.Decimal, thresholdPct decimal.Decimal) (SpikeAlert, bool) {
	if current.IsZero() {
		return SpikeAlert{}, false
	}
	if len(history) == 0 {
		return SpikeAlert{}, false
	}
	allZero := true
	sum := decimal.Zero
	for _, h := range history {
		sum = sum.Add(h)
		if !h.IsZero() {
			allZero = false
		}
	}
	if allZero {
		return SpikeAlert{}, false
	}

	baseline := sum.Div(decimal.NewFromInt(int64(len(history))))
	spikePct := current.Sub(baseline).Div(baseline).Mul(hundred)
	if spikePct.LessThan(thresholdPct) {
		return SpikeAlert{}, false
	}

	return SpikeAlert{
		Current:  current,
		Baseline: baseline,
		SpikePct: spikePct,
		Savings:  current.Sub(baseline),
	}, true
}

// SavingsOpportunities runs spike detection across categories and shapes
// the alerts into report records sorted by potential savings descending.
// The summary total accumulates exact savings before rounding.
func (e *Engine) SavingsOpportunities(items []CategoryHistory) ([]core.SavingsOpportunity, core.SavingsSummary) {
	out := []core.SavingsOpportunity{}
	totalSavings := decimal.Zero

	for _, it := range items {
		alert, ok := DetectSpike(it.Current, it.History, e.cfg.SpikeThresholdPct)
		if !ok {
			continue
		}
		totalSavings = totalSavings.Add(alert.Savings)
		out = append(out, core.SavingsOpportunity{
			CategoryID:       it.Category.ID,
			CategoryName:     it.Category.Name,
			CategoryColor:    it.Category.Color,
			CurrentAmount:    alert.Current.Round(2),
			AverageAmount:    alert.Baseline.Round(2),
			SpikePercentage:  alert.SpikePct.Round(2),
			PotentialSavings: alert.Savings.Round(2),
			Message: fmt.Sprintf("%s spending is %s%% above average. Potential savings: %s",
				it.Category.Name, core.FormatPercent(alert.SpikePct), core.FormatAmount(alert.Savings)),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PotentialSavings.GreaterThan(out[j].PotentialSavings)
	})

	return out, core.SavingsSummary{
		TotalOpportunities:    len(out),
		TotalPotentialSavings: totalSavings.Round(2),
	}
}
