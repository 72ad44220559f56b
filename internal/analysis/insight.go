package analysis

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"finsight/internal/core"
)

// PeriodChange is the classified outcome of comparing two adjacent months
// for one category.
type PeriodChange struct {
	Kind      core.InsightKind
	ChangePct decimal.Decimal
	ChangeAmt decimal.Decimal
}

// ComparePeriods classifies the change between two adjacent months and
// reports whether it should surface. The four cases are mutually
// exclusive: both months zero never surfaces; spending that starts or
// stops surfaces unconditionally with a zero change percentage; increases
// and decreases surface only when the absolute change percentage reaches
// the significance threshold (inclusive). Equal non-zero months fall
// through every case. A zero previous month takes the defined sentinel
// (100 for increases, 0 for decreases) instead of dividing.
func ComparePeriods(current, previous, thresholdPct decimal.Decimal) (PeriodChange, bool) {
	change := PeriodChange{ChangeAmt: current.Sub(previous)}

	switch {
	case current.IsZero() && previous.IsZero():
		return PeriodChange{}, false

	case current.IsPositive() && previous.IsZero():
		change.Kind = core.InsightNewSpending
		return change, true

	case current.IsZero() && previous.IsPositive():
		change.Kind = core.InsightNoSpending
		return change, true

	case current.GreaterThan(previous):
		change.Kind = core.InsightIncrease
		if previous.IsPositive() {
			change.ChangePct = current.Sub(previous).Div(previous).Mul(hundred)
		} else {
			change.ChangePct = hundred
		}
		return change, change.ChangePct.GreaterThanOrEqual(thresholdPct)

	case current.LessThan(previous):
		change.Kind = core.InsightDecrease
		if previous.IsPositive() {
			change.ChangePct = current.Sub(previous).Div(previous).Mul(hundred)
		}
		return change, change.ChangePct.Abs().GreaterThanOrEqual(thresholdPct)
	}

	// current == previous, both positive: no change to report.
	return PeriodChange{}, false
}

// SpendingInsights compares every category across two adjacent months and
// shapes the significant changes into report records sorted by absolute
// change amount descending. The summary counts increases and decreases
// that crossed the threshold; new and stopped spending contribute to the
// total only.
func (e *Engine) SpendingInsights(pairs []CategoryPair) ([]core.Insight, core.InsightSummary) {
	out := []core.Insight{}
	increases, decreases := 0, 0

	for _, p := range pairs {
		change, ok := ComparePeriods(p.Current, p.Previous, e.cfg.SignificanceThresholdPct)
		if !ok {
			continue
		}

		var message string
		switch change.Kind {
		case core.InsightNewSpending:
			message = fmt.Sprintf("You started spending on %s this month (%s)",
				p.Category.Name, core.FormatAmount(p.Current))
		case core.InsightNoSpending:
			message = fmt.Sprintf("You stopped spending on %s this month (saved %s)",
				p.Category.Name, core.FormatAmount(p.Previous))
		case core.InsightIncrease:
			increases++
			message = fmt.Sprintf("You spent %s%% more on %s this month (%s more)",
				core.FormatPercent(change.ChangePct), p.Category.Name, core.FormatAmount(change.ChangeAmt))
		case core.InsightDecrease:
			decreases++
			message = fmt.Sprintf("You spent %s%% less on %s this month (%s less)",
				core.FormatPercent(change.ChangePct.Abs()), p.Category.Name, core.FormatAmount(change.ChangeAmt.Abs()))
		}

		out = append(out, core.Insight{
			CategoryID:       p.Category.ID,
			CategoryName:     p.Category.Name,
			CategoryColor:    p.Category.Color,
			InsightType:      change.Kind,
			Message:          message,
			CurrentAmount:    p.Current.Round(2),
			PreviousAmount:   p.Previous.Round(2),
			ChangePercentage: change.ChangePct.Round(2),
			ChangeAmount:     change.ChangeAmt.Round(2),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ChangeAmount.Abs().GreaterThan(out[j].ChangeAmount.Abs())
	})

	return out, core.InsightSummary{
		TotalInsights:        len(out),
		SignificantIncreases: increases,
		SignificantDecreases: decreases,
	}
}
