package analysis

import (
	"sort"

	"github.com/shopspring/decimal"

	"finsight/internal/core"
)

// CategoryTrends shapes per-month category totals into trend series.
// Categories with no spending in any month are omitted. The change
// percentage compares the first month to the last; a zero first month
// takes the defined sentinel (100 when the last month has spending,
// otherwise 0). Results are sorted by total spend over the window
// descending.
func (e *Engine) CategoryTrends(series []CategoryMonths) ([]core.CategoryTrend, core.TrendsSummary) {
	type scored struct {
		trend core.CategoryTrend
		total decimal.Decimal
	}

	var found []scored
	for _, s := range series {
		total := decimal.Zero
		anySpending := false
		points := make([]core.TrendPoint, 0, len(s.Months))
		for _, m := range s.Months {
			total = total.Add(m.Amount)
			if m.Amount.IsPositive() {
				anySpending = true
			}
			points = append(points, core.TrendPoint{
				Month:            m.Label,
				Amount:           m.Amount,
				TransactionCount: m.Count,
			})
		}
		if !anySpending {
			continue
		}

		found = append(found, scored{
			trend: core.CategoryTrend{
				CategoryID:       s.Category.ID,
				CategoryName:     s.Category.Name,
				CategoryColor:    s.Category.Color,
				Points:           points,
				ChangePercentage: trendChangePct(s.Months).Round(2),
			},
			total: total,
		})
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].total.GreaterThan(found[j].total)
	})

	out := make([]core.CategoryTrend, 0, len(found))
	for _, s := range found {
		out = append(out, s.trend)
	}

	return out, core.TrendsSummary{
		TotalMonths:       e.cfg.TrendMonths,
		CategoriesTracked: len(out),
	}
}

func trendChangePct(months []MonthTotal) decimal.Decimal {
	if len(months) < 2 {
		return decimal.Zero
	}
	first := months[0].Amount
	last := months[len(months)-1].Amount
	if first.IsPositive() {
		return last.Sub(first).Div(first).Mul(hundred)
	}
	if last.IsPositive() {
		return hundred
	}
	return decimal.Zero
}
