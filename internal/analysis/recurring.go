package analysis

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"finsight/internal/core"
)

const forecastLayout = "2006-01-02"

// RecurringExpenses detects the recurring charge of each category by
// composing the clusterer, the frequency classifier and the monthly cost
// normalizer. Categories pass two gates: the raw transaction count and the
// winning cluster size must both reach MinOccurrences. Results are sorted
// by estimated monthly cost descending.
func (e *Engine) RecurringExpenses(items []CategoryTransactions) ([]core.RecurringExpense, core.RecurringSummary) {
	type scored struct {
		item    core.RecurringExpense
		sortKey decimal.Decimal
	}

	var found []scored
	totalMonthly := decimal.Zero
	subscriptions := 0

	for _, it := range items {
		if len(it.Transactions) < e.cfg.MinOccurrences {
			continue
		}

		clusters := ClusterByAmount(it.Transactions, e.cfg.AmountTolerance)
		largest, ok := LargestCluster(clusters)
		if !ok || len(largest.Members) < e.cfg.MinOccurrences {
			continue
		}

		total := decimal.Zero
		dates := make([]time.Time, 0, len(largest.Members))
		for _, tx := range largest.Members {
			total = total.Add(tx.Amount)
			dates = append(dates, tx.OccurredAt)
		}
		average := total.Div(decimal.NewFromInt(int64(len(largest.Members))))

		cls := ClassifyInterval(dates)

		// The summary accumulates the exact monthly cost; the sort key is
		// recomputed from the rounded average shown on the item.
		totalMonthly = totalMonthly.Add(MonthlyCost(average, cls.Frequency))
		if cls.Subscription {
			subscriptions++
		}

		var next *string
		if cls.NextExpected != nil {
			s := cls.NextExpected.Format(forecastLayout)
			next = &s
		}

		item := core.RecurringExpense{
			CategoryID:       it.Category.ID,
			CategoryName:     it.Category.Name,
			CategoryColor:    it.Category.Color,
			AverageAmount:    average.Round(2),
			Frequency:        cls.Frequency,
			Occurrences:      len(largest.Members),
			TotalAmount:      total.Round(2),
			NextExpectedDate: next,
			IsSubscription:   cls.Subscription,
		}
		found = append(found, scored{
			item:    item,
			sortKey: MonthlyCost(item.AverageAmount, cls.Frequency),
		})
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].sortKey.GreaterThan(found[j].sortKey)
	})

	out := make([]core.RecurringExpense, 0, len(found))
	for _, s := range found {
		out = append(out, s.item)
	}

	return out, core.RecurringSummary{
		TotalRecurring:     len(out),
		TotalMonthlyCost:   totalMonthly.Round(2),
		SubscriptionsCount: subscriptions,
	}
}
