package analysis

import (
	"testing"

	"github.com/shopspring/decimal"

	"finsight/internal/core"
)

func TestComparePeriods(t *testing.T) {
	threshold := dec("20")

	tests := []struct {
		name      string
		current   string
		previous  string
		fires     bool
		kind      core.InsightKind
		changePct string
		changeAmt string
	}{
		{
			name:    "both zero yields nothing",
			current: "0", previous: "0", fires: false,
		},
		{
			name:    "new spending fires unconditionally",
			current: "50", previous: "0", fires: true,
			kind: core.InsightNewSpending, changePct: "0", changeAmt: "50",
		},
		{
			name:    "stopped spending fires unconditionally",
			current: "0", previous: "50", fires: true,
			kind: core.InsightNoSpending, changePct: "0", changeAmt: "-50",
		},
		{
			name:    "increase at the threshold fires inclusively",
			current: "120", previous: "100", fires: true,
			kind: core.InsightIncrease, changePct: "20", changeAmt: "20",
		},
		{
			name:    "increase below the threshold stays quiet",
			current: "119", previous: "100", fires: false,
		},
		{
			name:    "decrease at the threshold fires inclusively",
			current: "80", previous: "100", fires: true,
			kind: core.InsightDecrease, changePct: "-20", changeAmt: "-20",
		},
		{
			name:    "decrease below the threshold stays quiet",
			current: "85", previous: "100", fires: false,
		},
		{
			name:    "equal non-zero months yield nothing",
			current: "100", previous: "100", fires: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			change, ok := ComparePeriods(dec(tt.current), dec(tt.previous), threshold)
			if ok != tt.fires {
				t.Fatalf("fires = %v, want %v", ok, tt.fires)
			}
			if !tt.fires {
				return
			}
			if change.Kind != tt.kind {
				t.Errorf("kind = %q, want %q", change.Kind, tt.kind)
			}
			if !change.ChangePct.Equal(dec(tt.changePct)) {
				t.Errorf("change pct = %s, want %s", change.ChangePct, tt.changePct)
			}
			if !change.ChangeAmt.Equal(dec(tt.changeAmt)) {
				t.Errorf("change amount = %s, want %s", change.ChangeAmt, tt.changeAmt)
			}
		})
	}
}

func TestComparePeriodsSymmetry(t *testing.T) {
	// Equal months never fire, whatever the threshold.
	for _, v := range []string{"0", "1", "99.99", "1234.56"} {
		if _, ok := ComparePeriods(dec(v), dec(v), dec("0.01")); ok {
			t.Fatalf("equal amounts %s fired an insight", v)
		}
	}
}

func TestSpendingInsights(t *testing.T) {
	e := mustEngine(t, DefaultConfig())

	pairs := []CategoryPair{
		{Category: cat(1, "Groceries"), Current: dec("120"), Previous: dec("100")},
		{Category: cat(2, "Utilities"), Current: dec("75"), Previous: dec("100")},
		{Category: cat(3, "Travel"), Current: dec("300"), Previous: dec("0")},
		{Category: cat(4, "Games"), Current: dec("0"), Previous: dec("50")},
		{Category: cat(5, "Rent"), Current: dec("900"), Previous: dec("900")},
		{Category: cat(6, "Coffee"), Current: dec("41"), Previous: dec("40")}, // 2.5%, below gate
	}

	out, summary := e.SpendingInsights(pairs)
	if len(out) != 4 {
		t.Fatalf("expected 4 insights, got %d", len(out))
	}

	// Sorted by absolute change amount descending.
	wantOrder := []string{"Travel", "Games", "Utilities", "Groceries"}
	for i, want := range wantOrder {
		if out[i].CategoryName != want {
			t.Fatalf("position %d = %s, want %s", i, out[i].CategoryName, want)
		}
	}

	wantMessages := map[string]string{
		"Travel":    "You started spending on Travel this month (300.00)",
		"Games":     "You stopped spending on Games this month (saved 50.00)",
		"Utilities": "You spent 25% less on Utilities this month (25.00 less)",
		"Groceries": "You spent 20% more on Groceries this month (20.00 more)",
	}
	for _, ins := range out {
		if want := wantMessages[ins.CategoryName]; ins.Message != want {
			t.Errorf("%s message = %q, want %q", ins.CategoryName, ins.Message, want)
		}
	}

	if summary.TotalInsights != 4 {
		t.Errorf("total insights = %d, want 4", summary.TotalInsights)
	}
	if summary.SignificantIncreases != 1 {
		t.Errorf("significant increases = %d, want 1", summary.SignificantIncreases)
	}
	if summary.SignificantDecreases != 1 {
		t.Errorf("significant decreases = %d, want 1", summary.SignificantDecreases)
	}
}

func TestSpendingInsightsStoppedSpendingChangeAmount(t *testing.T) {
	e := mustEngine(t, DefaultConfig())

	out, _ := e.SpendingInsights([]CategoryPair{
		{Category: cat(1, "Games"), Current: decimal.Zero, Previous: dec("50")},
	})
	if len(out) != 1 {
		t.Fatalf("expected 1 insight, got %d", len(out))
	}
	if !out[0].ChangeAmount.Equal(dec("-50")) {
		t.Errorf("change amount = %s, want -50", out[0].ChangeAmount)
	}
	if !out[0].ChangePercentage.IsZero() {
		t.Errorf("change percentage = %s, want 0", out[0].ChangePercentage)
	}
}
