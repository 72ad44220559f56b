// Package analysis implements the recurring-pattern and anomaly detection
// engine: amount clustering, frequency classification, monthly cost
// normalization, baseline spike detection, period comparison insights,
// category trends and the daily spending heatmap.
//
// The engine is a pure function of its inputs. It reads no environment,
// keeps no state between calls and never touches a clock; callers pick the
// anchor month and supply transactions and aggregates for explicit
// half-open windows. Running it twice on the same inputs yields identical
// reports.
package analysis

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"finsight/internal/core"
)

const (
	minLookbackMonths = 1
	maxLookbackMonths = 12
)

var hundred = decimal.NewFromInt(100)

// Config carries every analysis knob. Out-of-range values are rejected by
// Validate, never clamped.
type Config struct {
	// AmountTolerance is the relative gap allowed between a transaction
	// amount and a cluster representative, strictly between 0 and 1.
	AmountTolerance decimal.Decimal

	// MinOccurrences is how many matching transactions a category needs
	// before its largest cluster counts as recurring.
	MinOccurrences int

	// RecurringLookbackMonths is the recurring window span in months,
	// anchor month included.
	RecurringLookbackMonths int

	// BaselineLookbackMonths is how many full months before the anchor
	// month feed the spike baseline.
	BaselineLookbackMonths int

	// TrendMonths is the trend series length in months, anchor month
	// included.
	TrendMonths int

	// SpikeThresholdPct is the inclusive spike gate, in percent.
	SpikeThresholdPct decimal.Decimal

	// SignificanceThresholdPct is the inclusive insight gate, in percent.
	SignificanceThresholdPct decimal.Decimal
}

// DefaultConfig returns the stock knobs: 10% tolerance, 3 occurrences,
// 6 recurring months, 3 baseline months, 6 trend months, 50% spike gate,
// 20% significance gate.
func DefaultConfig() Config {
	return Config{
		AmountTolerance:          decimal.NewFromFloat(0.10),
		MinOccurrences:           3,
		RecurringLookbackMonths:  6,
		BaselineLookbackMonths:   3,
		TrendMonths:              6,
		SpikeThresholdPct:        decimal.NewFromInt(50),
		SignificanceThresholdPct: decimal.NewFromInt(20),
	}
}

// Validate checks every knob and reports all problems together wrapped in
// core.ErrInvalidConfig.
func (c Config) Validate() error {
	var problems []string

	if !c.AmountTolerance.GreaterThan(decimal.Zero) || !c.AmountTolerance.LessThan(decimal.NewFromInt(1)) {
		problems = append(problems, fmt.Sprintf("amount tolerance must be strictly between 0 and 1, got %s", c.AmountTolerance))
	}
	if c.MinOccurrences < 1 {
		problems = append(problems, fmt.Sprintf("minimum occurrences must be at least 1, got %d", c.MinOccurrences))
	}
	if c.RecurringLookbackMonths < minLookbackMonths || c.RecurringLookbackMonths > maxLookbackMonths {
		problems = append(problems, fmt.Sprintf("recurring lookback must be between %d and %d months, got %d", minLookbackMonths, maxLookbackMonths, c.RecurringLookbackMonths))
	}
	if c.BaselineLookbackMonths < minLookbackMonths || c.BaselineLookbackMonths > maxLookbackMonths {
		problems = append(problems, fmt.Sprintf("baseline lookback must be between %d and %d months, got %d", minLookbackMonths, maxLookbackMonths, c.BaselineLookbackMonths))
	}
	if c.TrendMonths < minLookbackMonths || c.TrendMonths > maxLookbackMonths {
		problems = append(problems, fmt.Sprintf("trend months must be between %d and %d, got %d", minLookbackMonths, maxLookbackMonths, c.TrendMonths))
	}
	if !c.SpikeThresholdPct.GreaterThan(decimal.Zero) {
		problems = append(problems, fmt.Sprintf("spike threshold must be positive, got %s", c.SpikeThresholdPct))
	}
	if !c.SignificanceThresholdPct.GreaterThan(decimal.Zero) {
		problems = append(problems, fmt.Sprintf("significance threshold must be positive, got %s", c.SignificanceThresholdPct))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w:\n- %s", core.ErrInvalidConfig, strings.Join(problems, "\n- "))
	}
	return nil
}

// Engine runs the detection passes with one validated Config.
type Engine struct {
	cfg Config
}

// New rejects an invalid Config before any computation happens.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

type (
	// CategoryTransactions pairs one category with its transactions inside
	// the recurring window, ordered by occurrence time ascending.
	CategoryTransactions struct {
		Category     core.Category
		Transactions []core.Transaction
	}

	// CategoryHistory pairs one category's anchor-month total with its
	// totals over the baseline months. Months with no spending contribute
	// zeros; they still count toward the baseline mean.
	CategoryHistory struct {
		Category core.Category
		Current  decimal.Decimal
		History  []decimal.Decimal
	}

	// CategoryPair holds one category's totals for two adjacent months.
	CategoryPair struct {
		Category core.Category
		Current  decimal.Decimal
		Previous decimal.Decimal
	}

	// CategoryMonths holds one category's per-month totals over the trend
	// window, oldest month first.
	CategoryMonths struct {
		Category core.Category
		Months   []MonthTotal
	}

	// MonthTotal is one month of a trend series.
	MonthTotal struct {
		Label  string
		Amount decimal.Decimal
		Count  int
	}
)
