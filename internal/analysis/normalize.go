package analysis

import (
	"github.com/shopspring/decimal"

	"finsight/internal/core"
)

// MonthlyCoster is the strategy interface for converting a per-occurrence
// average into a comparable monthly figure. Each frequency label has its
// own coster.
type MonthlyCoster interface {
	// MonthlyCost returns the estimated spend per month for a charge that
	// recurs with this frequency at the given average amount.
	MonthlyCost(average decimal.Decimal) decimal.Decimal
}

// multiplyCoster scales the average by a fixed factor.
type multiplyCoster struct {
	factor decimal.Decimal
}

func (c multiplyCoster) MonthlyCost(average decimal.Decimal) decimal.Decimal {
	return average.Mul(c.factor)
}

// divideCoster spreads the average across a fixed number of months.
type divideCoster struct {
	months decimal.Decimal
}

func (c divideCoster) MonthlyCost(average decimal.Decimal) decimal.Decimal {
	return average.Div(c.months)
}

// monthlyCosters maps frequency labels to their costers. Irregular and
// unknown charges cost as if they recurred monthly. That overstates true
// one-off purchases that slipped past the occurrence gate; it is a known
// conservative approximation kept for report compatibility.
var monthlyCosters = map[core.Frequency]MonthlyCoster{
	core.FrequencyMonthly:   multiplyCoster{factor: decimal.NewFromInt(1)},
	core.FrequencyBiWeekly:  multiplyCoster{factor: decimal.NewFromFloat(2.17)}, // ~2.17 bi-weekly periods per month
	core.FrequencyWeekly:    multiplyCoster{factor: decimal.NewFromFloat(4.33)}, // ~4.33 weeks per month
	core.FrequencyQuarterly: divideCoster{months: decimal.NewFromInt(3)},
	core.FrequencyIrregular: multiplyCoster{factor: decimal.NewFromInt(1)},
	core.FrequencyUnknown:   multiplyCoster{factor: decimal.NewFromInt(1)},
}

// MonthlyCost normalizes an average amount to a monthly figure for the
// given frequency. Unregistered labels fall back to the amount itself.
func MonthlyCost(average decimal.Decimal, freq core.Frequency) decimal.Decimal {
	coster, ok := monthlyCosters[freq]
	if !ok {
		return average
	}
	return coster.MonthlyCost(average)
}

// RegisterMonthlyCoster installs a coster for a frequency label, replacing
// any existing one.
func RegisterMonthlyCoster(freq core.Frequency, coster MonthlyCoster) {
	monthlyCosters[freq] = coster
}
