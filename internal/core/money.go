// Package core provides money parsing and formatting utilities.
//
// Monetary amounts are exact decimals end to end. Display rounding to two
// decimal places happens only in the formatting helpers below, never inside
// a computation.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string to an exact amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// rejects negative values and unparseable input.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("-5")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// CentsToAmount converts an integer cents value from storage into an exact
// decimal amount.
func CentsToAmount(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// AmountToCents converts an amount to integer cents for storage, rounding
// half away from zero on the third decimal place.
func AmountToCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

// FormatAmount renders an amount for user-facing messages: two decimal
// places and comma-grouped thousands, e.g. "1,234.56".
func FormatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
		if len(intPart) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(intPart); i += 3 {
		b.WriteString(intPart[i : i+3])
		if i+3 < len(intPart) {
			b.WriteByte(',')
		}
	}
	b.WriteByte('.')
	b.WriteString(fracPart)
	return b.String()
}

// FormatPercent renders a percentage for user-facing messages with no
// decimal places, e.g. "50". Rounding is half away from zero.
func FormatPercent(d decimal.Decimal) string {
	return d.Round(0).String()
}
