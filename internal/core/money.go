// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing amounts and budgets from user
// input and formatting them for display.
package core

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultCurrencySymbol is prefixed to formatted amounts unless configured otherwise.
const DefaultCurrencySymbol = "₹"

var hundred = decimal.NewFromInt(100)

const (
	// maxInputLen bounds the raw text handed to the decimal parser.
	maxInputLen = 64
	// maxExponent bounds the decimal exponent either way; decimal.String
	// spells out every digit, so a huge exponent is a huge string.
	maxExponent = 18
)

// MaxAmount is the exclusive upper bound for amounts and budgets.
var MaxAmount = decimal.New(1, 15)

// parseDecimal accepts plain or exponent notation ("12", "12.34", "1e3").
// Anything decimal cannot represent exactly, including NaN and Inf, and
// anything outside InRange is rejected.
func parseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxInputLen {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !InRange(d) {
		return decimal.Zero, false
	}
	return d, true
}

// InRange reports whether d is a finite value that amounts and budgets may
// hold: |d| below MaxAmount with at most maxExponent fractional digits.
// The exponent is checked first so oversized values are never expanded.
func InRange(d decimal.Decimal) bool {
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return false
	}
	if d.Abs().GreaterThanOrEqual(MaxAmount) {
		return false
	}
	f, _ := d.Float64()
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// ParseAmount parses an expense amount, which must be strictly positive.
//
// Examples:
//
//	ParseAmount("20")    -> 20, nil
//	ParseAmount("12.50") -> 12.5, nil
//	ParseAmount("0")     -> error
//	ParseAmount("abc")   -> error
func ParseAmount(s string) (decimal.Decimal, error) {
	d, ok := parseDecimal(s)
	if !ok || !d.IsPositive() {
		return decimal.Zero, invalid("amount", ErrInvalidAmount)
	}
	return d, nil
}

// ParseBudget parses a budget value, which may be zero but not negative.
func ParseBudget(s string) (decimal.Decimal, error) {
	d, ok := parseDecimal(s)
	if !ok || d.IsNegative() {
		return decimal.Zero, invalid("budget", ErrInvalidBudget)
	}
	return d, nil
}

// ValidateBudget rejects negative and out-of-range budgets.
func ValidateBudget(b decimal.Decimal) error {
	if b.IsNegative() || !InRange(b) {
		return invalid("budget", ErrInvalidBudget)
	}
	return nil
}

// Percent returns part/whole×100, or zero when whole is zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole)
}

// FormatCurrency renders amount with two decimals and English digit
// grouping, prefixed by symbol: FormatCurrency(1400, "₹") -> "₹1,400.00".
// The digits come from the decimal itself, never from a float64.
func FormatCurrency(amount decimal.Decimal, symbol string) string {
	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	whole, cents, _ := strings.Cut(rounded.Abs().StringFixed(2), ".")

	grouped := whole
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		grouped = message.NewPrinter(language.English).Sprint(number.Decimal(n))
	}
	return sign + symbol + grouped + "." + cents
}
