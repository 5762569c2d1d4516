package core

import "github.com/shopspring/decimal"

// CategoryTotal represents an amount aggregated by category.
type CategoryTotal struct {
	Category Category
	Amount   decimal.Decimal
}

// Severity classifies how much of the budget has been used.
type Severity int

const (
	SeverityNormal Severity = iota
	SeverityWarning
	SeverityDanger
)

// Severity thresholds on the fill percentage.
var (
	WarningThreshold = decimal.NewFromInt(80)
	DangerThreshold  = decimal.NewFromInt(100)
)

// SeverityFor classifies a fill percentage: danger at 100 and above,
// warning from 80, normal below.
func SeverityFor(fill decimal.Decimal) Severity {
	switch {
	case fill.GreaterThanOrEqual(DangerThreshold):
		return SeverityDanger
	case fill.GreaterThanOrEqual(WarningThreshold):
		return SeverityWarning
	default:
		return SeverityNormal
	}
}

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityDanger:
		return "danger"
	default:
		return "normal"
	}
}
