// Package views derives read-only figures from a state snapshot: the budget
// summary, per-category aggregation, the filtered list and spending
// insights. Everything here is a pure function of its inputs and is
// recomputed on every read.
package views

import (
	"budgettracker/internal/core"
	"budgettracker/internal/state"

	"github.com/shopspring/decimal"
)

// Summary is the budget overview shown above the expense list.
type Summary struct {
	Budget      decimal.Decimal
	TotalSpent  decimal.Decimal
	Remaining   decimal.Decimal
	PercentUsed decimal.Decimal // whole percent, may exceed 100
	FillPercent decimal.Decimal // unrounded, capped at 100
	Severity    core.Severity
}

// Summarize computes the budget overview. A zero budget yields zero percent
// and a normal severity whatever has been spent.
func Summarize(snap state.Snapshot) Summary {
	total := Total(snap.Expenses)
	s := Summary{
		Budget:      snap.Budget,
		TotalSpent:  total,
		Remaining:   decimal.Max(decimal.Zero, snap.Budget.Sub(total)),
		PercentUsed: decimal.Zero,
		FillPercent: decimal.Zero,
	}
	if !snap.Budget.IsPositive() {
		return s
	}
	pct := core.Percent(total, snap.Budget)
	s.PercentUsed = pct.Round(0)
	s.FillPercent = decimal.Min(pct, core.DangerThreshold)
	s.Severity = core.SeverityFor(s.FillPercent)
	return s
}

// Total sums the amounts of expenses.
func Total(expenses []core.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}
