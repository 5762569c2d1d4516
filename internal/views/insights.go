package views

import (
	"fmt"
	"math"
	"time"

	"budgettracker/internal/core"
	"budgettracker/internal/state"

	"github.com/shopspring/decimal"
)

// RecentWindowDays is the look-back of Insight.RecentTotal.
const RecentWindowDays = 7

// Insight holds the spending signals behind the advice line.
type Insight struct {
	Available     bool
	TopCategory   core.Category
	TopAmount     decimal.Decimal
	TopShare      decimal.Decimal // whole percent of TotalSpent
	RecentTotal   decimal.Decimal
	CategoryCount int
	TotalSpent    decimal.Decimal
}

// Insights computes the signals at now. An expense counts towards the
// recent total when its date is at most RecentWindowDays whole days before
// now; dates in the future always count.
func Insights(snap state.Snapshot, now time.Time) Insight {
	if len(snap.Expenses) == 0 {
		return Insight{
			TopAmount:   decimal.Zero,
			TopShare:    decimal.Zero,
			RecentTotal: decimal.Zero,
			TotalSpent:  decimal.Zero,
		}
	}

	totals := ByCategory(snap.Expenses)
	top := rankCategories(totals)[0]
	total := Total(snap.Expenses)

	recent := decimal.Zero
	for _, e := range snap.Expenses {
		if daysSince(e.Date, now) <= RecentWindowDays {
			recent = recent.Add(e.Amount)
		}
	}

	return Insight{
		Available:     true,
		TopCategory:   top.Category,
		TopAmount:     top.Amount,
		TopShare:      core.Percent(top.Amount, total).Round(0),
		RecentTotal:   recent,
		CategoryCount: len(totals),
		TotalSpent:    total,
	}
}

// daysSince counts whole days from local midnight of d to now, rounding
// towards negative infinity.
func daysSince(d core.Date, now time.Time) int {
	y, m, day := d.Date()
	start := time.Date(y, m, day, 0, 0, 0, 0, now.Location())
	return int(math.Floor(now.Sub(start).Hours() / 24))
}

var (
	topShareAdvice     = decimal.NewFromInt(50)
	recentBudgetRatio  = decimal.RequireFromString("0.3")
	concentratedRatio  = decimal.RequireFromString("0.6")
	concentratedMaxCat = 2
)

// Advice turns the signals into a one-line tip. The wording is informative
// only.
func (in Insight) Advice(budget decimal.Decimal, symbol string) string {
	if !in.Available {
		return "No spending yet. Add an expense to see insights."
	}
	switch {
	case in.TopShare.GreaterThanOrEqual(topShareAdvice):
		return fmt.Sprintf("You're spending %s%% of your total on %s. Consider setting a small weekly cap for that category.",
			in.TopShare, in.TopCategory)
	case in.RecentTotal.GreaterThan(budget.Mul(recentBudgetRatio)):
		return fmt.Sprintf("You've spent %s in the last %d days. Keep an eye on it, that's more than 30%% of your monthly budget.",
			core.FormatCurrency(in.RecentTotal, symbol), RecentWindowDays)
	case in.CategoryCount <= concentratedMaxCat && in.TotalSpent.GreaterThan(budget.Mul(concentratedRatio)):
		return "Most of your spending is concentrated in only a couple of categories. Diversify spending or cut down where possible."
	default:
		return fmt.Sprintf("Spending looks balanced. Top category is %s (%s%%).", in.TopCategory, in.TopShare)
	}
}
