package views

import (
	"sort"

	"budgettracker/internal/core"

	"github.com/shopspring/decimal"
)

// CategoryShare is a category total with its share of all spending.
type CategoryShare struct {
	core.CategoryTotal
	Percent decimal.Decimal // whole percent
}

// ByCategory sums expenses per category. Categories appear in the order
// they are first seen in the collection; categories without expenses are
// omitted.
func ByCategory(expenses []core.Expense) []core.CategoryTotal {
	var out []core.CategoryTotal
	index := make(map[core.Category]int)
	for _, e := range expenses {
		i, ok := index[e.Category]
		if !ok {
			i = len(out)
			index[e.Category] = i
			out = append(out, core.CategoryTotal{Category: e.Category, Amount: decimal.Zero})
		}
		out[i].Amount = out[i].Amount.Add(e.Amount)
	}
	return out
}

// Breakdown is ByCategory with each category's share of the total.
func Breakdown(expenses []core.Expense) []CategoryShare {
	totals := ByCategory(expenses)
	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(t.Amount)
	}
	out := make([]CategoryShare, 0, len(totals))
	for _, t := range totals {
		out = append(out, CategoryShare{
			CategoryTotal: t,
			Percent:       core.Percent(t.Amount, sum).Round(0),
		})
	}
	return out
}

// rankCategories orders totals by amount, largest first. Ties keep their
// first-appearance order.
func rankCategories(totals []core.CategoryTotal) []core.CategoryTotal {
	ranked := append([]core.CategoryTotal(nil), totals...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Amount.GreaterThan(ranked[j].Amount)
	})
	return ranked
}
