package state

import (
	"budgettracker/internal/core"

	"github.com/shopspring/decimal"
)

// SeedBudget is the budget written on first run.
var SeedBudget = decimal.NewFromInt(30000)

type seedExpense struct {
	name     string
	category core.Category
	amount   int64
	daysAgo  int
}

var demoExpenses = []seedExpense{
	{"Breakfast", core.Food, 120, 3},
	{"Metro", core.Transport, 40, 2},
	{"Groceries", core.Shopping, 800, 7},
	{"Electricity Bill", core.Bills, 1400, 10},
	{"Movie", core.Entertainment, 350, 1},
}

// seedData builds the demonstration collection relative to today.
func seedData(today core.Date, newID func() string) []core.Expense {
	out := make([]core.Expense, 0, len(demoExpenses))
	for _, s := range demoExpenses {
		out = append(out, core.Expense{
			ID:       newID(),
			Name:     s.name,
			Category: s.category,
			Amount:   decimal.NewFromInt(s.amount),
			Date:     today.AddDays(-s.daysAgo),
		})
	}
	return out
}
