package views

import (
	"sort"
	"strings"

	"budgettracker/internal/core"
)

// Criteria selects expenses for display. An empty Category matches every
// category; an empty Query matches every expense.
type Criteria struct {
	Query    string
	Category core.Category
}

// Filter returns the matching expenses, newest first. Expenses sharing a
// date keep their collection order. The query is trimmed and matched
// case-insensitively against the name and the category label.
func Filter(expenses []core.Expense, f Criteria) []core.Expense {
	q := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if f.Category != "" && e.Category != f.Category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(e.Name), q) &&
			!strings.Contains(strings.ToLower(e.Category.String()), q) {
			continue
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out
}
