package state

import (
	"context"
	"time"

	"budgettracker/internal/core"

	"github.com/shopspring/decimal"
)

// Snapshot is a read-only copy of the store contents at one point in time.
type Snapshot struct {
	Budget   decimal.Decimal
	Expenses []core.Expense
}

// Len returns the number of expenses.
func (s Snapshot) Len() int {
	return len(s.Expenses)
}

// Operation names a committed mutation.
type Operation string

const (
	OpSetBudget Operation = "set_budget"
	OpAdd       Operation = "add"
	OpEdit      Operation = "edit"
	OpDelete    Operation = "delete"
	OpClearAll  Operation = "clear_all"
)

func (o Operation) String() string {
	return string(o)
}

// Change describes a mutation after it has been persisted.
type Change struct {
	Operation Operation
	ExpenseID string // empty for budget and clear-all changes
	Snapshot  Snapshot
	At        time.Time
}

// Observer is notified after every committed mutation.
type Observer func(ctx context.Context, c Change)

func cloneExpenses(in []core.Expense) []core.Expense {
	if in == nil {
		return []core.Expense{}
	}
	return append(make([]core.Expense, 0, len(in)), in...)
}
