package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"budgettracker/internal/core"
	applog "budgettracker/internal/log"

	"github.com/shopspring/decimal"
)

// Storage keys shared with data written by earlier versions of the tracker.
const (
	BudgetKey   = "se_tracker_budget"
	ExpensesKey = "se_tracker_expenses"
)

// Records is what Load found in the store. Absent records come back as
// their zero value with the matching Found flag unset.
type Records struct {
	Budget        decimal.Decimal
	Expenses      []core.Expense
	BudgetFound   bool
	ExpensesFound bool
}

// FirstRun reports whether neither record has ever been written.
func (r Records) FirstRun() bool {
	return !r.BudgetFound && !r.ExpensesFound
}

type expenseRecord struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Category string      `json:"category"`
	Amount   json.Number `json:"amount"`
	Date     core.Date   `json:"date"`
}

// Repository persists the budget and the expense collection as two records
// of a KV backend.
type Repository struct {
	kv KV
}

func NewRepository(kv KV) *Repository {
	return &Repository{kv: kv}
}

// Load reads both records. A record that is present but malformed yields an
// error wrapping core.ErrCorruptState.
func (r *Repository) Load(ctx context.Context) (Records, error) {
	var recs Records

	rawBudget, found, err := r.kv.Get(ctx, BudgetKey)
	if err != nil {
		return Records{}, fmt.Errorf("read budget: %w", err)
	}
	if found {
		recs.BudgetFound = true
		recs.Budget, err = decodeBudget(rawBudget)
		if err != nil {
			return recs, err
		}
	} else {
		recs.Budget = decimal.Zero
	}

	rawExpenses, found, err := r.kv.Get(ctx, ExpensesKey)
	if err != nil {
		return Records{}, fmt.Errorf("read expenses: %w", err)
	}
	if found {
		recs.ExpensesFound = true
		recs.Expenses, err = decodeExpenses(rawExpenses)
		if err != nil {
			return recs, err
		}
	}

	applog.FromContext(ctx).WithComponent(applog.ComponentStorage).DebugContext(ctx, "Loaded tracker state",
		"budget_found", recs.BudgetFound,
		"expenses_found", recs.ExpensesFound,
		applog.FieldExpenseCount, len(recs.Expenses))

	return recs, nil
}

// Save writes the budget record, then the expense record. Backends that
// implement BatchSetter receive both in one call.
func (r *Repository) Save(ctx context.Context, budget decimal.Decimal, expenses []core.Expense) error {
	rawExpenses, err := encodeExpenses(expenses)
	if err != nil {
		return fmt.Errorf("encode expenses: %w", err)
	}
	rawBudget := budget.String()

	if batch, ok := r.kv.(BatchSetter); ok {
		if err := batch.SetAll(ctx,
			Entry{Key: BudgetKey, Value: rawBudget},
			Entry{Key: ExpensesKey, Value: rawExpenses},
		); err != nil {
			return fmt.Errorf("write records: %w", err)
		}
		return nil
	}

	if err := r.kv.Set(ctx, BudgetKey, rawBudget); err != nil {
		return fmt.Errorf("write budget: %w", err)
	}
	if err := r.kv.Set(ctx, ExpensesKey, rawExpenses); err != nil {
		return fmt.Errorf("write expenses: %w", err)
	}
	return nil
}

// Close releases the underlying backend.
func (r *Repository) Close() error {
	if r.kv == nil {
		return nil
	}
	return r.kv.Close()
}

func decodeBudget(raw string) (decimal.Decimal, error) {
	b, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: budget %q is not a number", core.ErrCorruptState, raw)
	}
	if err := core.ValidateBudget(b); err != nil {
		return decimal.Zero, fmt.Errorf("%w: budget %q: %v", core.ErrCorruptState, raw, err)
	}
	return b, nil
}

func decodeExpenses(raw string) ([]core.Expense, error) {
	var records []expenseRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("%w: decode expenses: %v", core.ErrCorruptState, err)
	}

	expenses := make([]core.Expense, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, rec := range records {
		e, err := rec.toExpense()
		if err != nil {
			return nil, fmt.Errorf("%w: expense %d: %v", core.ErrCorruptState, i, err)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate expense id %q", core.ErrCorruptState, e.ID)
		}
		seen[e.ID] = struct{}{}
		expenses = append(expenses, e)
	}
	return expenses, nil
}

func (rec expenseRecord) toExpense() (core.Expense, error) {
	amount, err := decimal.NewFromString(rec.Amount.String())
	if err != nil {
		return core.Expense{}, fmt.Errorf("amount %q: %w", rec.Amount, err)
	}
	e := core.Expense{
		ID:       rec.ID,
		Name:     rec.Name,
		Category: core.Category(rec.Category),
		Amount:   amount,
		Date:     rec.Date,
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

func encodeExpenses(expenses []core.Expense) (string, error) {
	records := make([]expenseRecord, 0, len(expenses))
	for _, e := range expenses {
		records = append(records, expenseRecord{
			ID:       e.ID,
			Name:     e.Name,
			Category: e.Category.String(),
			Amount:   json.Number(e.Amount.String()),
			Date:     e.Date,
		})
	}
	b, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
