package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"budgettracker/internal/core"
	"budgettracker/internal/export"
	applog "budgettracker/internal/log"
	"budgettracker/internal/state"

	"github.com/shopspring/decimal"
)

// Confirmation prompts shown before destructive operations.
const (
	DeletePrompt   = "Delete this expense?"
	ClearAllPrompt = "Clear all expenses and budget? This cannot be undone."
)

// ErrCanceled is returned when the user declines a confirmation.
var ErrCanceled = errors.New("operation canceled")

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AlwaysConfirm approves every prompt (used by --force).
var AlwaysConfirm = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

// ExpenseInput is the raw text of the add/edit form.
type ExpenseInput struct {
	Name     string
	Category string
	Amount   string
	Date     string
}

// Store is the part of state.Store the service drives.
type Store interface {
	Snapshot() state.Snapshot
	Expense(id string) (core.Expense, bool)
	Now() time.Time
	SetBudget(ctx context.Context, budget decimal.Decimal) error
	AddExpense(ctx context.Context, fields core.ExpenseFields) (core.Expense, error)
	UpdateExpense(ctx context.Context, id string, fields core.ExpenseFields) (core.Expense, error)
	RemoveExpense(ctx context.Context, id string) error
	ClearAll(ctx context.Context) error
}

// ExpenseService validates user intent and applies it to the store.
type ExpenseService struct {
	store   Store
	confirm Confirmer
	logger  *applog.Logger
}

func NewExpenseService(store Store, confirm Confirmer, logger *applog.Logger) *ExpenseService {
	if confirm == nil {
		confirm = AlwaysConfirm
	}
	if logger == nil {
		logger = applog.Nop()
	}
	return &ExpenseService{
		store:   store,
		confirm: confirm,
		logger:  logger.WithComponent(applog.ComponentService),
	}
}

// Add validates the form and records a new expense.
func (s *ExpenseService) Add(ctx context.Context, in ExpenseInput) (core.Expense, error) {
	fields, err := core.ParseExpenseFields(in.Name, in.Category, in.Amount, in.Date)
	if err != nil {
		s.rejected(ctx, applog.OpAdd, "", err)
		return core.Expense{}, err
	}
	e, err := s.store.AddExpense(ctx, fields)
	if err != nil {
		return core.Expense{}, fmt.Errorf("add expense: %w", err)
	}
	s.logger.InfoContext(ctx, "Expense added",
		applog.NewFields().
			WithOperation(applog.OpAdd).
			WithExpense(e.ID, e.Name, e.Category.String(), e.Amount, e.Date.String()).
			ToSlice()...)
	return e, nil
}

// Edit replaces every field of an existing expense. An unknown id is
// reported before the form is validated.
func (s *ExpenseService) Edit(ctx context.Context, id string, in ExpenseInput) (core.Expense, error) {
	if _, ok := s.store.Expense(id); !ok {
		s.rejected(ctx, applog.OpEdit, id, core.ErrNotFound)
		return core.Expense{}, fmt.Errorf("%w: %q", core.ErrNotFound, id)
	}
	fields, err := core.ParseExpenseFields(in.Name, in.Category, in.Amount, in.Date)
	if err != nil {
		s.rejected(ctx, applog.OpEdit, id, err)
		return core.Expense{}, err
	}
	e, err := s.store.UpdateExpense(ctx, id, fields)
	if err != nil {
		return core.Expense{}, fmt.Errorf("edit expense: %w", err)
	}
	s.logger.InfoContext(ctx, "Expense updated",
		applog.NewFields().
			WithOperation(applog.OpEdit).
			WithExpense(e.ID, e.Name, e.Category.String(), e.Amount, e.Date.String()).
			ToSlice()...)
	return e, nil
}

// Delete removes an expense after confirmation.
func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	if _, ok := s.store.Expense(id); !ok {
		s.rejected(ctx, applog.OpDelete, id, core.ErrNotFound)
		return fmt.Errorf("%w: %q", core.ErrNotFound, id)
	}
	if err := s.ask(ctx, DeletePrompt); err != nil {
		return err
	}
	if err := s.store.RemoveExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	s.logger.InfoContext(ctx, "Expense deleted",
		applog.FieldOperation, applog.OpDelete,
		applog.FieldExpenseID, id)
	return nil
}

// SetBudget parses and stores a new budget.
func (s *ExpenseService) SetBudget(ctx context.Context, raw string) (decimal.Decimal, error) {
	budget, err := core.ParseBudget(raw)
	if err != nil {
		s.rejected(ctx, applog.OpSetBudget, "", err)
		return decimal.Zero, err
	}
	if err := s.store.SetBudget(ctx, budget); err != nil {
		return decimal.Zero, fmt.Errorf("set budget: %w", err)
	}
	s.logger.InfoContext(ctx, "Budget updated",
		applog.NewFields().WithOperation(applog.OpSetBudget).WithBudget(budget).ToSlice()...)
	return budget, nil
}

// ClearAll empties the collection and resets the budget after confirmation.
func (s *ExpenseService) ClearAll(ctx context.Context) error {
	if err := s.ask(ctx, ClearAllPrompt); err != nil {
		return err
	}
	if err := s.store.ClearAll(ctx); err != nil {
		return fmt.Errorf("clear all: %w", err)
	}
	s.logger.InfoContext(ctx, "All data cleared", applog.FieldOperation, applog.OpClearAll)
	return nil
}

// Export encodes the whole collection in the given format. The file is
// named after today's date.
func (s *ExpenseService) Export(ctx context.Context, format export.Format) (export.File, error) {
	snap := s.store.Snapshot()
	f, err := export.Encode(format, snap.Expenses, core.DateOf(s.store.Now()))
	if err != nil {
		if !errors.Is(err, core.ErrNothingToExport) {
			s.logger.ErrorContext(ctx, "Export failed",
				applog.FieldOperation, applog.OpExport,
				applog.FieldFormat, string(format),
				applog.FieldError, err)
		}
		return export.File{}, err
	}
	s.logger.InfoContext(ctx, "Expenses exported",
		applog.FieldOperation, applog.OpExport,
		applog.FieldFormat, string(format),
		applog.FieldExpenseCount, len(snap.Expenses))
	return f, nil
}

func (s *ExpenseService) ask(ctx context.Context, prompt string) error {
	ok, err := s.confirm.Confirm(ctx, prompt)
	if err != nil {
		return fmt.Errorf("confirm: %w", err)
	}
	if !ok {
		s.logger.DebugContext(ctx, "Confirmation declined",
			applog.FieldErrorType, applog.ErrorTypeCanceled)
		return ErrCanceled
	}
	return nil
}

func (s *ExpenseService) rejected(ctx context.Context, op, id string, err error) {
	kind := applog.ErrorTypeValidation
	if errors.Is(err, core.ErrNotFound) {
		kind = applog.ErrorTypeNotFound
	}
	fields := applog.NewFields().WithOperation(op).WithErrorType(kind).WithError(err)
	if id != "" {
		fields[applog.FieldExpenseID] = id
	}
	s.logger.WarnContext(ctx, "Request rejected", fields.ToSlice()...)
}
