package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"budgettracker/internal/core"
	"budgettracker/internal/export"
	"budgettracker/internal/state"
	"budgettracker/internal/storage"
	"budgettracker/internal/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 6, 18, 0, 0, 0, time.UTC)

type recordingConfirmer struct {
	answer  bool
	err     error
	prompts []string
}

func (c *recordingConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	c.prompts = append(c.prompts, prompt)
	return c.answer, c.err
}

func newService(t *testing.T, confirm Confirmer) (*ExpenseService, *state.Store) {
	t.Helper()
	kv := memory.New(map[string]string{
		storage.BudgetKey:   "0",
		storage.ExpensesKey: "[]",
	})
	n := 0
	store, err := state.Open(context.Background(), storage.NewRepository(kv),
		state.WithClock(func() time.Time { return fixedNow }),
		state.WithIDGenerator(func() string { n++; return fmt.Sprintf("e%d", n) }),
	)
	require.NoError(t, err)
	return NewExpenseService(store, confirm, nil), store
}

func teaInput() ExpenseInput {
	return ExpenseInput{Name: "Tea", Category: "Food", Amount: "20", Date: "2024-01-01"}
}

func TestAdd(t *testing.T) {
	svc, store := newService(t, nil)

	e, err := svc.Add(context.Background(), ExpenseInput{Name: "  Tea ", Category: "food", Amount: "20", Date: "2024-01-01"})
	require.NoError(t, err)
	assert.Equal(t, "e1", e.ID)
	assert.Equal(t, "Tea", e.Name)
	assert.Equal(t, core.Food, e.Category)
	assert.Equal(t, "20", e.Amount.String())
	assert.Equal(t, "2024-01-01", e.Date.String())
	assert.Equal(t, 1, store.Snapshot().Len())
}

func TestAdd_Validation(t *testing.T) {
	tests := []struct {
		name   string
		in     ExpenseInput
		target error
	}{
		{"empty name", ExpenseInput{Name: "  ", Category: "Food", Amount: "5", Date: "2024-01-01"}, core.ErrEmptyName},
		{"unknown category", ExpenseInput{Name: "x", Category: "Travel", Amount: "5", Date: "2024-01-01"}, core.ErrInvalidCategory},
		{"zero amount", ExpenseInput{Name: "x", Category: "Food", Amount: "0", Date: "2024-01-01"}, core.ErrInvalidAmount},
		{"negative amount", ExpenseInput{Name: "x", Category: "Food", Amount: "-3", Date: "2024-01-01"}, core.ErrInvalidAmount},
		{"text amount", ExpenseInput{Name: "x", Category: "Food", Amount: "abc", Date: "2024-01-01"}, core.ErrInvalidAmount},
		{"bad date", ExpenseInput{Name: "x", Category: "Food", Amount: "5", Date: "2024-02-30"}, core.ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newService(t, nil)
			_, err := svc.Add(context.Background(), tt.in)

			var verr *core.ValidationError
			assert.ErrorAs(t, err, &verr)
			assert.ErrorIs(t, err, core.ErrValidation)
			assert.ErrorIs(t, err, tt.target)
			assert.Equal(t, 0, store.Snapshot().Len())
		})
	}
}

func TestEdit(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t, nil)
	added, err := svc.Add(ctx, teaInput())
	require.NoError(t, err)

	edited, err := svc.Edit(ctx, added.ID, ExpenseInput{Name: "Taxi", Category: "Transport", Amount: "250", Date: "2024-01-03"})
	require.NoError(t, err)
	assert.Equal(t, added.ID, edited.ID)

	got, ok := store.Expense(added.ID)
	require.True(t, ok)
	assert.Equal(t, "Taxi", got.Name)
	assert.Equal(t, core.Transport, got.Category)
	assert.Equal(t, "250", got.Amount.String())
	assert.Equal(t, "2024-01-03", got.Date.String())
}

func TestEdit_NotFound(t *testing.T) {
	svc, _ := newService(t, nil)

	_, err := svc.Edit(context.Background(), "ghost", ExpenseInput{})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestEdit_InvalidKeepsOriginal(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t, nil)
	added, err := svc.Add(ctx, teaInput())
	require.NoError(t, err)

	_, err = svc.Edit(ctx, added.ID, ExpenseInput{Name: "Tea", Category: "Food", Amount: "-1", Date: "2024-01-01"})
	assert.ErrorIs(t, err, core.ErrValidation)

	got, _ := store.Expense(added.ID)
	assert.Equal(t, added, got)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed", func(t *testing.T) {
		confirm := &recordingConfirmer{answer: true}
		svc, store := newService(t, confirm)
		added, err := svc.Add(ctx, teaInput())
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, added.ID))
		assert.Equal(t, 0, store.Snapshot().Len())
		assert.Equal(t, []string{DeletePrompt}, confirm.prompts)
	})

	t.Run("declined", func(t *testing.T) {
		confirm := &recordingConfirmer{answer: false}
		svc, store := newService(t, confirm)
		added, err := svc.Add(ctx, teaInput())
		require.NoError(t, err)

		assert.ErrorIs(t, svc.Delete(ctx, added.ID), ErrCanceled)
		assert.Equal(t, 1, store.Snapshot().Len())
	})

	t.Run("unknown id is not confirmed", func(t *testing.T) {
		confirm := &recordingConfirmer{answer: true}
		svc, _ := newService(t, confirm)

		assert.ErrorIs(t, svc.Delete(ctx, "ghost"), core.ErrNotFound)
		assert.Empty(t, confirm.prompts)
	})

	t.Run("confirmer failure", func(t *testing.T) {
		confirm := &recordingConfirmer{err: errors.New("stdin closed")}
		svc, store := newService(t, confirm)
		added, err := svc.Add(ctx, teaInput())
		require.NoError(t, err)

		err = svc.Delete(ctx, added.ID)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrCanceled)
		assert.Equal(t, 1, store.Snapshot().Len())
	})
}

func TestSetBudget(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t, nil)

	b, err := svc.SetBudget(ctx, " 1250.50 ")
	require.NoError(t, err)
	assert.Equal(t, "1250.5", b.String())
	assert.True(t, store.Snapshot().Budget.Equal(b))

	_, err = svc.SetBudget(ctx, "0")
	require.NoError(t, err)

	for _, raw := range []string{"-5", "lots", ""} {
		_, err := svc.SetBudget(ctx, raw)
		assert.ErrorIs(t, err, core.ErrInvalidBudget, "input %q", raw)
	}
	assert.True(t, store.Snapshot().Budget.IsZero())
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed", func(t *testing.T) {
		confirm := &recordingConfirmer{answer: true}
		svc, store := newService(t, confirm)
		_, err := svc.SetBudget(ctx, "500")
		require.NoError(t, err)
		_, err = svc.Add(ctx, teaInput())
		require.NoError(t, err)

		require.NoError(t, svc.ClearAll(ctx))
		snap := store.Snapshot()
		assert.True(t, snap.Budget.IsZero())
		assert.Empty(t, snap.Expenses)
		assert.Equal(t, []string{ClearAllPrompt}, confirm.prompts)
	})

	t.Run("declined", func(t *testing.T) {
		svc, store := newService(t, &recordingConfirmer{answer: false})
		_, err := svc.Add(ctx, teaInput())
		require.NoError(t, err)

		assert.ErrorIs(t, svc.ClearAll(ctx), ErrCanceled)
		assert.Equal(t, 1, store.Snapshot().Len())
	})
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, nil)

	_, err := svc.Export(ctx, export.FormatCSV)
	assert.ErrorIs(t, err, core.ErrNothingToExport)

	_, err = svc.Add(ctx, teaInput())
	require.NoError(t, err)

	f, err := svc.Export(ctx, export.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "expenses_2024-05-06.csv", f.Name)
	assert.Equal(t, "id,name,category,amount,date\n\"e1\",\"Tea\",\"Food\",\"20\",\"2024-01-01\"", string(f.Data))

	f, err = svc.Export(ctx, export.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "expenses_2024-05-06.json", f.Name)
}
