package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"budgettracker/internal/core"
	applog "budgettracker/internal/log"
	"budgettracker/internal/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository is the persistence port of the store.
type Repository interface {
	Load(ctx context.Context) (storage.Records, error)
	Save(ctx context.Context, budget decimal.Decimal, expenses []core.Expense) error
}

// Store holds the canonical budget and expense collection. Every mutation is
// written through to the repository before it becomes visible; a failed
// write leaves the previous state in place.
type Store struct {
	mu        sync.Mutex
	repo      Repository
	budget    decimal.Decimal
	expenses  []core.Expense
	recovered error

	observers []Observer
	nextObs   int
	obsIDs    []int

	now    func() time.Time
	newID  func() string
	logger *applog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the UUID generator used for new expenses.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithLogger overrides the logger carried by the context passed to Open.
func WithLogger(logger *applog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// Open loads persisted state. On first run (neither record present) the
// store is seeded with demonstration data and persisted immediately. Corrupt
// records are not fatal: the store starts empty and RecoveredFrom reports why.
func Open(ctx context.Context, repo Repository, opts ...Option) (*Store, error) {
	s := &Store{
		repo:     repo,
		budget:   decimal.Zero,
		expenses: []core.Expense{},
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = applog.FromContext(ctx)
	}
	s.logger = s.logger.WithComponent(applog.ComponentStore)

	recs, err := repo.Load(ctx)
	switch {
	case errors.Is(err, core.ErrCorruptState):
		s.recovered = err
		s.logger.WarnContext(ctx, "Stored state is corrupt, starting empty",
			applog.FieldOperation, applog.OpLoad,
			applog.FieldErrorType, applog.ErrorTypeCorrupt,
			applog.FieldError, err)
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("load state: %w", err)
	}

	if recs.FirstRun() {
		budget := SeedBudget
		expenses := seedData(core.DateOf(s.now()), s.newID)
		if err := repo.Save(ctx, budget, expenses); err != nil {
			return nil, fmt.Errorf("persist seed data: %w", err)
		}
		s.budget, s.expenses = budget, expenses
		s.logger.InfoContext(ctx, "Seeded demonstration data",
			applog.FieldOperation, applog.OpSeed,
			applog.FieldExpenseCount, len(expenses))
		return s, nil
	}

	s.budget = recs.Budget
	s.expenses = cloneExpenses(recs.Expenses)
	return s, nil
}

// RecoveredFrom returns the corrupt-state error Open recovered from, if any.
func (s *Store) RecoveredFrom() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recovered
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{Budget: s.budget, Expenses: cloneExpenses(s.expenses)}
}

// Expense looks up a single expense by id.
func (s *Store) Expense(id string) (core.Expense, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return core.Expense{}, false
	}
	return s.expenses[i], true
}

// Now returns the store clock's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

// Subscribe registers an observer and returns a function that removes it.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers = append(s.observers, fn)
	s.obsIDs = append(s.obsIDs, id)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, oid := range s.obsIDs {
			if oid == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				s.obsIDs = append(s.obsIDs[:i:i], s.obsIDs[i+1:]...)
				return
			}
		}
	}
}

// SetBudget replaces the budget.
func (s *Store) SetBudget(ctx context.Context, budget decimal.Decimal) error {
	if err := core.ValidateBudget(budget); err != nil {
		return err
	}
	return s.commit(ctx, OpSetBudget, "", func() (decimal.Decimal, []core.Expense, error) {
		return budget, s.expenses, nil
	})
}

// AddExpense appends a new expense with a fresh id and returns it.
func (s *Store) AddExpense(ctx context.Context, fields core.ExpenseFields) (core.Expense, error) {
	fields = fields.Normalized()
	if err := fields.Validate(); err != nil {
		return core.Expense{}, err
	}

	var added core.Expense
	err := s.commit(ctx, OpAdd, "", func() (decimal.Decimal, []core.Expense, error) {
		added = core.Expense{
			ID:       s.freshIDLocked(),
			Name:     fields.Name,
			Category: fields.Category,
			Amount:   fields.Amount,
			Date:     fields.Date,
		}
		next := append(cloneExpenses(s.expenses), added)
		return s.budget, next, nil
	})
	if err != nil {
		return core.Expense{}, err
	}
	return added, nil
}

// UpdateExpense replaces every non-id field of an existing expense.
func (s *Store) UpdateExpense(ctx context.Context, id string, fields core.ExpenseFields) (core.Expense, error) {
	fields = fields.Normalized()

	var updated core.Expense
	err := s.commit(ctx, OpEdit, id, func() (decimal.Decimal, []core.Expense, error) {
		i := s.indexLocked(id)
		if i < 0 {
			return decimal.Zero, nil, notFound(id)
		}
		if err := fields.Validate(); err != nil {
			return decimal.Zero, nil, err
		}
		updated = core.Expense{
			ID:       id,
			Name:     fields.Name,
			Category: fields.Category,
			Amount:   fields.Amount,
			Date:     fields.Date,
		}
		next := cloneExpenses(s.expenses)
		next[i] = updated
		return s.budget, next, nil
	})
	if err != nil {
		return core.Expense{}, err
	}
	return updated, nil
}

// RemoveExpense deletes an expense by id.
func (s *Store) RemoveExpense(ctx context.Context, id string) error {
	return s.commit(ctx, OpDelete, id, func() (decimal.Decimal, []core.Expense, error) {
		i := s.indexLocked(id)
		if i < 0 {
			return decimal.Zero, nil, notFound(id)
		}
		next := make([]core.Expense, 0, len(s.expenses)-1)
		next = append(next, s.expenses[:i]...)
		next = append(next, s.expenses[i+1:]...)
		return s.budget, next, nil
	})
}

// ClearAll resets the budget to zero and empties the collection.
func (s *Store) ClearAll(ctx context.Context) error {
	return s.commit(ctx, OpClearAll, "", func() (decimal.Decimal, []core.Expense, error) {
		return decimal.Zero, []core.Expense{}, nil
	})
}

// commit computes the next state under the lock, persists it and only then
// swaps it in. Observers run after the lock is released.
func (s *Store) commit(ctx context.Context, op Operation, id string, next func() (decimal.Decimal, []core.Expense, error)) error {
	s.mu.Lock()
	budget, expenses, err := next()
	if err != nil {
		s.mu.Unlock()
		s.logger.WarnContext(ctx, "Mutation rejected",
			applog.FieldOperation, op.String(),
			applog.FieldExpenseID, id,
			applog.FieldError, err)
		return err
	}

	if err := s.repo.Save(ctx, budget, expenses); err != nil {
		s.mu.Unlock()
		s.logger.ErrorContext(ctx, "Failed to persist state",
			applog.FieldOperation, op.String(),
			applog.FieldErrorType, applog.ErrorTypeStorage,
			applog.FieldError, err)
		return fmt.Errorf("persist %s: %w", op, err)
	}

	s.budget = budget
	s.expenses = expenses
	snap := s.snapshotLocked()
	observers := append([]Observer(nil), s.observers...)
	s.mu.Unlock()

	if id == "" && op == OpAdd && len(expenses) > 0 {
		id = expenses[len(expenses)-1].ID
	}
	s.logger.InfoContext(ctx, "State changed",
		applog.FieldOperation, op.String(),
		applog.FieldExpenseID, id,
		applog.FieldExpenseCount, len(snap.Expenses),
		applog.FieldBudget, snap.Budget.String())

	change := Change{Operation: op, ExpenseID: id, Snapshot: snap, At: s.now()}
	for _, fn := range observers {
		fn(ctx, change)
	}
	return nil
}

func (s *Store) indexLocked(id string) int {
	for i, e := range s.expenses {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) freshIDLocked() string {
	for {
		id := s.newID()
		if id != "" && s.indexLocked(id) < 0 {
			return id
		}
	}
}

func notFound(id string) error {
	return fmt.Errorf("%w: %q", core.ErrNotFound, id)
}
