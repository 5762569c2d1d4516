package worker

import (
	"context"
	"fmt"
	"io"
	"sync"

	"budgettracker/internal/events"
	applog "budgettracker/internal/log"
	"budgettracker/internal/state"

	"github.com/shopspring/decimal"
)

var knownOperations = map[string]bool{
	state.OpSetBudget.String(): true,
	state.OpAdd.String():       true,
	state.OpEdit.String():      true,
	state.OpDelete.String():    true,
	state.OpClearAll.String():  true,
}

// FeedWorker prints the change feed of other tracker processes, one line
// per committed mutation.
type FeedWorker struct {
	out    io.Writer
	format func(decimal.Decimal) string
	logger *applog.Logger

	mu        sync.Mutex
	processed int
	skipped   int
}

func NewFeedWorker(out io.Writer, format func(decimal.Decimal) string, logger *applog.Logger) *FeedWorker {
	if logger == nil {
		logger = applog.Nop()
	}
	if format == nil {
		format = decimal.Decimal.String
	}
	return &FeedWorker{
		out:    out,
		format: format,
		logger: logger.WithComponent(applog.ComponentWorker),
	}
}

// HandleStateChanged is an events.Handler. Messages for operations this
// version does not know are skipped and acknowledged.
func (w *FeedWorker) HandleStateChanged(ctx context.Context, msg *events.StateChangedMessage) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !knownOperations[msg.Operation] {
		w.skipped++
		w.logger.WarnContext(ctx, "Skipping unknown operation", applog.FieldOperation, msg.Operation)
		return nil
	}

	budget := msg.Budget
	if d, err := decimal.NewFromString(msg.Budget); err == nil {
		budget = w.format(d)
	}
	id := msg.ExpenseID
	if id == "" {
		id = "-"
	}

	if _, err := fmt.Fprintf(w.out, "%s  %-10s %-36s  expenses=%d  budget=%s\n",
		msg.Timestamp.Format("2006-01-02 15:04:05"), msg.Operation, id, msg.ExpenseCount, budget); err != nil {
		return fmt.Errorf("write change: %w", err)
	}
	w.processed++

	w.logger.DebugContext(ctx, "Processed state change",
		applog.FieldOperation, msg.Operation,
		applog.FieldExpenseID, msg.ExpenseID)
	return nil
}

// Stats returns how many messages were printed and skipped.
func (w *FeedWorker) Stats() (processed, skipped int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.processed, w.skipped
}
