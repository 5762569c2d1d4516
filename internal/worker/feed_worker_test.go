package worker

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"budgettracker/internal/core"
	"budgettracker/internal/events"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func message(op, id string) *events.StateChangedMessage {
	return &events.StateChangedMessage{
		Operation:    op,
		ExpenseID:    id,
		ExpenseCount: 4,
		Budget:       "30000",
		Timestamp:    time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC),
	}
}

func TestFeedWorker_HandleStateChanged(t *testing.T) {
	var buf bytes.Buffer
	w := NewFeedWorker(&buf, func(d decimal.Decimal) string { return core.FormatCurrency(d, "₹") }, nil)
	ctx := context.Background()

	require.NoError(t, w.HandleStateChanged(ctx, message("add", "e1")))
	require.NoError(t, w.HandleStateChanged(ctx, message("clear_all", "")))
	require.NoError(t, w.HandleStateChanged(ctx, message("rename", "e1")))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"2024-03-15", "09:30:00", "add", "e1", "expenses=4", "budget=₹30,000.00"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"2024-03-15", "09:30:00", "clear_all", "-", "expenses=4", "budget=₹30,000.00"}, strings.Fields(lines[1]))

	processed, skipped := w.Stats()
	assert.Equal(t, 2, processed)
	assert.Equal(t, 1, skipped)
}

func TestFeedWorker_DefaultFormat(t *testing.T) {
	var buf bytes.Buffer
	w := NewFeedWorker(&buf, nil, nil)

	msg := message("set_budget", "")
	msg.Budget = "1250.50"
	require.NoError(t, w.HandleStateChanged(context.Background(), msg))
	assert.Contains(t, buf.String(), "budget=1250.5")
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestFeedWorker_WriteFailure(t *testing.T) {
	w := NewFeedWorker(brokenWriter{}, nil, nil)

	err := w.HandleStateChanged(context.Background(), message("edit", "e2"))
	assert.Error(t, err)
	processed, _ := w.Stats()
	assert.Equal(t, 0, processed)
}
