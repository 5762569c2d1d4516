package cli

import (
	"bytes"
	"strings"
	"testing"

	"budgettracker/internal/core"
	"budgettracker/internal/state"
	"budgettracker/internal/views"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		fill int64
		want string
	}{
		{0, "░░░░░░░░░░"},
		{50, "█████░░░░░"},
		{55, "█████░░░░░"},
		{100, "██████████"},
		{140, "██████████"},
		{-10, "░░░░░░░░░░"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ProgressBar(decimal.NewFromInt(tt.fill), 10), "fill %d", tt.fill)
	}
}

func testExpenses() []core.Expense {
	return []core.Expense{
		{ID: "e1", Name: "Tea", Category: core.Food, Amount: decimal.NewFromInt(20), Date: core.NewDate(2024, 1, 1)},
		{ID: "e2", Name: "Taxi", Category: core.Transport, Amount: decimal.NewFromInt(1250), Date: core.NewDate(2024, 1, 2)},
	}
}

func TestRenderer_Expenses(t *testing.T) {
	DisableColor()

	var buf bytes.Buffer
	NewRenderer(&buf, "$").Expenses(testExpenses())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, []string{"ID", "DATE", "NAME", "CATEGORY", "AMOUNT"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"e1", "2024-01-01", "Tea", "Food", "$20.00"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"e2", "2024-01-02", "Taxi", "Transport", "$1,250.00"}, strings.Fields(lines[2]))

	buf.Reset()
	NewRenderer(&buf, "$").Expenses(nil)
	assert.Equal(t, "No expenses found.\n", buf.String())
}

func TestRenderer_Breakdown(t *testing.T) {
	DisableColor()

	var buf bytes.Buffer
	r := NewRenderer(&buf, "")
	r.Breakdown(views.Breakdown(testExpenses()))
	out := buf.String()
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, "₹20.00")
	assert.Contains(t, out, "98%")

	buf.Reset()
	r.Breakdown(nil)
	assert.Equal(t, "No data\n", buf.String())
}

func TestRenderer_Summary(t *testing.T) {
	DisableColor()

	var buf bytes.Buffer
	NewRenderer(&buf, "₹").Summary(views.Summarize(state.Snapshot{Budget: decimal.NewFromInt(1000), Expenses: testExpenses()}))
	out := buf.String()
	assert.Contains(t, out, "₹1,000.00")
	assert.Contains(t, out, "₹1,270.00")
	assert.Contains(t, out, "₹0.00")
	assert.Contains(t, out, "127%")
}

func TestRenderer_Expense(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, "€")
	assert.Equal(t, "e1 Tea · Food · €20.00 · 2024-01-01", r.Expense(testExpenses()[0]))
}
