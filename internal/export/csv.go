package export

import (
	"strings"

	"budgettracker/internal/core"
)

var csvHeader = []string{"id", "name", "category", "amount", "date"}

// CSVEncoder writes an unquoted header followed by one row per expense with
// every field double-quoted. Rows are separated by "\n" with no trailing
// newline.
type CSVEncoder struct{}

func (CSVEncoder) EncodeExpenses(expenses []core.Expense) ([]byte, error) {
	var b strings.Builder
	b.WriteString(strings.Join(csvHeader, ","))
	for _, e := range expenses {
		b.WriteByte('\n')
		writeQuotedRow(&b,
			e.ID,
			e.Name,
			e.Category.String(),
			e.Amount.String(),
			e.Date.String(),
		)
	}
	return []byte(b.String()), nil
}

func writeQuotedRow(b *strings.Builder, fields ...string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
}
