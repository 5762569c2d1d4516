package export

import (
	"encoding/json"

	"budgettracker/internal/core"

	"gopkg.in/yaml.v3"
)

type expenseRow struct {
	ID       string    `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	Category string    `json:"category" yaml:"category"`
	Amount   string    `json:"amount" yaml:"amount"`
	Date     core.Date `json:"date" yaml:"date"`
}

func rows(expenses []core.Expense) []expenseRow {
	out := make([]expenseRow, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, expenseRow{
			ID:       e.ID,
			Name:     e.Name,
			Category: e.Category.String(),
			Amount:   e.Amount.String(),
			Date:     e.Date,
		})
	}
	return out
}

// JSONEncoder writes an indented JSON array. Amounts are strings so no
// precision is lost.
type JSONEncoder struct{}

func (JSONEncoder) EncodeExpenses(expenses []core.Expense) ([]byte, error) {
	return json.MarshalIndent(rows(expenses), "", "  ")
}

// YAMLEncoder writes a YAML sequence.
type YAMLEncoder struct{}

func (YAMLEncoder) EncodeExpenses(expenses []core.Expense) ([]byte, error) {
	return yaml.Marshal(rows(expenses))
}
