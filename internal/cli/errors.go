package cli

import (
	"errors"
	"fmt"

	"budgettracker/internal/core"
	"budgettracker/internal/services"
)

// UserMessage turns an error into a message fit for the terminal.
func UserMessage(err error) string {
	var verr *core.ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return fmt.Sprintf("Invalid %s: %v", verr.Field, verr.Err)
	case errors.Is(err, core.ErrNotFound):
		return "Expense not found."
	case errors.Is(err, core.ErrNothingToExport):
		return "No expenses to export."
	case errors.Is(err, services.ErrCanceled):
		return "Canceled."
	default:
		return err.Error()
	}
}
