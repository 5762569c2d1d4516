package log

import "github.com/shopspring/decimal"

// Common field names for structured logging
const (
	FieldComponent    = "component"
	FieldOperation    = "operation"
	FieldError        = "error"
	FieldErrorType    = "error_type"
	FieldExpenseID    = "expense_id"
	FieldExpenseName  = "expense_name"
	FieldCategory     = "category"
	FieldAmount       = "amount"
	FieldDate         = "date"
	FieldBudget       = "budget"
	FieldExpenseCount = "expense_count"
	FieldBackend      = "backend"
	FieldPath         = "path"
	FieldFormat       = "format"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentStore   = "store"
	ComponentStorage = "storage"
	ComponentService = "service"
	ComponentEvents  = "events"
	ComponentBackend = "backend"
	ComponentExport  = "export"
	ComponentWorker  = "worker"
)

// Operations defines standard operation names
const (
	OpLoad      = "load"
	OpSeed      = "seed"
	OpAdd       = "add"
	OpEdit      = "edit"
	OpDelete    = "delete"
	OpSetBudget = "set_budget"
	OpClearAll  = "clear_all"
	OpExport    = "export"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation = "validation_error"
	ErrorTypeNotFound   = "not_found_error"
	ErrorTypeCorrupt    = "corrupt_state_error"
	ErrorTypeStorage    = "storage_error"
	ErrorTypeCanceled   = "canceled"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithErrorType adds the error category
func (f LogFields) WithErrorType(kind string) LogFields {
	f[FieldErrorType] = kind
	return f
}

// WithExpense adds expense-related fields
func (f LogFields) WithExpense(id, name, category string, amount decimal.Decimal, date string) LogFields {
	f[FieldExpenseID] = id
	f[FieldExpenseName] = name
	f[FieldCategory] = category
	f[FieldAmount] = amount.String()
	f[FieldDate] = date
	return f
}

// WithBudget adds the budget field
func (f LogFields) WithBudget(budget decimal.Decimal) LogFields {
	f[FieldBudget] = budget.String()
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
