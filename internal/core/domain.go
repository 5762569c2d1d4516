package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the textual form of a Date in storage and exports.
const DateLayout = "2006-01-02"

const (
	Food          Category = "Food"
	Transport     Category = "Transport"
	Shopping      Category = "Shopping"
	Bills         Category = "Bills"
	Entertainment Category = "Entertainment"
	Other         Category = "Other"
)

type (
	// Category is one of the recognized expense categories.
	Category string

	// Date is a calendar date without a time component. The underlying
	// time is always midnight UTC.
	Date struct {
		time.Time
	}

	Expense struct {
		ID       string
		Name     string
		Category Category
		Amount   decimal.Decimal
		Date     Date
	}

	// ExpenseFields are the replaceable fields of an Expense. Add and edit
	// both take a full set; there is no partial patch.
	ExpenseFields struct {
		Name     string
		Category Category
		Amount   decimal.Decimal
		Date     Date
	}
)

var categories = []Category{Food, Transport, Shopping, Bills, Entertainment, Other}

var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("expense not found")
	ErrNothingToExport = errors.New("no expenses to export")
	ErrCorruptState    = errors.New("stored state is corrupt")

	ErrEmptyName       = errors.New("name cannot be empty")
	ErrInvalidCategory = errors.New("unrecognized category")
	ErrInvalidAmount   = errors.New("amount must be a number greater than zero and below 10^15")
	ErrInvalidDate     = errors.New("date must be a valid YYYY-MM-DD calendar date")
	ErrInvalidBudget   = errors.New("budget must be a number zero or greater and below 10^15")
	ErrEmptyID         = errors.New("id cannot be empty")
)

// ValidationError reports which input field was rejected. It matches both
// ErrValidation and the field-specific sentinel with errors.Is.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() []error {
	return []error{ErrValidation, e.Err}
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// Categories returns the recognized categories in display order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory matches s against the recognized categories ignoring case
// and surrounding whitespace, returning the canonical spelling.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, known := range categories {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}
	return "", invalid("category", ErrInvalidCategory)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a YYYY-MM-DD string. Out-of-range days such as
// 2024-02-30 are rejected.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, invalid("date", ErrInvalidDate)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.AddDate(0, 0, n)}
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON shadows the promoted time.Time method so dates stay YYYY-MM-DD.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	return d.UnmarshalText([]byte(strings.Trim(string(b), `"`)))
}

func (d Date) Validate() error {
	if d.IsZero() {
		return invalid("date", ErrInvalidDate)
	}
	return nil
}

func (f ExpenseFields) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return invalid("name", ErrEmptyName)
	}
	if !f.Category.Valid() {
		return invalid("category", ErrInvalidCategory)
	}
	if !f.Amount.IsPositive() || !InRange(f.Amount) {
		return invalid("amount", ErrInvalidAmount)
	}
	return f.Date.Validate()
}

// Normalized returns a copy with the name trimmed.
func (f ExpenseFields) Normalized() ExpenseFields {
	f.Name = strings.TrimSpace(f.Name)
	return f
}

// Fields returns the replaceable part of the expense.
func (e Expense) Fields() ExpenseFields {
	return ExpenseFields{Name: e.Name, Category: e.Category, Amount: e.Amount, Date: e.Date}
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return invalid("id", ErrEmptyID)
	}
	return e.Fields().Validate()
}

// ParseExpenseFields turns raw form values into validated fields. The first
// failing field is reported.
func ParseExpenseFields(name, category, amount, date string) (ExpenseFields, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ExpenseFields{}, invalid("name", ErrEmptyName)
	}
	cat, err := ParseCategory(category)
	if err != nil {
		return ExpenseFields{}, err
	}
	amt, err := ParseAmount(amount)
	if err != nil {
		return ExpenseFields{}, err
	}
	d, err := ParseDate(date)
	if err != nil {
		return ExpenseFields{}, err
	}
	return ExpenseFields{Name: name, Category: cat, Amount: amt, Date: d}, nil
}
