package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"budgettracker/internal/core"
	"budgettracker/internal/views"

	"github.com/shopspring/decimal"
)

const barWidth = 30

// Renderer prints views to a writer.
type Renderer struct {
	w      io.Writer
	symbol string
}

func NewRenderer(w io.Writer, currencySymbol string) *Renderer {
	if currencySymbol == "" {
		currencySymbol = core.DefaultCurrencySymbol
	}
	return &Renderer{w: w, symbol: currencySymbol}
}

func (r *Renderer) money(d decimal.Decimal) string {
	return core.FormatCurrency(d, r.symbol)
}

// ProgressBar draws fill (0-100) as a fixed-width bar.
func ProgressBar(fill decimal.Decimal, width int) string {
	filled := int(fill.Mul(decimal.NewFromInt(int64(width))).Div(decimal.NewFromInt(100)).IntPart())
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Summary prints the budget overview.
func (r *Renderer) Summary(s views.Summary) {
	style := SeverityStyle(s.Severity)
	lines := []string{
		fmt.Sprintf("Budget     %s", r.money(s.Budget)),
		fmt.Sprintf("Spent      %s", style.Render(r.money(s.TotalSpent))),
		fmt.Sprintf("Remaining  %s", r.money(s.Remaining)),
		"",
		style.Render(ProgressBar(s.FillPercent, barWidth)) + " " + style.Render(s.PercentUsed.String()+"%"),
		SubtleStyle.Render(fmt.Sprintf("%s / %s", r.money(s.TotalSpent), r.money(s.Budget))),
	}
	fmt.Fprintln(r.w, RenderBox("Budget", strings.Join(lines, "\n")))
}

// Expenses prints the expense table, newest first as given.
func (r *Renderer) Expenses(expenses []core.Expense) {
	if len(expenses) == 0 {
		fmt.Fprintln(r.w, SubtleStyle.Render("No expenses found."))
		return
	}
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tNAME\tCATEGORY\tAMOUNT")
	for _, e := range expenses {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.Date, e.Name, e.Category, r.money(e.Amount))
	}
	_ = tw.Flush()
}

// Breakdown prints per-category totals with their share.
func (r *Renderer) Breakdown(shares []views.CategoryShare) {
	if len(shares) == 0 {
		fmt.Fprintln(r.w, SubtleStyle.Render("No data"))
		return
	}
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	for _, s := range shares {
		fmt.Fprintf(tw, "%s\t%s\t%s%%\t%s\n",
			s.Category, r.money(s.Amount), s.Percent, ProgressBar(s.Percent, barWidth/2))
	}
	_ = tw.Flush()
}

// Insight prints the advice line and the signals behind it.
func (r *Renderer) Insight(in views.Insight, budget decimal.Decimal) {
	fmt.Fprintln(r.w, TitleStyle.Render("Insights"))
	fmt.Fprintln(r.w, BoldStyle.Render(in.Advice(budget, r.symbol)))
	if !in.Available {
		return
	}
	fmt.Fprintln(r.w, SubtleStyle.Render(fmt.Sprintf(
		"Top category: %s (%s, %s%%) · Last %d days: %s · Categories: %d",
		in.TopCategory, r.money(in.TopAmount), in.TopShare,
		views.RecentWindowDays, r.money(in.RecentTotal), in.CategoryCount)))
}

// Expense prints a single expense line.
func (r *Renderer) Expense(e core.Expense) string {
	return fmt.Sprintf("%s %s · %s · %s · %s", e.ID, e.Name, e.Category, r.money(e.Amount), e.Date)
}
