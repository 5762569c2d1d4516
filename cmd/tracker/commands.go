package main

import (
	"fmt"
	"strings"

	"budgettracker/internal/cli"
	"budgettracker/internal/core"
	"budgettracker/internal/export"
	"budgettracker/internal/services"
	"budgettracker/internal/views"

	"github.com/spf13/cobra"
)

func summaryCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show budget, spending and what is left",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.withApp(cmd, nil, func(app *cli.App) error {
				e.renderer().Summary(views.Summarize(app.Store.Snapshot()))
				return nil
			})
		},
	}
}

func listCmd(e *env) *cobra.Command {
	var search, category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			criteria := views.Criteria{Query: search}
			if c := strings.TrimSpace(category); c != "" && !strings.EqualFold(c, "all") {
				parsed, err := core.ParseCategory(c)
				if err != nil {
					return err
				}
				criteria.Category = parsed
			}
			return e.withApp(cmd, nil, func(app *cli.App) error {
				e.renderer().Expenses(views.Filter(app.Store.Snapshot().Expenses, criteria))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "match name or category")
	cmd.Flags().StringVarP(&category, "category", "c", "all", "category to show, or all")
	return cmd
}

func breakdownCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "breakdown",
		Short: "Show spending per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.withApp(cmd, nil, func(app *cli.App) error {
				e.renderer().Breakdown(views.Breakdown(app.Store.Snapshot().Expenses))
				return nil
			})
		},
	}
}

func insightsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Show spending signals and a tip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.withApp(cmd, nil, func(app *cli.App) error {
				snap := app.Store.Snapshot()
				e.renderer().Insight(views.Insights(snap, app.Store.Now()), snap.Budget)
				return nil
			})
		},
	}
}

type expenseFlags struct {
	name, category, amount, date string
}

func (f *expenseFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "what the money was spent on")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "one of "+categoryList())
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "amount, greater than zero")
	cmd.Flags().StringVarP(&f.date, "date", "d", "", "date as YYYY-MM-DD (default today)")
}

func categoryList() string {
	names := make([]string, 0, len(core.Categories()))
	for _, c := range core.Categories() {
		names = append(names, c.String())
	}
	return strings.Join(names, ", ")
}

func addCmd(e *env) *cobra.Command {
	var f expenseFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.withApp(cmd, nil, func(app *cli.App) error {
				date := f.date
				if date == "" {
					date = core.DateOf(app.Store.Now()).String()
				}
				added, err := app.Service.Add(cmd.Context(), services.ExpenseInput{
					Name:     f.name,
					Category: f.category,
					Amount:   f.amount,
					Date:     date,
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(e.out, cli.FormatSuccess("Added "+e.renderer().Expense(added)))
				return nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

func editCmd(e *env) *cobra.Command {
	var f expenseFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change an expense; omitted fields keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return e.withApp(cmd, nil, func(app *cli.App) error {
				in := services.ExpenseInput{Name: f.name, Category: f.category, Amount: f.amount, Date: f.date}
				if current, ok := app.Store.Expense(id); ok {
					if !cmd.Flags().Changed("name") {
						in.Name = current.Name
					}
					if !cmd.Flags().Changed("category") {
						in.Category = current.Category.String()
					}
					if !cmd.Flags().Changed("amount") {
						in.Amount = current.Amount.String()
					}
					if !cmd.Flags().Changed("date") {
						in.Date = current.Date.String()
					}
				}
				updated, err := app.Service.Edit(cmd.Context(), id, in)
				if err != nil {
					return err
				}
				fmt.Fprintln(e.out, cli.FormatSuccess("Updated "+e.renderer().Expense(updated)))
				return nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

func deleteCmd(e *env) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withApp(cmd, e.confirmer(force), func(app *cli.App) error {
				if err := app.Service.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintln(e.out, cli.FormatSuccess("Deleted "+args[0]))
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")
	return cmd
}

func budgetCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "budget <amount>",
		Short: "Set the monthly budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withApp(cmd, nil, func(app *cli.App) error {
				b, err := app.Service.SetBudget(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(e.out, cli.FormatSuccess("Budget set to "+core.FormatCurrency(b, e.cfg.CurrencySymbol)))
				return nil
			})
		},
	}
}

func clearCmd(e *env) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every expense and reset the budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.withApp(cmd, e.confirmer(force), func(app *cli.App) error {
				if err := app.Service.ClearAll(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(e.out, cli.FormatSuccess("All data cleared"))
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")
	return cmd
}

func exportCmd(e *env) *cobra.Command {
	var format, dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export expenses to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			if dir == "" {
				dir = e.cfg.ExportDir
			}
			return e.withApp(cmd, nil, func(app *cli.App) error {
				file, err := app.Service.Export(cmd.Context(), f)
				if err != nil {
					return err
				}
				path, err := file.Save(dir)
				if err != nil {
					return err
				}
				fmt.Fprintln(e.out, cli.FormatSuccess("Exported to "+path))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "csv, json or yaml")
	cmd.Flags().StringVar(&dir, "dir", "", "output directory (default from export_dir)")
	return cmd
}

func versionCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(e.out, "tracker %s\n", version)
			return err
		},
	}
}
