package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tracker-spend/spendtrack/internal/dashboard"
	"github.com/tracker-spend/spendtrack/internal/ledger"
)

func newDashboardCommand(opts *globalOptions) *cobra.Command {
	var month string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show spending by month and category, budgets and goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(cmd, opts)
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			at := now
			if month != "" {
				at, err = time.Parse("2006-01", month)
				if err != nil {
					return fmt.Errorf("invalid --month %q: want YYYY-MM", month)
				}
			}

			store, err := ledger.Open(p.root)
			if err != nil {
				return err
			}
			txns := store.Transactions()

			report := dashboard.Report{
				Currency:   p.cfg.Currency,
				Summary:    dashboard.Summary(txns, at),
				Categories: dashboard.ByCategory(txns),
				Months:     dashboard.ByMonth(txns),
			}
			for _, b := range p.cfg.Budgets {
				report.Budgets = append(report.Budgets, dashboard.BudgetProgress(b, txns))
			}
			for _, g := range p.cfg.Goals {
				report.Goals = append(report.Goals, dashboard.GoalProgress(g, now))
			}

			if jsonOut {
				return dashboard.WriteJSON(cmd.OutOrStdout(), report)
			}
			dashboard.Render(cmd.OutOrStdout(), report, dashboard.RenderOptions{
				Money:    dashboard.NewMoney(p.cfg.Currency, p.cfg.Locale),
				Language: p.cfg.CategoryLanguage,
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month to summarize, YYYY-MM (default current)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print as JSON")

	return cmd
}
