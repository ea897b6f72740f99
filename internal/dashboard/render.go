package dashboard

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"

	"github.com/tracker-spend/spendtrack/internal/categorize"
)

// Report is everything the dashboard command shows.
type Report struct {
	Currency   string          `json:"currency"`
	Summary    MonthSummary    `json:"summary"`
	Categories []CategoryTotal `json:"categories"`
	Months     []MonthTotal    `json:"months"`
	Budgets    []BudgetStatus  `json:"budgets,omitempty"`
	Goals      []GoalStatus    `json:"goals,omitempty"`
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// RenderOptions controls table output.
type RenderOptions struct {
	Money    Money
	Language string // category label language, "en" or "it"
}

// Render writes r as a set of tables.
func Render(w io.Writer, r Report, opts RenderOptions) {
	m := opts.Money
	s := r.Summary

	fmt.Fprintf(w, "Month %s: %d transactions\n", s.Month, s.Count)
	summary := newTable(w)
	summary.AppendHeader(table.Row{"", "Amount", "vs previous month"})
	summary.AppendRow(table.Row{"Income", m.Format(s.Income), signed(m, s.IncomeChange)})
	summary.AppendRow(table.Row{"Expenses", m.Format(s.Expenses), signed(m, s.ExpenseChange)})
	summary.AppendRow(table.Row{"Daily average", m.Format(s.DailyAverage), ""})
	summary.AppendFooter(table.Row{text.Bold.Sprint("Net"), text.Bold.Sprint(m.Format(s.Net)), ""})
	rightAlign(summary, 2, 3)
	summary.Render()

	if len(r.Categories) > 0 {
		fmt.Fprintln(w, "\nSpending by category")
		t := newTable(w)
		t.AppendHeader(table.Row{"Category", "Transactions", "Total", "Share"})
		for _, c := range r.Categories {
			t.AppendRow(table.Row{categorize.Localize(c.Category, opts.Language), c.Count, m.Format(c.Total), m.Percent(c.Share)})
		}
		rightAlign(t, 2, 3, 4)
		t.Render()
	}

	if len(r.Months) > 0 {
		fmt.Fprintln(w, "\nMonthly cash flow")
		t := newTable(w)
		t.AppendHeader(table.Row{"Month", "Income", "Expenses", "Net"})
		for _, mt := range r.Months {
			net := m.Format(mt.Net)
			if mt.Net.IsNegative() {
				net = text.FgRed.Sprint(net)
			}
			t.AppendRow(table.Row{mt.Month, m.Format(mt.Income), m.Format(mt.Expenses), net})
		}
		rightAlign(t, 2, 3, 4)
		t.Render()
	}

	if len(r.Budgets) > 0 {
		fmt.Fprintln(w, "\nBudgets")
		t := newTable(w)
		t.AppendHeader(table.Row{"Budget", "Category", "Limit", "Spent", "Remaining", "Used"})
		for _, b := range r.Budgets {
			used := m.Percent(b.Percent)
			if b.Over {
				used = text.FgRed.Sprint(used)
			}
			t.AppendRow(table.Row{b.Name, categorize.Localize(b.Category, opts.Language), m.Format(b.Limit), m.Format(b.Spent), m.Format(b.Remaining), used})
		}
		rightAlign(t, 3, 4, 5, 6)
		t.Render()
	}

	if len(r.Goals) > 0 {
		fmt.Fprintln(w, "\nSavings goals")
		t := newTable(w)
		t.AppendHeader(table.Row{"Goal", "Target", "Saved", "Progress", "Days left", "Per month"})
		for _, g := range r.Goals {
			perMonth := "-"
			if g.MonthlyContribution.IsPositive() {
				perMonth = m.Format(g.MonthlyContribution)
			}
			t.AppendRow(table.Row{g.Name, m.Format(g.Target), m.Format(g.Current), m.Percent(g.Percent), g.DaysRemaining, perMonth})
		}
		rightAlign(t, 2, 3, 4, 5, 6)
		t.Render()
	}
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	return t
}

func rightAlign(t table.Writer, cols ...int) {
	cfgs := make([]table.ColumnConfig, len(cols))
	for i, c := range cols {
		cfgs[i] = table.ColumnConfig{Number: c, Align: text.AlignRight}
	}
	t.SetColumnConfigs(cfgs)
}

func signed(m Money, p decimal.Decimal) string {
	if p.IsPositive() {
		return "+" + m.Percent(p)
	}
	return m.Percent(p)
}
