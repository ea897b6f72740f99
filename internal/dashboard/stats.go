// Package dashboard aggregates stored transactions into spending summaries,
// budget usage and savings goal progress.
package dashboard

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tracker-spend/spendtrack/internal/categorize"
	"github.com/tracker-spend/spendtrack/internal/config"
	"github.com/tracker-spend/spendtrack/internal/model"
)

var hundred = decimal.NewFromInt(100)

// daysPerMonth is the average month length used for goal contributions.
var daysPerMonth = decimal.NewFromFloat(30.44)

// CategoryTotal is the expense total of one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
	Share    decimal.Decimal `json:"share"` // percent of all expenses
}

// ByCategory sums expenses per category, largest first. Income is ignored.
func ByCategory(txns []model.Transaction) []CategoryTotal {
	idx := make(map[string]int)
	var out []CategoryTotal
	total := decimal.Zero

	for _, tx := range txns {
		if tx.Type != model.TypeExpense {
			continue
		}
		i, ok := idx[tx.Category]
		if !ok {
			i = len(out)
			idx[tx.Category] = i
			out = append(out, CategoryTotal{Category: tx.Category})
		}
		out[i].Total = out[i].Total.Add(tx.Amount)
		out[i].Count++
		total = total.Add(tx.Amount)
	}

	for i := range out {
		out[i].Share = percent(out[i].Total, total)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// MonthTotal is the cash flow of one YYYY-MM bucket.
type MonthTotal struct {
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
	Count    int             `json:"count"`
}

// ByMonth buckets transactions by month, oldest first.
func ByMonth(txns []model.Transaction) []MonthTotal {
	buckets := make(map[string]*MonthTotal)
	for _, tx := range txns {
		m := tx.Month()
		b, ok := buckets[m]
		if !ok {
			b = &MonthTotal{Month: m}
			buckets[m] = b
		}
		b.add(tx)
	}

	out := make([]MonthTotal, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

func (m *MonthTotal) add(tx model.Transaction) {
	if tx.Type == model.TypeIncome {
		m.Income = m.Income.Add(tx.Amount)
	} else {
		m.Expenses = m.Expenses.Add(tx.Amount)
	}
	m.Net = m.Income.Sub(m.Expenses)
	m.Count++
}

// MonthSummary describes the month containing "now" against the month before.
type MonthSummary struct {
	MonthTotal
	DailyAverage  decimal.Decimal `json:"daily_average"`
	IncomeChange  decimal.Decimal `json:"income_change"`
	ExpenseChange decimal.Decimal `json:"expense_change"`
}

// Summary reports the current month's totals. Changes are percentages versus
// the previous month and are zero when the previous value is zero.
func Summary(txns []model.Transaction, now time.Time) MonthSummary {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	cur := MonthTotal{Month: start.Format("2006-01")}
	prev := MonthTotal{Month: start.AddDate(0, -1, 0).Format("2006-01")}

	for _, tx := range txns {
		switch tx.Month() {
		case cur.Month:
			cur.add(tx)
		case prev.Month:
			prev.add(tx)
		}
	}

	days := start.AddDate(0, 1, 0).Sub(start).Hours() / 24
	return MonthSummary{
		MonthTotal:    cur,
		DailyAverage:  cur.Expenses.Div(decimal.NewFromFloat(days)).Round(2),
		IncomeChange:  change(cur.Income, prev.Income),
		ExpenseChange: change(cur.Expenses, prev.Expenses),
	}
}

func change(cur, prev decimal.Decimal) decimal.Decimal {
	if prev.IsZero() {
		return decimal.Zero
	}
	return cur.Sub(prev).Div(prev).Mul(hundred).Round(2)
}

func percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}

// BudgetStatus is the usage of one budget.
type BudgetStatus struct {
	Name      string          `json:"name"`
	Category  string          `json:"category,omitempty"`
	Limit     decimal.Decimal `json:"limit"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
	Percent   decimal.Decimal `json:"percentage_used"`
	Over      bool            `json:"over_budget"`
}

// BudgetProgress sums expenses in the budget's category between its start and
// end dates inclusive. A budget with no category counts every expense.
// Italian category labels match their canonical form.
func BudgetProgress(b config.Budget, txns []model.Transaction) BudgetStatus {
	if c, ok := categorize.Canonical(b.Category); ok {
		b.Category = c
	}
	spent := decimal.Zero
	for _, tx := range txns {
		if tx.Type != model.TypeExpense {
			continue
		}
		if b.Category != "" && tx.Category != b.Category {
			continue
		}
		if !b.Start.IsZero() && tx.Date.Before(b.Start.Time) {
			continue
		}
		if !b.End.IsZero() && tx.Date.After(b.End.Time) {
			continue
		}
		spent = spent.Add(tx.Amount)
	}

	return BudgetStatus{
		Name:      b.Name,
		Category:  b.Category,
		Limit:     b.Amount,
		Spent:     spent,
		Remaining: b.Amount.Sub(spent),
		Percent:   percent(spent, b.Amount),
		Over:      spent.GreaterThan(b.Amount),
	}
}

// GoalStatus is the progress of one savings goal.
type GoalStatus struct {
	Name                string          `json:"name"`
	Target              decimal.Decimal `json:"target"`
	Current             decimal.Decimal `json:"current"`
	Remaining           decimal.Decimal `json:"remaining"`
	Percent             decimal.Decimal `json:"progress_percentage"`
	DaysRemaining       int             `json:"days_remaining"`
	MonthlyContribution decimal.Decimal `json:"monthly_contribution"`
}

// GoalProgress computes how far a goal is and what it needs per month to
// reach the target by its deadline. Past or missing deadlines need nothing.
func GoalProgress(g config.Goal, now time.Time) GoalStatus {
	st := GoalStatus{
		Name:      g.Name,
		Target:    g.Target,
		Current:   g.Current,
		Remaining: g.Target.Sub(g.Current),
		Percent:   percent(g.Current, g.Target),
	}
	if g.Deadline.IsZero() {
		return st
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	deadline := time.Date(g.Deadline.Year(), g.Deadline.Month(), g.Deadline.Day(), 0, 0, 0, 0, time.UTC)
	st.DaysRemaining = int(deadline.Sub(today).Hours() / 24)

	if st.DaysRemaining > 0 && st.Remaining.IsPositive() {
		months := decimal.NewFromInt(int64(st.DaysRemaining)).Div(daysPerMonth)
		st.MonthlyContribution = st.Remaining.Div(months).Round(2)
	}
	return st
}
