package importer

import (
	"github.com/shopspring/decimal"

	"github.com/tracker-spend/spendtrack/internal/model"
)

// Validate summarizes an assembled batch. The report is valid iff no row was
// rejected; it never drops assembled transactions.
func Validate(txns []model.Transaction, rejects []model.Reject) model.Report {
	stats := model.Stats{
		TotalTransactions: len(txns),
		TotalIncome:       decimal.Zero,
		TotalExpenses:     decimal.Zero,
		ErrorsCount:       len(rejects),
		Errors:            make([]string, 0, len(rejects)),
		Categories:        []string{},
	}

	seen := make(map[string]bool)
	for _, tx := range txns {
		switch tx.Type {
		case model.TypeIncome:
			stats.TotalIncome = stats.TotalIncome.Add(tx.Amount)
		case model.TypeExpense:
			stats.TotalExpenses = stats.TotalExpenses.Add(tx.Amount)
		}
		if !seen[tx.Category] {
			seen[tx.Category] = true
			stats.Categories = append(stats.Categories, tx.Category)
		}
	}
	stats.NetAmount = stats.TotalIncome.Sub(stats.TotalExpenses)

	for _, r := range rejects {
		stats.Errors = append(stats.Errors, r.Error())
	}

	if txns == nil {
		txns = []model.Transaction{}
	}
	return model.Report{
		Valid:        len(rejects) == 0,
		Transactions: txns,
		Stats:        stats,
	}
}
