package model

import "github.com/shopspring/decimal"

// Report is the validation summary of one assembled batch.
type Report struct {
	Valid        bool          `json:"valid"`
	Transactions []Transaction `json:"transactions"`
	Stats        Stats         `json:"stats"`
}

// Stats aggregates a batch.
type Stats struct {
	TotalTransactions int             `json:"total_transactions"`
	TotalIncome       decimal.Decimal `json:"total_income"`
	TotalExpenses     decimal.Decimal `json:"total_expenses"`
	NetAmount         decimal.Decimal `json:"net_amount"`
	ErrorsCount       int             `json:"errors_count"`
	Errors            []string        `json:"errors"`
	Categories        []string        `json:"categories"`
}
