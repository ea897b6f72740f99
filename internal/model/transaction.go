package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical calendar date format.
const DateLayout = "2006-01-02"

// TxType is the direction of money movement.
type TxType string

const (
	TypeIncome  TxType = "income"
	TypeExpense TxType = "expense"
)

// ParseTxType reads an explicit type label. Returns false for anything else.
func ParseTxType(s string) (TxType, bool) {
	switch TxType(s) {
	case TypeIncome, TypeExpense:
		return TxType(s), true
	}
	return "", false
}

// Source identifies where a transaction entered the system.
type Source string

const (
	SourceFile        Source = "file"
	SourceOpenBanking Source = "openbanking"
)

// Transaction is the canonical record produced by the import pipeline.
// It is not mutated after assembly.
type Transaction struct {
	ExternalID  string // stable upstream id; empty for file imports
	Source      Source
	Date        time.Time
	Description string
	Amount      decimal.Decimal // magnitude, never negative
	Type        TxType
	Category    string

	Account  string
	Status   string
	Currency string
	Raw      map[string]string
}

// Signed returns the amount with its direction applied.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Month returns the YYYY-MM bucket of the transaction date.
func (t Transaction) Month() string {
	return t.Date.Format("2006-01")
}

type transactionJSON struct {
	ExternalID      string            `json:"external_id,omitempty"`
	Source          Source            `json:"source,omitempty"`
	TransactionDate string            `json:"transaction_date"`
	Description     string            `json:"description"`
	Amount          decimal.Decimal   `json:"amount"`
	Type            TxType            `json:"type"`
	Category        string            `json:"category"`
	Account         string            `json:"account,omitempty"`
	Status          string            `json:"status,omitempty"`
	Currency        string            `json:"currency,omitempty"`
	Raw             map[string]string `json:"raw_data,omitempty"`
}

// MarshalJSON renders the date as YYYY-MM-DD.
func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionJSON{
		ExternalID:      t.ExternalID,
		Source:          t.Source,
		TransactionDate: t.Date.Format(DateLayout),
		Description:     t.Description,
		Amount:          t.Amount,
		Type:            t.Type,
		Category:        t.Category,
		Account:         t.Account,
		Status:          t.Status,
		Currency:        t.Currency,
		Raw:             t.Raw,
	})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var v transactionJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	d, err := time.Parse(DateLayout, v.TransactionDate)
	if err != nil {
		return err
	}
	*t = Transaction{
		ExternalID:  v.ExternalID,
		Source:      v.Source,
		Date:        d,
		Description: v.Description,
		Amount:      v.Amount,
		Type:        v.Type,
		Category:    v.Category,
		Account:     v.Account,
		Status:      v.Status,
		Currency:    v.Currency,
		Raw:         v.Raw,
	}
	return nil
}
