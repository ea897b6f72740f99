package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tracker-spend/spendtrack/internal/model"
)

// record is one row of transactions.csv.
type record struct {
	ID          string `csv:"id"`
	ExternalID  string `csv:"external_id"`
	Source      string `csv:"source"`
	Date        string `csv:"transaction_date"`
	Description string `csv:"description"`
	Amount      string `csv:"amount"`
	Type        string `csv:"type"`
	Category    string `csv:"category"`
	Account     string `csv:"account"`
	Status      string `csv:"status"`
	Currency    string `csv:"currency"`
	BatchID     string `csv:"batch_id"`
	ImportedAt  string `csv:"imported_at"`
}

// Entry is a stored transaction together with its ledger metadata.
type Entry struct {
	ID          string
	BatchID     string
	ImportedAt  time.Time
	Transaction model.Transaction
}

func toRecord(e Entry) record {
	tx := e.Transaction
	return record{
		ID:          e.ID,
		ExternalID:  tx.ExternalID,
		Source:      string(tx.Source),
		Date:        tx.Date.Format(model.DateLayout),
		Description: tx.Description,
		Amount:      tx.Amount.StringFixed(2),
		Type:        string(tx.Type),
		Category:    tx.Category,
		Account:     tx.Account,
		Status:      tx.Status,
		Currency:    tx.Currency,
		BatchID:     e.BatchID,
		ImportedAt:  e.ImportedAt.UTC().Format(time.RFC3339),
	}
}

func fromRecord(r record) (Entry, error) {
	date, err := time.Parse(model.DateLayout, r.Date)
	if err != nil {
		return Entry{}, fmt.Errorf("invalid transaction_date %q: %w", r.Date, err)
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return Entry{}, fmt.Errorf("invalid amount %q: %w", r.Amount, err)
	}
	typ, ok := model.ParseTxType(r.Type)
	if !ok {
		return Entry{}, fmt.Errorf("invalid type %q", r.Type)
	}

	var importedAt time.Time
	if r.ImportedAt != "" {
		importedAt, err = time.Parse(time.RFC3339, r.ImportedAt)
		if err != nil {
			return Entry{}, fmt.Errorf("invalid imported_at %q: %w", r.ImportedAt, err)
		}
	}

	return Entry{
		ID:         r.ID,
		BatchID:    r.BatchID,
		ImportedAt: importedAt,
		Transaction: model.Transaction{
			ExternalID:  r.ExternalID,
			Source:      model.Source(r.Source),
			Date:        date,
			Description: r.Description,
			Amount:      amount,
			Type:        typ,
			Category:    r.Category,
			Account:     r.Account,
			Status:      r.Status,
			Currency:    r.Currency,
		},
	}, nil
}
