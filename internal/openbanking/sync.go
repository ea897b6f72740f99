package openbanking

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tracker-spend/spendtrack/internal/categorize"
	"github.com/tracker-spend/spendtrack/internal/importer"
	"github.com/tracker-spend/spendtrack/internal/ingest"
	"github.com/tracker-spend/spendtrack/internal/logger"
	"github.com/tracker-spend/spendtrack/internal/model"
	"github.com/tracker-spend/spendtrack/internal/normalize"
)

// Normalize converts a provider record into a canonical transaction using the
// same date and amount rules as file imports. Records without an id, a
// parseable date or a non-zero amount are rejected.
func Normalize(r Record, cat *categorize.Categorizer) (model.Transaction, error) {
	if r.TransactionID == "" {
		return model.Transaction{}, fmt.Errorf("record has no transaction id")
	}
	date, ok := normalize.ParseDate(r.BookingDate, normalize.VariantGeneric)
	if !ok {
		return model.Transaction{}, fmt.Errorf("record %s: invalid booking date %q", r.TransactionID, r.BookingDate)
	}
	amount, ok := normalize.ParseAmount(r.Amount)
	if !ok || amount.IsZero() {
		return model.Transaction{}, fmt.Errorf("record %s: invalid amount %q", r.TransactionID, r.Amount)
	}
	magnitude, typ := normalize.Direction(amount)

	desc := r.Description
	if desc == "" {
		desc = r.Merchant
	}
	if desc == "" {
		desc = importer.PlaceholderDescription
	}

	return model.Transaction{
		ExternalID:  r.TransactionID,
		Source:      model.SourceOpenBanking,
		Date:        date,
		Description: desc,
		Amount:      magnitude,
		Type:        typ,
		Category:    cat.CategorizeMerchant(r.Merchant, r.Description),
		Account:     r.AccountID,
		Status:      r.Status,
		Currency:    r.Currency,
	}, nil
}

// AccountSummary is the outcome for one account.
type AccountSummary struct {
	AccountID  string `json:"account_id"`
	Fetched    int    `json:"fetched"`
	Skipped    int    `json:"skipped"`
	Inserted   int    `json:"inserted"`
	Duplicates int    `json:"duplicates"`
}

// SyncSummary is the outcome of a Sync call.
type SyncSummary struct {
	Accounts   []AccountSummary `json:"accounts"`
	Inserted   int              `json:"inserted"`
	Duplicates int              `json:"duplicates"`
	Skipped    int              `json:"skipped"`
}

// Sync imports every account's transactions in [from, to]. Running it twice
// over the same range inserts nothing the second time.
func Sync(ctx context.Context, p Provider, store ingest.Store, cat *categorize.Categorizer, from, to time.Time) (SyncSummary, error) {
	log := logger.FromContext(ctx)
	var sum SyncSummary

	accounts, err := p.ListAccounts(ctx)
	if err != nil {
		return sum, err
	}
	if len(accounts) == 0 {
		log.Warn().Msg("no linked accounts")
	}

	for _, acc := range accounts {
		records, err := p.ListTransactions(ctx, acc.ID, from, to)
		if err != nil {
			return sum, err
		}

		as := AccountSummary{AccountID: acc.ID, Fetched: len(records)}
		txns := make([]model.Transaction, 0, len(records))
		for _, r := range records {
			tx, err := Normalize(r, cat)
			if err != nil {
				as.Skipped++
				log.Debug().Err(err).Str("account", acc.ID).Msg("record skipped")
				continue
			}
			txns = append(txns, tx)
		}

		res, err := ingest.Import(ctx, store, txns)
		as.Inserted, as.Duplicates = res.Inserted, res.Duplicates
		sum.add(as)
		if err != nil {
			return sum, err
		}
		logAccount(log, as)
	}
	return sum, nil
}

func (s *SyncSummary) add(as AccountSummary) {
	s.Accounts = append(s.Accounts, as)
	s.Inserted += as.Inserted
	s.Duplicates += as.Duplicates
	s.Skipped += as.Skipped
}

func logAccount(log zerolog.Logger, as AccountSummary) {
	log.Info().
		Str("account", as.AccountID).
		Int("fetched", as.Fetched).
		Int("inserted", as.Inserted).
		Int("duplicates", as.Duplicates).
		Int("skipped", as.Skipped).
		Msg("account synced")
}
