package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/tracker-spend/spendtrack/internal/categorize"
	"github.com/tracker-spend/spendtrack/internal/model"
	"github.com/tracker-spend/spendtrack/internal/normalize"
)

// PlaceholderDescription names modern-bank rows with neither operation nor
// details.
const PlaceholderDescription = "Transaction without description"

// Assemble converts rows into transactions. Rows that fail a required field
// are returned as rejects; they never stop the batch. Both slices are always
// non-nil.
func Assemble(rows []RawRow, cols Columns, cat *categorize.Categorizer) ([]model.Transaction, []model.Reject) {
	txns := []model.Transaction{}
	rejects := []model.Reject{}
	variant := normalize.VariantFor(cols.Format)

	for _, row := range rows {
		tx, rej := assembleRow(row, cols, variant, cat)
		if rej != nil {
			rejects = append(rejects, *rej)
			continue
		}
		txns = append(txns, tx)
	}
	return txns, rejects
}

func assembleRow(row RawRow, cols Columns, variant normalize.Variant, cat *categorize.Categorizer) (model.Transaction, *model.Reject) {
	reject := func(reason model.RejectReason, detail string) (model.Transaction, *model.Reject) {
		return model.Transaction{}, &model.Reject{Row: row.Index, Reason: reason, Detail: detail}
	}
	f := cols.Extract(row)

	date, detail := rowDate(cols, f.Date, variant)
	if date.IsZero() {
		return reject(model.RejectMissingDate, detail)
	}

	signed, ok := normalize.ParseAmount(f.Amount)
	if !ok || signed.IsZero() {
		return reject(model.RejectMissingAmount, amountDetail(cols, f.Amount))
	}
	amount, typ := normalize.Direction(signed)
	if cols.Format == model.FormatStandard && !signed.IsNegative() {
		if explicit, ok := model.ParseTxType(strings.ToLower(f.Type)); ok {
			typ = explicit
		}
	}

	desc := description(cols.Format, f.Operation, f.Description)
	if desc == "" {
		return reject(model.RejectMissingDescription, "")
	}

	return model.Transaction{
		Source:      model.SourceFile,
		Date:        date,
		Description: desc,
		Amount:      amount,
		Type:        typ,
		Category:    category(cat, f.Category, desc),
		Account:     f.Account,
		Status:      f.Status,
		Currency:    f.Currency,
		Raw:         row.Map(),
	}, nil
}

func rowDate(cols Columns, cell Cell, variant normalize.Variant) (time.Time, string) {
	if !cols.Has(FieldDate) {
		return time.Time{}, "no date column"
	}
	if !cell.Date.IsZero() {
		y, m, d := cell.Date.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), ""
	}
	raw := cell.String()
	if raw == "" {
		return time.Time{}, "empty"
	}
	t, ok := normalize.ParseDate(raw, variant)
	if !ok {
		return time.Time{}, fmt.Sprintf("unparseable %q", raw)
	}
	return t, ""
}

func amountDetail(cols Columns, raw string) string {
	switch {
	case !cols.Has(FieldAmount):
		return "no amount column"
	case raw == "":
		return "empty"
	}
	if _, ok := normalize.ParseAmount(raw); ok {
		return "zero"
	}
	return fmt.Sprintf("unparseable %q", raw)
}

func description(format model.Format, operation, details string) string {
	switch {
	case operation != "" && details != "":
		return operation + ": " + details
	case details != "":
		return details
	case operation != "":
		return operation
	case format == model.FormatModernBank:
		return PlaceholderDescription
	}
	return ""
}

// category keeps an explicit label that belongs to the taxonomy. Any other
// explicit value is treated as extra text for the keyword rules.
func category(cat *categorize.Categorizer, explicit, desc string) string {
	explicit = strings.TrimSpace(explicit)
	if c, ok := categorize.Canonical(explicit); ok {
		return c
	}
	if explicit == "" || strings.EqualFold(explicit, "uncategorized") {
		return cat.Categorize(desc)
	}
	return cat.CategorizeMerchant(explicit, desc)
}
