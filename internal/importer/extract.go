package importer

import (
	"strings"

	"github.com/tracker-spend/spendtrack/internal/model"
)

// Field is a semantic column of a statement.
type Field int

const (
	FieldDate Field = iota
	FieldAmount
	FieldOperation
	FieldDescription
	FieldCategory
	FieldType
	FieldAccount
	FieldStatus
	FieldCurrency
	numFieldKinds
)

var fieldNames = [numFieldKinds]string{
	"date", "amount", "operation", "description", "category", "type", "account", "status", "currency",
}

func (f Field) String() string {
	if f < 0 || f >= numFieldKinds {
		return "unknown"
	}
	return fieldNames[f]
}

// synonyms are matched as case-insensitive substrings of header labels.
var synonyms = [numFieldKinds][]string{
	FieldDate:        {"data", "date", "giorno"},
	FieldAmount:      {"importo", "amount", "euro", "€", "valore"},
	FieldOperation:   {"operazione", "operation"},
	FieldDescription: {"descrizione", "dettagli", "causale", "note", "description"},
	FieldCategory:    {"categoria", "category"},
	FieldType:        {"type", "tipo"},
	FieldAccount:     {"conto", "account"},
	FieldStatus:      {"contabilizzazione", "status", "stato"},
	FieldCurrency:    {"valuta", "currency"},
}

// Columns are claimed in this order, so an earlier field keeps a label that
// would also match a later one.
var resolveOrder = []Field{
	FieldDate, FieldAmount, FieldOperation, FieldDescription,
	FieldCategory, FieldType, FieldAccount, FieldStatus, FieldCurrency,
}

// fieldsFor lists the fields extracted for a format.
func fieldsFor(f model.Format) map[Field]bool {
	fields := map[Field]bool{
		FieldDate: true, FieldAmount: true, FieldOperation: true, FieldDescription: true,
	}
	switch f {
	case model.FormatStandard:
		fields[FieldCategory] = true
		fields[FieldType] = true
	case model.FormatModernBank:
		fields[FieldCategory] = true
		fields[FieldAccount] = true
		fields[FieldStatus] = true
		fields[FieldCurrency] = true
	}
	return fields
}

// formatSynonyms extend the shared synonyms for one format. In bank_layout_b
// the causale column is the operation and descrizione holds the details.
var formatSynonyms = map[model.Format]map[Field][]string{
	model.FormatBankLayoutB: {FieldOperation: {"causale"}},
}

func synonymsFor(format model.Format, f Field) []string {
	extra := formatSynonyms[format][f]
	if len(extra) == 0 {
		return synonyms[f]
	}
	return append(append([]string(nil), synonyms[f]...), extra...)
}

func matchesSynonym(label string, f Field) bool {
	return matchesAny(label, synonyms[f])
}

func matchesAny(label string, words []string) bool {
	label = strings.ToLower(label)
	for _, s := range words {
		if strings.Contains(label, s) {
			return true
		}
	}
	return false
}

func hasSynonym(labels []string, f Field) bool {
	for _, l := range labels {
		if matchesSynonym(l, f) {
			return true
		}
	}
	return false
}

// Columns maps fields to column positions for one header.
type Columns struct {
	Format model.Format
	index  [numFieldKinds]int
}

// ResolveColumns locates the columns of each field used by format. The first
// matching column in natural order wins and a column serves one field only.
func ResolveColumns(labels []string, format model.Format) Columns {
	cols := Columns{Format: format}
	for i := range cols.index {
		cols.index[i] = -1
	}

	wanted := fieldsFor(format)
	claimed := make([]bool, len(labels))
	for _, f := range resolveOrder {
		if !wanted[f] {
			continue
		}
		words := synonymsFor(format, f)
		for i, label := range labels {
			if claimed[i] || !matchesAny(label, words) {
				continue
			}
			cols.index[f] = i
			claimed[i] = true
			break
		}
	}
	return cols
}

// Index returns the column of f, or -1.
func (c Columns) Index(f Field) int {
	return c.index[f]
}

// Has reports whether f was located.
func (c Columns) Has(f Field) bool {
	return c.index[f] >= 0
}

// Missing lists the required fields (date, amount) that were not located.
func (c Columns) Missing() []Field {
	var missing []Field
	for _, f := range []Field{FieldDate, FieldAmount} {
		if !c.Has(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// Fields is the raw content of the semantic columns of one row.
type Fields struct {
	Date        Cell
	Amount      string
	Operation   string
	Description string
	Category    string
	Type        string
	Account     string
	Status      string
	Currency    string
}

// Extract reads the located columns of row.
func (c Columns) Extract(row RawRow) Fields {
	text := func(f Field) string {
		if !c.Has(f) {
			return ""
		}
		return row.Cell(c.index[f]).String()
	}
	var date Cell
	if c.Has(FieldDate) {
		date = row.Cell(c.index[FieldDate])
	}
	return Fields{
		Date:        date,
		Amount:      text(FieldAmount),
		Operation:   text(FieldOperation),
		Description: text(FieldDescription),
		Category:    text(FieldCategory),
		Type:        text(FieldType),
		Account:     text(FieldAccount),
		Status:      text(FieldStatus),
		Currency:    text(FieldCurrency),
	}
}
