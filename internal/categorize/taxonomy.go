package categorize

import "strings"

// Category labels of the fixed taxonomy.
const (
	Groceries = "Groceries"
	Transport = "Transport"
	Dining    = "Dining"
	Utilities = "Utilities"
	Housing   = "Housing"
	Shopping  = "Shopping"
	Health    = "Health"
	Lifestyle = "Lifestyle"
	Income    = "Income"
	Savings   = "Savings"
	Other     = "Other"
)

// Taxonomy lists every category label, fallback last.
var Taxonomy = []string{
	Groceries, Transport, Dining, Utilities, Housing,
	Shopping, Health, Lifestyle, Income, Savings, Other,
}

var italianLabels = map[string]string{
	Groceries: "Alimentari",
	Transport: "Trasporti",
	Dining:    "Ristoranti",
	Utilities: "Casa",
	Housing:   "Abitazione",
	Shopping:  "Shopping",
	Health:    "Salute",
	Lifestyle: "Intrattenimento",
	Income:    "Lavoro",
	Savings:   "Risparmio",
	Other:     "Altro",
}

var canonicalByLower = func() map[string]string {
	m := make(map[string]string, 2*len(Taxonomy))
	for _, c := range Taxonomy {
		m[strings.ToLower(c)] = c
	}
	for c, it := range italianLabels {
		m[strings.ToLower(it)] = c
	}
	return m
}()

// Canonical maps an English or Italian label onto the taxonomy.
func Canonical(label string) (string, bool) {
	c, ok := canonicalByLower[strings.ToLower(strings.TrimSpace(label))]
	return c, ok
}

// Localize renders a taxonomy label in lang ("en" or "it").
// Unknown labels and languages are returned unchanged.
func Localize(label, lang string) string {
	if lang != "it" {
		return label
	}
	if it, ok := italianLabels[label]; ok {
		return it
	}
	return label
}
