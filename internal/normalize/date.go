// Package normalize converts raw statement cell text into canonical dates and
// amounts. Every function here is pure.
package normalize

import (
	"strings"
	"time"

	"github.com/tracker-spend/spendtrack/internal/model"
)

// Variant selects a date convention.
type Variant int

const (
	// VariantGeneric reads day-first and ISO dates.
	VariantGeneric Variant = iota
	// VariantModernBank reads month-first dates before falling back to generic.
	VariantModernBank
)

// VariantFor returns the date convention used by a statement format.
func VariantFor(f model.Format) Variant {
	if f == model.FormatModernBank {
		return VariantModernBank
	}
	return VariantGeneric
}

// Day and month accept one or two digits.
var genericLayouts = []string{
	"2006-1-2", // YYYY-MM-DD
	"2/1/2006", // DD/MM/YYYY
	"2-1-2006", // DD-MM-YYYY
	"2/1/06",   // DD/MM/YY
	"2-1-06",   // DD-MM-YY
	"2006/1/2", // YYYY/MM/DD
}

var modernBankLayouts = []string{
	"1/2/2006", // MM/DD/YYYY
}

// ParseDate parses raw with the layouts of the given variant. The first layout
// that parses wins. A trailing time component is ignored.
func ParseDate(raw string, v Variant) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if t, ok := parseLayouts(s, v); ok {
		return t, true
	}
	if i := strings.IndexAny(s, " T"); i > 0 {
		return parseLayouts(s[:i], v)
	}
	return time.Time{}, false
}

func parseLayouts(s string, v Variant) (time.Time, bool) {
	if v == VariantModernBank {
		for _, layout := range modernBankLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeDate parses raw and renders it as YYYY-MM-DD.
func NormalizeDate(raw string, v Variant) (string, bool) {
	t, ok := ParseDate(raw, v)
	if !ok {
		return "", false
	}
	return t.Format(model.DateLayout), true
}
