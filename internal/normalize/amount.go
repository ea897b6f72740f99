package normalize

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/tracker-spend/spendtrack/internal/model"
)

const currencyGlyphs = "€$£¥"

// Bounds on accepted amounts. Ledger amounts are stored to the cent with at
// most twelve integer digits.
const (
	maxAmountLen   = 64
	maxExponent    = 20
	centPlaces     = 2
	amountDigitCap = 12
)

var amountCap = decimal.New(1, amountDigitCap)

// ParseAmount converts a raw amount to a signed decimal rounded to the cent.
//
// Currency glyphs and whitespace are dropped, "(x)" and "x-" are negative.
// When both '.' and ',' appear the rightmost one is the decimal separator;
// a separator repeated more than once is a thousands separator. Exponent
// notation is accepted within small bounds; values of a trillion or more
// yield no value.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || len(s) > maxAmountLen || strings.EqualFold(s, "nan") {
		return decimal.Zero, false
	}

	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || strings.ContainsRune(currencyGlyphs, r) {
			return -1
		}
		return r
	}, s)

	neg := false
	if len(s) > 2 && strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	if len(s) > 1 && strings.HasSuffix(s, "-") {
		neg = true
		s = s[:len(s)-1]
	}
	if rest, ok := strings.CutPrefix(s, "+"); ok {
		if strings.HasPrefix(rest, "-") || strings.HasPrefix(rest, "+") {
			return decimal.Zero, false
		}
		s = rest
	}
	if s == "" {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(normalizeSeparators(s))
	if err != nil {
		return decimal.Zero, false
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return decimal.Zero, false
	}
	if d.Abs().GreaterThanOrEqual(amountCap) {
		return decimal.Zero, false
	}
	d = d.Round(centPlaces)
	if neg {
		d = d.Abs().Neg()
	}
	return d, true
}

func normalizeSeparators(s string) string {
	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			return strings.ReplaceAll(s, ",", "")
		}
		return strings.Replace(s, ",", ".", 1)
	case lastDot >= 0 && strings.Count(s, ".") > 1:
		return strings.ReplaceAll(s, ".", "")
	}
	return s
}

// Direction splits a signed amount into its magnitude and type.
// Zero is reported as an expense.
func Direction(amount decimal.Decimal) (decimal.Decimal, model.TxType) {
	if amount.IsPositive() {
		return amount, model.TypeIncome
	}
	return amount.Abs(), model.TypeExpense
}
