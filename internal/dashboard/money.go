package dashboard

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Money formats amounts in one currency for one locale.
type Money struct {
	Code    string
	unit    currency.Unit
	known   bool
	printer *message.Printer
}

// NewMoney returns a formatter for an ISO 4217 code and a BCP 47 locale.
// Unknown codes are printed verbatim; an invalid locale falls back to English.
func NewMoney(code, locale string) Money {
	code = strings.ToUpper(strings.TrimSpace(code))
	unit, err := currency.ParseISO(code)
	known := err == nil
	if !known {
		unit = currency.EUR
	}

	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}

	return Money{
		Code:    code,
		unit:    unit,
		known:   known,
		printer: message.NewPrinter(tag),
	}
}

func (m Money) symbol() string {
	if !m.known {
		return m.Code
	}
	return m.printer.Sprint(currency.NarrowSymbol(m.unit))
}

// prefix reports whether the symbol leads the amount. x/text has no symbol
// placement data, so this is a fixed list.
func (m Money) prefix() bool {
	switch m.Code {
	case "USD", "GBP", "JPY", "CAD", "AUD", "HKD", "SGD", "NZD":
		return true
	}
	return false
}

// Format renders amount with two decimals and the currency symbol.
func (m Money) Format(amount decimal.Decimal) string {
	f, _ := amount.Round(2).Float64()
	s := m.printer.Sprint(number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
	if m.prefix() {
		if strings.HasPrefix(s, "-") {
			return "-" + m.symbol() + s[1:]
		}
		return m.symbol() + s
	}
	return s + " " + m.symbol()
}

// Percent renders a percentage with one decimal.
func (m Money) Percent(p decimal.Decimal) string {
	f, _ := p.Round(1).Float64()
	return m.printer.Sprint(number.Decimal(f, number.MinFractionDigits(1), number.MaxFractionDigits(1))) + "%"
}
