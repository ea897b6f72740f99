package model

import (
	"fmt"
	"strings"
)

// Format is a recognized statement header layout.
type Format string

const (
	FormatStandard    Format = "standard"
	FormatBankLayoutA Format = "bank_layout_a" // date + descrizione
	FormatBankLayoutB Format = "bank_layout_b" // date + causale
	FormatBankLayoutC Format = "bank_layout_c" // same headers as A, never auto-detected
	FormatModernBank  Format = "modern_bank"
)

// Formats lists every known format in detection precedence order.
var Formats = []Format{
	FormatModernBank,
	FormatBankLayoutB,
	FormatBankLayoutA,
	FormatBankLayoutC,
	FormatStandard,
}

var formatAliases = map[string]Format{
	"intesa_sanpaolo": FormatBankLayoutA,
	"unicredit":       FormatBankLayoutB,
	"poste_italiane":  FormatBankLayoutC,
}

// ParseFormat resolves a format tag or one of the bank aliases.
func ParseFormat(s string) (Format, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, f := range Formats {
		if string(f) == key {
			return f, nil
		}
	}
	if f, ok := formatAliases[key]; ok {
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}
