package importer

import (
	"strings"

	"github.com/tracker-spend/spendtrack/internal/model"
)

func labelSet(labels []string) map[string]bool {
	set := make(map[string]bool, len(labels))
	for _, l := range labels {
		set[strings.ToLower(strings.TrimSpace(l))] = true
	}
	return set
}

func isModernBankHeader(labels []string) bool {
	set := labelSet(labels)
	return set["data"] && (set["operazione"] || set["dettagli"] || set["importo"])
}

// DetectFormat picks the statement format from header labels. Labels are
// compared exactly after trimming and lower-casing. It never fails:
// unrecognized headers are standard.
//
// bank_layout_c shares its header with bank_layout_a and is never returned.
func DetectFormat(labels []string) model.Format {
	set := labelSet(labels)
	switch {
	case set["data"] && set["dettagli"] && set["importo"]:
		return model.FormatModernBank
	case set["data"] && set["descrizione"]:
		if set["causale"] {
			return model.FormatBankLayoutB
		}
		return model.FormatBankLayoutA
	case set["data"] && set["causale"]:
		return model.FormatBankLayoutB
	case set["date"] && set["description"] && set["amount"]:
		return model.FormatStandard
	}
	return model.FormatStandard
}
