package importer

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// CSVLoader reads delimited text exports.
type CSVLoader struct{}

// Extensions implements Loader.
func (l *CSVLoader) Extensions() []string {
	return []string{".csv", ".txt"}
}

// Load decodes data with the first accepting encoding, sniffs the delimiter
// and reads every record.
func (l *CSVLoader) Load(name string, data []byte) (*Sheet, error) {
	text, enc, err := Decode(name, data)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyFile
	}

	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = sniffDelimiter(text)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV %s: %w", name, err)
	}
	return &Sheet{Grid: TextGrid(records), Kind: KindCSV, Encoding: enc}, nil
}

var delimiters = []rune{',', ';', '\t', '|'}

// sniffDelimiter picks the most frequent delimiter on the first non-blank
// line. Ties go to the earlier entry of delimiters.
func sniffDelimiter(text string) rune {
	line := ""
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			line = l
			break
		}
	}

	best, bestCount := ',', 0
	for _, d := range delimiters {
		if n := strings.Count(line, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}
