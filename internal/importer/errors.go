package importer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyFile is returned when a file holds no non-blank rows.
var ErrEmptyFile = errors.New("empty file")

// ErrNoSheets is returned for a workbook without worksheets.
var ErrNoSheets = errors.New("workbook has no sheets")

// DecodeError reports that no candidate encoding could decode a file.
type DecodeError struct {
	File  string
	Tried []string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s: no candidate encoding succeeded (tried %s)", e.File, strings.Join(e.Tried, ", "))
}
