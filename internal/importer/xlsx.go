package importer

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/tracker-spend/spendtrack/internal/model"
)

// XLSXLoader reads the first worksheet of an Office Open XML workbook.
type XLSXLoader struct{}

// Extensions implements Loader.
func (l *XLSXLoader) Extensions() []string {
	return []string{".xlsx", ".xlsm"}
}

// Load reads raw cell values. Numeric cells styled with a date format become
// typed dates.
func (l *XLSXLoader) Load(name string, data []byte) (*Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q of %s: %w", sheet, name, err)
	}

	dates := dateStyles{f: f, cache: make(map[int]bool)}
	grid := make(Grid, len(rows))
	for r, row := range rows {
		cells := make([]Cell, len(row))
		for c, v := range row {
			cells[c] = Cell{Text: v}
			serial, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil || !dates.isDate(sheet, axis) {
				continue
			}
			if cell, ok := serialDate(serial); ok {
				cells[c] = cell
			}
		}
		grid[r] = cells
	}
	return &Sheet{Grid: grid, Kind: KindSpreadsheet}, nil
}

// serialDate converts an Excel 1900-system serial to a typed date cell.
func serialDate(serial float64) (Cell, bool) {
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return Cell{}, false
	}
	t = t.Round(time.Minute)
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return Cell{Text: day.Format(model.DateLayout), Date: day}, true
}

// dateStyles memoizes whether a style id renders dates.
type dateStyles struct {
	f     *excelize.File
	cache map[int]bool
}

func (d dateStyles) isDate(sheet, axis string) bool {
	id, err := d.f.GetCellStyle(sheet, axis)
	if err != nil || id == 0 {
		return false
	}
	if ct, err := d.f.GetCellType(sheet, axis); err == nil &&
		(ct == excelize.CellTypeSharedString || ct == excelize.CellTypeInlineString) {
		return false
	}
	if v, ok := d.cache[id]; ok {
		return v
	}
	style, err := d.f.GetStyle(id)
	v := err == nil && style != nil && isDateNumFmt(style.NumFmt, style.CustomNumFmt)
	d.cache[id] = v
	return v
}

// isDateNumFmt reports whether a built-in or custom number format shows a
// calendar date.
func isDateNumFmt(id int, custom *string) bool {
	switch {
	case id >= 14 && id <= 22, id >= 27 && id <= 36, id >= 50 && id <= 58:
		return true
	}
	if custom == nil {
		return false
	}
	code := strings.ToLower(*custom)
	// Drop quoted literals and bracketed sections such as colors or locales.
	var b strings.Builder
	inQuote, inBracket := false, false
	for _, r := range code {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case !inBracket:
			b.WriteRune(r)
		}
	}
	code = b.String()
	return strings.ContainsRune(code, 'd') || strings.ContainsRune(code, 'y')
}
