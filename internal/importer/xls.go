package importer

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/shakinm/xlsReader/xls"
	"github.com/shakinm/xlsReader/xls/record"
	"github.com/shakinm/xlsReader/xls/structure"
	"golang.org/x/text/encoding/charmap"
)

// XLSLoader reads the first worksheet of a legacy BIFF workbook.
type XLSLoader struct{}

// Extensions implements Loader.
func (l *XLSLoader) Extensions() []string {
	return []string{".xls"}
}

// Load reads cell text. Numeric cells whose XF carries a date format become
// typed dates. Compressed BIFF8 strings come back as raw Latin-1 bytes and
// are decoded here.
func (l *XLSLoader) Load(name string, data []byte) (*Sheet, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", name, err)
	}
	if len(wb.GetSheets()) == 0 {
		return nil, ErrNoSheets
	}
	sheet, err := wb.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("reading first sheet of %s: %w", name, err)
	}

	formats := xlsFormats{wb: &wb, cache: make(map[int]bool)}
	var grid Grid
	for _, row := range sheet.GetRows() {
		var cells []Cell
		for _, c := range row.GetCols() {
			cells = append(cells, formats.cell(c))
		}
		grid = append(grid, cells)
	}
	return &Sheet{Grid: grid, Kind: KindSpreadsheet}, nil
}

// xlsFormats memoizes whether an XF index renders dates.
type xlsFormats struct {
	wb    *xls.Workbook
	cache map[int]bool
}

func (f xlsFormats) cell(c structure.CellData) Cell {
	switch c.(type) {
	case *record.Number, *record.Rk:
		if f.isDate(c.GetXFIndex()) {
			if cell, ok := serialDate(c.GetFloat64()); ok {
				return cell
			}
		}
	}
	text := c.GetString()
	if !utf8.ValidString(text) {
		if decoded, err := charmap.ISO8859_1.NewDecoder().String(text); err == nil {
			text = decoded
		}
	}
	return Cell{Text: text}
}

func (f xlsFormats) isDate(xf int) bool {
	if v, ok := f.cache[xf]; ok {
		return v
	}
	v := f.lookup(xf)
	f.cache[xf] = v
	return v
}

func (f xlsFormats) lookup(xf int) (date bool) {
	// GetXFbyIndex indexes past the end of short XF tables.
	defer func() {
		if recover() != nil {
			date = false
		}
	}()
	idx := f.wb.GetXFbyIndex(xf)
	fmtIndex := idx.GetFormatIndex()
	format := f.wb.GetFormatByIndex(fmtIndex)
	if code := format.String(); code != "" {
		return isDateNumFmt(fmtIndex, &code)
	}
	return isDateNumFmt(fmtIndex, nil)
}
