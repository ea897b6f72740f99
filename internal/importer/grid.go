package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/tracker-spend/spendtrack/internal/model"
)

// Cell is one grid value. Date is set when the source stored a typed date.
type Cell struct {
	Text string
	Date time.Time
}

// Empty reports whether the cell carries no value.
func (c Cell) Empty() bool {
	return c.Date.IsZero() && strings.TrimSpace(c.Text) == ""
}

// String returns the trimmed text, or the ISO date for typed dates.
func (c Cell) String() string {
	if !c.Date.IsZero() && c.Text == "" {
		return c.Date.Format(model.DateLayout)
	}
	return strings.TrimSpace(c.Text)
}

// Grid is a header-less table of cells. Rows may be ragged.
type Grid [][]Cell

// TextGrid wraps plain string records.
func TextGrid(records [][]string) Grid {
	g := make(Grid, len(records))
	for i, rec := range records {
		row := make([]Cell, len(rec))
		for j, v := range rec {
			row[j] = Cell{Text: v}
		}
		g[i] = row
	}
	return g
}

func blankRow(row []Cell) bool {
	for _, c := range row {
		if !c.Empty() {
			return false
		}
	}
	return true
}

// Labels returns the trimmed cell texts of a row.
func Labels(row []Cell) []string {
	labels := make([]string, len(row))
	for i, c := range row {
		labels[i] = c.String()
	}
	return labels
}

// RawRow is one data row keyed by the header labels.
type RawRow struct {
	Index  int // 1-based among non-blank data rows
	Line   int // 0-based grid row
	Labels []string
	Cells  []Cell
}

// Cell returns the cell at column i, or an empty cell for short rows.
func (r RawRow) Cell(i int) Cell {
	if i < 0 || i >= len(r.Cells) {
		return Cell{}
	}
	return r.Cells[i]
}

// Map renders the row as label to text. Unnamed columns are keyed by position.
func (r RawRow) Map() map[string]string {
	m := make(map[string]string, len(r.Labels))
	for i, label := range r.Labels {
		if label == "" {
			label = fmt.Sprintf("column_%d", i+1)
		}
		if _, dup := m[label]; dup {
			continue
		}
		m[label] = r.Cell(i).String()
	}
	return m
}

// Header is the located header row of a grid.
type Header struct {
	Row    int // 0-based grid row, -1 when not found
	Labels []string
}

// Found reports whether a header row was located.
func (h Header) Found() bool {
	return h.Row >= 0
}

var notFound = Header{Row: -1}

// LocateHeader finds the header row. Text sources use their first non-blank
// row. Spreadsheets may carry metadata above the header, so the first window
// rows are scanned: a modern-bank header wins, otherwise the first row that
// names both a date and an amount column.
func LocateHeader(g Grid, kind SourceKind, window int) Header {
	if kind != KindSpreadsheet {
		for i, row := range g {
			if !blankRow(row) {
				return Header{Row: i, Labels: Labels(row)}
			}
		}
		return notFound
	}

	limit := min(window, len(g))
	for i := 0; i < limit; i++ {
		if labels := Labels(g[i]); isModernBankHeader(labels) {
			return Header{Row: i, Labels: labels}
		}
	}
	for i := 0; i < limit; i++ {
		if blankRow(g[i]) {
			continue
		}
		labels := Labels(g[i])
		if hasSynonym(labels, FieldDate) && hasSynonym(labels, FieldAmount) {
			return Header{Row: i, Labels: labels}
		}
	}
	return notFound
}

// Rows builds the keyed data rows below the header. Blank rows are dropped.
func (h Header) Rows(g Grid) []RawRow {
	if !h.Found() {
		return nil
	}
	var rows []RawRow
	for i := h.Row + 1; i < len(g); i++ {
		if blankRow(g[i]) {
			continue
		}
		rows = append(rows, RawRow{
			Index:  len(rows) + 1,
			Line:   i,
			Labels: h.Labels,
			Cells:  g[i],
		})
	}
	return rows
}
