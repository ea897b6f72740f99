package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/tracker-spend/spendtrack/internal/categorize"
	"github.com/tracker-spend/spendtrack/internal/model"
)

// DefaultScanRows is the spreadsheet header search window.
const DefaultScanRows = 25

// Pipeline parses one statement file at a time. A Pipeline holds no per-file
// state and may be shared.
type Pipeline struct {
	Registry    *Registry
	Categorizer *categorize.Categorizer
	Logger      zerolog.Logger
	ScanRows    int
}

// NewPipeline returns a Pipeline over the default loaders. A nil cat means
// the default rules.
func NewPipeline(cat *categorize.Categorizer, log zerolog.Logger) *Pipeline {
	if cat == nil {
		cat = categorize.Default()
	}
	return &Pipeline{
		Registry:    DefaultRegistry(),
		Categorizer: cat,
		Logger:      log,
		ScanRows:    DefaultScanRows,
	}
}

// Options adjusts a single parse.
type Options struct {
	Format model.Format // skips detection when set
}

// Result is everything learned about one file.
type Result struct {
	File         string
	Kind         SourceKind
	Encoding     string
	Format       model.Format
	Header       Header
	Columns      Columns
	Rows         int
	Transactions []model.Transaction
	Rejects      []model.Reject
}

// Report returns the validation report of the parsed batch.
func (r *Result) Report() model.Report {
	return Validate(r.Transactions, r.Rejects)
}

// ParseFile reads and parses the file at path.
func (p *Pipeline) ParseFile(path string, opts Options) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return p.Parse(filepath.Base(path), data, opts)
}

// Parse runs the whole pipeline over data. Row problems become rejects;
// only file-level problems are returned as errors. A header that cannot be
// located yields a Result with no rows.
func (p *Pipeline) Parse(name string, data []byte, opts Options) (*Result, error) {
	res, rows, err := p.locate(name, data, opts)
	if err != nil {
		return nil, err
	}
	log := p.Logger.With().Str("file", name).Logger()

	if !res.Header.Found() {
		log.Warn().Int("scan_rows", p.scanRows()).Msg("header row not found")
		res.Transactions, res.Rejects = []model.Transaction{}, []model.Reject{}
		return res, nil
	}
	if missing := res.Columns.Missing(); len(missing) > 0 {
		log.Warn().Interface("missing", fieldList(missing)).Msg("required columns not found; every row will be skipped")
	}

	res.Transactions, res.Rejects = Assemble(rows, res.Columns, p.Categorizer)
	for _, rej := range res.Rejects {
		log.Warn().Int("row", rej.Row).Str("reason", string(rej.Reason)).Str("detail", rej.Detail).Msg("row skipped")
	}
	log.Info().
		Str("format", string(res.Format)).
		Str("encoding", res.Encoding).
		Int("header_row", res.Header.Row).
		Int("transactions", len(res.Transactions)).
		Int("rejected", len(res.Rejects)).
		Msg("statement parsed")
	return res, nil
}

// Detect loads data and locates its header without assembling rows.
func (p *Pipeline) Detect(name string, data []byte) (*Result, error) {
	res, _, err := p.locate(name, data, Options{})
	return res, err
}

func (p *Pipeline) locate(name string, data []byte, opts Options) (*Result, []RawRow, error) {
	if len(data) == 0 {
		return nil, nil, fmt.Errorf("%s: %w", name, ErrEmptyFile)
	}

	sheet, err := p.Registry.For(name).Load(name, data)
	if err != nil {
		if errors.Is(err, ErrEmptyFile) {
			return nil, nil, fmt.Errorf("%s: %w", name, err)
		}
		return nil, nil, err
	}
	if blankGrid(sheet.Grid) {
		return nil, nil, fmt.Errorf("%s: %w", name, ErrEmptyFile)
	}

	res := &Result{
		File:     name,
		Kind:     sheet.Kind,
		Encoding: sheet.Encoding,
		Header:   LocateHeader(sheet.Grid, sheet.Kind, p.scanRows()),
	}
	if !res.Header.Found() {
		res.Format = opts.Format
		if res.Format == "" {
			res.Format = model.FormatStandard
		}
		res.Columns = ResolveColumns(nil, res.Format)
		return res, nil, nil
	}

	res.Format = opts.Format
	if res.Format == "" {
		res.Format = DetectFormat(res.Header.Labels)
	}
	res.Columns = ResolveColumns(res.Header.Labels, res.Format)
	rows := res.Header.Rows(sheet.Grid)
	res.Rows = len(rows)
	return res, rows, nil
}

func (p *Pipeline) scanRows() int {
	if p.ScanRows <= 0 {
		return DefaultScanRows
	}
	return p.ScanRows
}

func blankGrid(g Grid) bool {
	for _, row := range g {
		if !blankRow(row) {
			return false
		}
	}
	return true
}

func fieldList(fields []Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.String()
	}
	return out
}
