package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/tracker-spend/spendtrack/internal/importer"
	"github.com/tracker-spend/spendtrack/internal/importlog"
	"github.com/tracker-spend/spendtrack/internal/ingest"
	"github.com/tracker-spend/spendtrack/internal/ledger"
	"github.com/tracker-spend/spendtrack/internal/logger"
	"github.com/tracker-spend/spendtrack/internal/model"
)

type importFlags struct {
	format  string
	dryRun  bool
	jsonOut bool
}

func newImportCommand(opts *globalOptions) *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import bank statements into the ledger",
		Long: "Import CSV, XLSX and XLS bank statements. With no arguments every\n" +
			"supported file in import/ is imported and moved to import/processed/.",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(cmd, opts)
			if err != nil {
				return err
			}
			store, err := ledger.Open(p.root)
			if err != nil {
				return err
			}
			return runImport(cmd, p, store, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "", "statement format, skipping detection (standard, bank_layout_a, bank_layout_b, bank_layout_c, modern_bank)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "parse and validate without writing")
	cmd.Flags().BoolVar(&flags.jsonOut, "json", false, "print the validation reports as JSON")

	return cmd
}

// fileOutcome is one row of the import summary.
type fileOutcome struct {
	File       string        `json:"file"`
	BatchID    string        `json:"batch_id,omitempty"`
	Encoding   string        `json:"encoding,omitempty"`
	Format     model.Format  `json:"format,omitempty"`
	Inserted   int           `json:"inserted"`
	Duplicates int           `json:"duplicates"`
	Error      string        `json:"error,omitempty"`
	Details    []string      `json:"details,omitempty"`
	Report     *model.Report `json:"report,omitempty"`
}

// runImport imports each file in order. File errors are reported and skipped.
// A store failure stops the run after what was already written is logged and
// committed.
func runImport(cmd *cobra.Command, p *project, store ingest.Store, args []string, flags importFlags) error {
	var opts importer.Options
	if flags.format == "" {
		flags.format = p.cfg.Import.Format
	}
	if flags.format != "" {
		f, err := model.ParseFormat(flags.format)
		if err != nil {
			return err
		}
		opts.Format = f
	}

	cat, err := p.categorizer()
	if err != nil {
		return err
	}
	pipe := importer.NewPipeline(cat, p.log)
	pipe.ScanRows = p.cfg.Import.ScanRows

	paths := args
	fromInbox := len(args) == 0
	if fromInbox {
		files, err := importer.Scan(p.root, pipe.Registry)
		if err != nil {
			return err
		}
		for _, f := range files {
			paths = append(paths, f.Path)
		}
		if len(paths) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No statements to import in import/")
			return nil
		}
	}

	var (
		outcomes []fileOutcome
		logs     []importlog.Entry
		failed   int
		stopErr  error
	)
	for _, path := range paths {
		batchID := uuid.NewString()
		out := fileOutcome{File: filepath.Base(path), BatchID: batchID}
		log := logger.WithFields(p.log, map[string]interface{}{"batch_id": batchID, "file": out.File})
		ctx := logger.WithContext(ingest.WithBatchID(p.ctx, batchID), log)

		res, err := ingest.ImportFile(ctx, pipe, store, path, opts, flags.dryRun)

		var (
			ferr *ingest.FileError
			perr *ingest.PersistenceError
		)
		switch {
		case errors.As(err, &ferr):
			failed++
			out.Error, out.Details = ferr.Reason, ferr.Details
			log.Error().Strs("details", ferr.Details).Msg(ferr.Reason)
			outcomes = append(outcomes, out)
			continue
		case errors.As(err, &perr):
			failed++
			out.Error, out.Details = "saving transactions failed", []string{perr.Err.Error()}
			out.Inserted, out.Duplicates = perr.Summary.Inserted, perr.Summary.Duplicates
			log.Error().Err(perr.Err).Int("inserted", out.Inserted).Msg("saving transactions failed")
			outcomes = append(outcomes, out)
			logs = append(logs, logEntry(out, res))
			stopErr = fmt.Errorf("import of %s stopped: %w", out.File, err)
		case err != nil:
			return err
		}
		if stopErr != nil {
			break
		}

		report := res.Report
		out.Encoding = res.Parse.Encoding
		out.Format = res.Parse.Format
		out.Inserted = res.Summary.Inserted
		out.Duplicates = res.Summary.Duplicates
		out.Report = &report
		outcomes = append(outcomes, out)

		if flags.dryRun {
			continue
		}
		logs = append(logs, logEntry(out, res))
		if fromInbox {
			if err := importer.MarkProcessed(p.root, out.File); err != nil {
				return err
			}
		}
	}

	if !flags.dryRun && len(logs) > 0 {
		hash, err := p.commit(fmt.Sprintf("import: %d file(s), %d transaction(s)", len(logs), inserted(outcomes)))
		if err != nil {
			p.log.Warn().Err(err).Msg("auto-commit failed")
		}
		importlog.SetCommit(logs, hash)
		if err := importlog.Append(p.root, logs); err != nil {
			p.log.Warn().Err(err).Msg("failed to write import log")
		}
	}

	w := cmd.OutOrStdout()
	if flags.jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(outcomes); err != nil {
			return err
		}
	} else {
		printImportTable(w, outcomes, flags.dryRun)
	}

	if stopErr != nil {
		return stopErr
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) could not be imported", failed, len(paths))
	}
	return nil
}

// logEntry records the outcome of one imported file. A partial import keeps
// the counts written before the failure.
func logEntry(out fileOutcome, res *ingest.FileResult) importlog.Entry {
	e := importlog.Entry{
		Timestamp:  time.Now().UTC(),
		BatchID:    out.BatchID,
		Source:     string(model.SourceFile),
		File:       out.File,
		Inserted:   out.Inserted,
		Duplicates: out.Duplicates,
	}
	if res != nil && res.Parse != nil {
		e.Encoding = res.Parse.Encoding
		e.Format = string(res.Parse.Format)
		e.Rejected = len(res.Parse.Rejects)
	}
	return e
}

func inserted(outcomes []fileOutcome) int {
	n := 0
	for _, o := range outcomes {
		n += o.Inserted
	}
	return n
}

func printImportTable(w io.Writer, outcomes []fileOutcome, dryRun bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault

	saved := "Imported"
	if dryRun {
		saved = "Valid"
	}
	t.AppendHeader(table.Row{"File", "Format", "Encoding", saved, "Duplicates", "Rejected"})

	for _, o := range outcomes {
		if o.Error != "" {
			if o.Inserted > 0 || o.Duplicates > 0 {
				t.AppendRow(table.Row{o.File, text.FgRed.Sprint(o.Error), "", o.Inserted, o.Duplicates, ""})
			} else {
				t.AppendRow(table.Row{o.File, text.FgRed.Sprint(o.Error), "", "", "", ""})
			}
			continue
		}
		valid := o.Inserted
		if dryRun {
			valid = o.Report.Stats.TotalTransactions
		}
		t.AppendRow(table.Row{o.File, o.Format, o.Encoding, valid, o.Duplicates, o.Report.Stats.ErrorsCount})
	}
	t.Render()

	for _, o := range outcomes {
		details := o.Details
		if o.Report != nil {
			details = o.Report.Stats.Errors
		}
		for _, d := range details {
			fmt.Fprintf(w, "  %s: %s\n", o.File, d)
		}
	}
}
