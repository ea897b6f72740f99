// Package ingest hands assembled transactions to a Store and turns file-level
// pipeline failures into user-facing errors.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tracker-spend/spendtrack/internal/importer"
	"github.com/tracker-spend/spendtrack/internal/logger"
	"github.com/tracker-spend/spendtrack/internal/model"
)

// Summary counts the outcome of one Import call.
type Summary struct {
	Total      int
	Inserted   int
	Duplicates int
	IDs        []string
}

// PersistenceError reports a store failure after Summary.Inserted rows were
// written.
type PersistenceError struct {
	Summary Summary
	Err     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting transactions (%d of %d inserted): %v", e.Summary.Inserted, e.Summary.Total, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Import inserts txns in order. Transactions whose external id already exists
// are counted as duplicates and skipped. Any other store error stops the batch.
func Import(ctx context.Context, store Store, txns []model.Transaction) (Summary, error) {
	log := logger.FromContext(ctx)
	sum := Summary{Total: len(txns)}

	for _, tx := range txns {
		if err := ctx.Err(); err != nil {
			return sum, &PersistenceError{Summary: sum, Err: err}
		}
		if tx.ExternalID != "" {
			exists, err := store.ExistsByExternalID(ctx, tx.ExternalID)
			if err != nil {
				return sum, &PersistenceError{Summary: sum, Err: err}
			}
			if exists {
				sum.Duplicates++
				log.Debug().Str("external_id", tx.ExternalID).Msg("already imported")
				continue
			}
		}

		id, err := store.Insert(ctx, tx)
		if errors.Is(err, ErrDuplicate) {
			sum.Duplicates++
			continue
		}
		if err != nil {
			return sum, &PersistenceError{Summary: sum, Err: err}
		}
		sum.Inserted++
		sum.IDs = append(sum.IDs, id)
	}
	return sum, nil
}

// FileError is a file-level import failure with optional per-row details.
type FileError struct {
	File    string
	Reason  string
	Details []string
	Err     error
}

func (e *FileError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.File, e.Reason)
	if len(e.Details) > 0 {
		msg += " (" + strings.Join(e.Details, "; ") + ")"
	}
	return msg
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// FileResult is the outcome of ImportFile.
type FileResult struct {
	Parse   *importer.Result
	Report  model.Report
	Summary Summary
}

// ImportFile parses path and, unless dryRun is set, persists every valid
// transaction. Rejected rows do not block the valid ones.
func ImportFile(ctx context.Context, p *importer.Pipeline, store Store, path string, opts importer.Options, dryRun bool) (*FileResult, error) {
	res, err := p.ParseFile(path, opts)
	if err != nil {
		return nil, asFileError(path, err)
	}
	if !res.Header.Found() {
		scan := p.ScanRows
		if scan <= 0 {
			scan = importer.DefaultScanRows
		}
		return nil, &FileError{
			File:   res.File,
			Reason: fmt.Sprintf("header row not found in the first %d rows", scan),
		}
	}

	report := res.Report()
	if len(res.Transactions) == 0 {
		return nil, &FileError{
			File:    res.File,
			Reason:  "no transactions found",
			Details: report.Stats.Errors,
		}
	}

	out := &FileResult{Parse: res, Report: report}
	if dryRun {
		out.Summary = Summary{Total: len(res.Transactions)}
		return out, nil
	}

	out.Summary, err = Import(ctx, store, res.Transactions)
	if err != nil {
		return out, err
	}
	return out, nil
}

func asFileError(path string, err error) error {
	var de *importer.DecodeError
	switch {
	case errors.As(err, &de):
		return &FileError{File: de.File, Reason: "unsupported text encoding", Details: []string{"tried " + strings.Join(de.Tried, ", ")}, Err: err}
	case errors.Is(err, importer.ErrEmptyFile):
		return &FileError{File: path, Reason: "file is empty", Err: err}
	case errors.Is(err, importer.ErrNoSheets):
		return &FileError{File: path, Reason: "workbook has no sheets", Err: err}
	}
	return &FileError{File: path, Reason: err.Error(), Err: err}
}
