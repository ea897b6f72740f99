// Package importlog keeps the append-only audit trail of import batches in
// logs/import-log.csv.
package importlog

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
)

// Path is the log file relative to the repo root.
const Path = "logs/import-log.csv"

// Entry is one import batch.
type Entry struct {
	Timestamp  time.Time `csv:"-"`
	BatchID    string    `csv:"batch_id"`
	Source     string    `csv:"source"`
	File       string    `csv:"file"`
	Encoding   string    `csv:"encoding"`
	Format     string    `csv:"format"`
	Inserted   int       `csv:"inserted"`
	Duplicates int       `csv:"duplicates"`
	Rejected   int       `csv:"rejected"`
	CommitHash string    `csv:"commit_hash"`
}

type row struct {
	Timestamp string `csv:"timestamp"`
	Entry
}

// Append writes entries to <repoRoot>/logs/import-log.csv, creating the file
// and header if needed.
func Append(repoRoot string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	path := filepath.Join(repoRoot, Path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	needsHeader := true
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		needsHeader = false
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	rows := make([]row, len(entries))
	for i, e := range entries {
		rows[i] = row{Timestamp: e.Timestamp.UTC().Format(time.RFC3339), Entry: e}
	}

	if needsHeader {
		err = gocsv.Marshal(rows, f)
	} else {
		err = gocsv.MarshalWithoutHeaders(rows, f)
	}
	if err != nil {
		return fmt.Errorf("writing import log: %w", err)
	}
	return nil
}

// Read returns all entries from <repoRoot>/logs/import-log.csv.
// Returns an empty slice if the file does not exist.
func Read(repoRoot string) ([]Entry, error) {
	data, err := os.ReadFile(filepath.Join(repoRoot, Path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var rows []row
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, fmt.Errorf("reading import log CSV: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for i, r := range rows {
		ts, err := time.Parse(time.RFC3339, r.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing timestamp %q: %w", i+2, r.Timestamp, err)
		}
		e := r.Entry
		e.Timestamp = ts
		entries = append(entries, e)
	}
	return entries, nil
}

// SetCommit fills in the commit hash of every entry of a batch.
func SetCommit(entries []Entry, hash string) {
	for i := range entries {
		entries[i].CommitHash = hash
	}
}
