// Package ledger is the CSV-backed transaction store.
package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/tracker-spend/spendtrack/internal/id"
	"github.com/tracker-spend/spendtrack/internal/ingest"
	"github.com/tracker-spend/spendtrack/internal/model"
)

// Path is the ledger file relative to the repo root.
const Path = "ledger/transactions.csv"

var _ ingest.Store = (*Ledger)(nil)

// Ledger appends transactions to a single CSV file. All writes go through one
// Ledger value; two Ledgers on the same file do not coordinate.
type Ledger struct {
	path string
	now  func() time.Time

	mu         sync.Mutex
	entries    []Entry
	byExternal map[string]string
	seq        *id.Sequencer
}

// Open loads the ledger under repoRoot. A missing file is an empty ledger.
func Open(repoRoot string) (*Ledger, error) {
	l := &Ledger{
		path:       filepath.Join(repoRoot, Path),
		now:        time.Now,
		byExternal: make(map[string]string),
		seq:        id.NewSequencer(),
	}

	entries, err := readFile(l.path)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if err := l.seq.Observe(e.ID); err != nil {
			return nil, fmt.Errorf("ledger %s: %w", l.path, err)
		}
		if ext := e.Transaction.ExternalID; ext != "" {
			l.byExternal[ext] = e.ID
		}
	}
	l.entries = entries
	return l, nil
}

func readFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading ledger: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var rows []record
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing ledger %s: %w", path, err)
	}

	entries := make([]Entry, 0, len(rows))
	for i, r := range rows {
		e, err := fromRecord(r)
		if err != nil {
			return nil, fmt.Errorf("ledger %s row %d: %w", path, i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ExistsByExternalID reports whether a transaction with externalID is stored.
func (l *Ledger) ExistsByExternalID(_ context.Context, externalID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.byExternal[externalID]
	return ok, nil
}

// Insert assigns the next ID in the transaction's month and appends it.
// Returns ingest.ErrDuplicate if the external id is already stored.
func (l *Ledger) Insert(ctx context.Context, tx model.Transaction) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if !tx.Amount.Equal(tx.Amount.Round(2)) {
		return "", fmt.Errorf("amount %s has more than two decimal places", tx.Amount)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if tx.ExternalID != "" {
		if _, ok := l.byExternal[tx.ExternalID]; ok {
			return "", ingest.ErrDuplicate
		}
	}

	e := Entry{
		ID:          l.seq.Next(tx.Date),
		BatchID:     ingest.BatchID(ctx),
		ImportedAt:  l.now().UTC().Truncate(time.Second),
		Transaction: tx,
	}
	if err := l.appendRecord(toRecord(e)); err != nil {
		return "", err
	}

	l.entries = append(l.entries, e)
	if tx.ExternalID != "" {
		l.byExternal[tx.ExternalID] = e.ID
	}
	return e.ID, nil
}

func (l *Ledger) appendRecord(r record) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}

	isNew := true
	if info, err := os.Stat(l.path); err == nil && info.Size() > 0 {
		isNew = false
	}

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	rows := []record{r}
	if isNew {
		err = gocsv.Marshal(rows, f)
	} else {
		err = gocsv.MarshalWithoutHeaders(rows, f)
	}
	if err != nil {
		return fmt.Errorf("appending to ledger: %w", err)
	}
	return nil
}

// All returns every stored entry in insertion order.
func (l *Ledger) All() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Transactions returns every stored transaction in insertion order.
func (l *Ledger) Transactions() []model.Transaction {
	entries := l.All()
	out := make([]model.Transaction, len(entries))
	for i, e := range entries {
		out[i] = e.Transaction
	}
	return out
}

// Len returns the number of stored entries.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
