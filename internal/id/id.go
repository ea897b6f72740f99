package id

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatTxnID returns a transaction ID like "2025-01-001".
func FormatTxnID(year, month, seq int) string {
	return fmt.Sprintf("%04d-%02d-%03d", year, month, seq)
}

// ParseTxnID parses "2025-01-001" into year, month, seq.
func ParseTxnID(id string) (year, month, seq int, err error) {
	parts := strings.SplitN(id, "-", 3)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid transaction ID format: %q", id)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year in transaction ID %q: %w", id, err)
	}

	month, err = strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, 0, fmt.Errorf("invalid month in transaction ID %q", id)
	}

	seq, err = strconv.Atoi(parts[2])
	if err != nil || seq < 1 {
		return 0, 0, 0, fmt.Errorf("invalid sequence in transaction ID %q", id)
	}

	return year, month, seq, nil
}

// MonthKey returns the "YYYY-MM" sequence bucket for t.
func MonthKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// Sequencer hands out per-month sequence numbers. Not safe for concurrent use.
type Sequencer struct {
	last map[string]int
}

func NewSequencer() *Sequencer {
	return &Sequencer{last: make(map[string]int)}
}

// Observe records an existing ID so Next never reissues it.
func (s *Sequencer) Observe(id string) error {
	year, month, seq, err := ParseTxnID(id)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("%04d-%02d", year, month)
	if seq > s.last[key] {
		s.last[key] = seq
	}
	return nil
}

// Next returns the next ID in the month of t.
func (s *Sequencer) Next(t time.Time) string {
	key := MonthKey(t)
	s.last[key]++
	return FormatTxnID(t.Year(), int(t.Month()), s.last[key])
}
