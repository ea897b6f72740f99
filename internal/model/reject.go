package model

import "fmt"

// RejectReason is a machine-checkable code for a row that did not assemble.
type RejectReason string

const (
	RejectMissingDate        RejectReason = "missing_date"
	RejectMissingDescription RejectReason = "missing_description"
	RejectMissingAmount      RejectReason = "missing_or_zero_amount"
)

// Reject records one rejected data row. Row is 1-based.
type Reject struct {
	Row    int
	Reason RejectReason
	Detail string
}

func (r Reject) Error() string {
	if r.Detail == "" {
		return fmt.Sprintf("row %d: %s", r.Row, r.Reason)
	}
	return fmt.Sprintf("row %d: %s (%s)", r.Row, r.Reason, r.Detail)
}
