package ingest

import (
	"context"
	"errors"

	"github.com/tracker-spend/spendtrack/internal/model"
)

//go:generate mockgen -destination=mocks/mock_store.go -source=store.go Store

// ErrDuplicate is returned by a Store when an insert collides with an
// existing external id.
var ErrDuplicate = errors.New("duplicate external id")

// Store persists canonical transactions. Implementations enforce uniqueness of
// non-empty external ids and serialize their own writes.
type Store interface {
	ExistsByExternalID(ctx context.Context, externalID string) (bool, error)
	Insert(ctx context.Context, tx model.Transaction) (string, error)
}

type batchKey struct{}

// WithBatchID tags every insert made with ctx with an import batch id.
func WithBatchID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, batchKey{}, id)
}

// BatchID returns the batch id carried by ctx, or "".
func BatchID(ctx context.Context) string {
	id, _ := ctx.Value(batchKey{}).(string)
	return id
}
