package domain

import "context"

// TxRunner executes fn inside one atomic unit against the persistent store.
// Mutating operations on a single tournament run through this so concurrent
// transitions serialise; the store adapter provides per-document transaction
// semantics and bounded retry for transient failures.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// NopTxRunner runs fn directly. Used by in-memory adapters and tests.
type NopTxRunner struct{}

func (NopTxRunner) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
