package datagateway

import "context"

type Tx interface {
	Commit(ctx context.Context) error
	// Rollback aborts the transaction. Calling it after Commit is a no-op.
	Rollback(ctx context.Context) error
}
