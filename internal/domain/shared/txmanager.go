package shared

import "context"

// TxManager runs a function within a single database transaction.
// Repositories called with the context passed to fn join that
// transaction; any returned error rolls everything back.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
