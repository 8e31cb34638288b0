package repositories

import (
	"context"
)

// TransactionManager runs a unit of work inside one storage transaction.
type TransactionManager interface {
	// WithinTransaction runs fn with a context bound to a storage transaction. The
	// transaction commits when fn returns nil and rolls back otherwise. Calls nested
	// inside fn join the outer transaction.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
