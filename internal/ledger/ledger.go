package ledger

import (
	"context"
	"errors"
)

// ErrAccountNotFound occurs when an operation references an account number that is
// not present in the store.
var ErrAccountNotFound = errors.New("account not found")

// Store defines the contract implemented by account storage backends (e.g. Postgres).
// Implementations hold no business rules: they never compute balances and report
// absence as found=false rather than an error.
type Store interface {
	// Put inserts the account when its ID is zero, assigning a fresh identifier that
	// is never reused, or fully replaces the record stored under its ID otherwise.
	Put(ctx context.Context, account Account) (Account, error)
	GetByID(ctx context.Context, id int64) (Account, bool, error)
	// ListAll returns every stored account ordered by identifier.
	ListAll(ctx context.Context) ([]Account, error)
	// DeleteByID removes the account if present; deleting an absent id is a no-op.
	DeleteByID(ctx context.Context, id int64) error
	ExistsByID(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)
}
