package ledger

import (
	"context"

	"github.com/tubachi/tokenledger/internal/types"
)

// Repository defines the interface for token ledger persistence. The ledger
// is append-only: there is no update or delete.
type Repository interface {
	// Create appends a new ledger entry. It participates in the caller's
	// atomic unit when one is in flight.
	Create(ctx context.Context, txn *TokenTransaction) error

	// BalanceForUser returns the signed sum of all entries for the user.
	BalanceForUser(ctx context.Context, userID string) (int64, error)

	// ListByUser returns the user's entries, newest first.
	ListByUser(ctx context.Context, userID string, filter *types.Filter) ([]*TokenTransaction, error)
}
