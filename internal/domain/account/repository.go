package account

import (
	"context"
	"time"
)

// Repository defines the interface for account persistence.
type Repository interface {
	Create(ctx context.Context, a *Account) error
	Get(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)

	// GetForUpdate reads the account row under a row lock. Must be called
	// inside an atomic unit; the lock serializes concurrent balance
	// decisions for the same user until that unit commits or aborts.
	GetForUpdate(ctx context.Context, id string) (*Account, error)

	// Update rewrites the account's mutable entitlement fields (plan ref,
	// cached balance, last reset).
	Update(ctx context.Context, a *Account) error

	// ListDueForReset returns accounts whose last token reset is at or
	// before the given cutoff.
	ListDueForReset(ctx context.Context, cutoff time.Time) ([]*Account, error)
}
