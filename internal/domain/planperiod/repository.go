package planperiod

import (
	"context"
	"time"
)

// Repository defines the interface for plan period persistence.
type Repository interface {
	// Create inserts a new open period. The caller must have closed the
	// prior open period first, in the same atomic unit.
	Create(ctx context.Context, period *PlanPeriod) error

	// Update rewrites the mutable fields of an existing period (end date and
	// change reason).
	Update(ctx context.Context, period *PlanPeriod) error

	// CloseOpen sets EndDate = at on the user's currently open period(s).
	// It is a no-op when none is open, and closes all open rows should a
	// prior inconsistency have left more than one.
	CloseOpen(ctx context.Context, userID string, at time.Time) error

	// GetOpen returns the row with EndDate null, or ErrNotFound.
	GetOpen(ctx context.Context, userID string) (*PlanPeriod, error)

	// GetLast returns the most recent period by start date, open or closed,
	// or ErrNotFound.
	GetLast(ctx context.Context, userID string) (*PlanPeriod, error)

	// ListByUser returns the user's full period history, newest first.
	ListByUser(ctx context.Context, userID string) ([]*PlanPeriod, error)
}
