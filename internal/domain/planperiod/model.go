package planperiod

import (
	"time"

	ierr "github.com/tubachi/tokenledger/internal/errors"
	"github.com/tubachi/tokenledger/internal/types"
)

// PlanPeriod records which plan was active for a user over a span of time
// and why it changed. Periods for a user must not overlap, and at most one
// period per user is open (EndDate nil, or in the future for a scheduled
// cancellation). Periods are closed, never deleted.
type PlanPeriod struct {
	ID             string     `db:"id" json:"id"`
	UserID         string     `db:"user_id" json:"user_id"`
	PlanID         string     `db:"plan_id" json:"plan_id"`
	StartDate      time.Time  `db:"start_date" json:"start_date"`
	EndDate        *time.Time `db:"end_date" json:"end_date,omitempty"`
	ChangeReason   string     `db:"change_reason" json:"change_reason"`
	ExternalTxnRef *string    `db:"external_txn_ref" json:"external_txn_ref,omitempty"`
	types.BaseModel
}

func (p *PlanPeriod) TableName() string {
	return "plan_periods"
}

// IsCurrent reports whether the period still grants entitlement at the given
// instant. A period with a future EndDate (scheduled cancellation) is still
// current.
func (p *PlanPeriod) IsCurrent(now time.Time) bool {
	return p.EndDate == nil || p.EndDate.After(now)
}

func (p *PlanPeriod) Validate() error {
	if p.UserID == "" {
		return ierr.NewError("user_id is required").
			WithHint("Plan periods must belong to a user").
			Mark(ierr.ErrValidation)
	}

	if p.PlanID == "" {
		return ierr.NewError("plan_id is required").
			WithHint("Plan periods must reference a plan").
			Mark(ierr.ErrValidation)
	}

	if p.StartDate.IsZero() {
		return ierr.NewError("start_date is required").
			WithHint("Plan periods must have a start date").
			Mark(ierr.ErrValidation)
	}

	if p.EndDate != nil && p.EndDate.Before(p.StartDate) {
		return ierr.NewError("end_date must not precede start_date").
			WithHint("Plan periods must not end before they start").
			Mark(ierr.ErrValidation)
	}

	return nil
}
