package dto

import (
	"time"

	"github.com/tubachi/tokenledger/internal/validator"
)

type ChangePlanRequest struct {
	UserID         string  `json:"user_id" validate:"required_without=Email"`
	Email          string  `json:"email" validate:"required_without=UserID,omitempty,email"`
	ExternalPlanID int     `json:"external_plan_id" validate:"required"`
	Reason         string  `json:"reason" validate:"omitempty,max=255"`
	ExternalTxnRef *string `json:"external_txn_ref"`
}

func (r *ChangePlanRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type ChangePlanResponse struct {
	UserID         string `json:"user_id"`
	PlanID         string `json:"plan_id"`
	ExternalPlanID int    `json:"external_plan_id"`
	PlanName       string `json:"plan_name"`
	Balance        int64  `json:"balance"`
}

type CancelPlanRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

func (r *CancelPlanRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// CancelPlanResponse carries what the billing gateway needs to pause
// the subscription at the end of the current cycle.
type CancelPlanResponse struct {
	ExternalPlanID int       `json:"external_plan_id"`
	Email          string    `json:"email"`
	CancelAt       time.Time `json:"cancel_at"`
}
