package dto

import (
	"context"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/tubachi/tokenledger/internal/domain/plan"
	"github.com/tubachi/tokenledger/internal/domain/planperiod"
	"github.com/tubachi/tokenledger/internal/types"
	"github.com/tubachi/tokenledger/internal/validator"
)

type CreatePlanRequest struct {
	ExternalPlanID int             `json:"external_plan_id" validate:"required"`
	Name           string          `json:"name" validate:"required,max=255"`
	TokensPerMonth int64           `json:"tokens_per_month" validate:"gte=0"`
	PriceUSD       decimal.Decimal `json:"price_usd"`
	Features       []string        `json:"features"`
	IsActive       *bool           `json:"is_active"`
}

func (r *CreatePlanRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreatePlanRequest) ToPlan(ctx context.Context) *plan.Plan {
	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}
	return &plan.Plan{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN),
		ExternalPlanID: r.ExternalPlanID,
		Name:           r.Name,
		TokensPerMonth: r.TokensPerMonth,
		PriceUSD:       r.PriceUSD,
		Features:       pq.StringArray(r.Features),
		IsActive:       isActive,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
}

type PlanResponse struct {
	ID             string          `json:"id"`
	ExternalPlanID int             `json:"external_plan_id"`
	Name           string          `json:"name"`
	TokensPerMonth int64           `json:"tokens_per_month"`
	PriceUSD       decimal.Decimal `json:"price_usd"`
	Features       []string        `json:"features"`
	IsActive       bool            `json:"is_active"`
}

func NewPlanResponse(p *plan.Plan) *PlanResponse {
	return &PlanResponse{
		ID:             p.ID,
		ExternalPlanID: p.ExternalPlanID,
		Name:           p.Name,
		TokensPerMonth: p.TokensPerMonth,
		PriceUSD:       p.PriceUSD,
		Features:       []string(p.Features),
		IsActive:       p.IsActive,
	}
}

type ListPlansResponse struct {
	Items []*PlanResponse `json:"items"`
}

type PlanPeriodResponse struct {
	ID             string             `json:"id"`
	UserID         string             `json:"user_id"`
	PlanID         string             `json:"plan_id"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	ChangeReason   string     `json:"change_reason"`
	ExternalTxnRef *string    `json:"external_txn_ref,omitempty"`
}

func NewPlanPeriodResponse(p *planperiod.PlanPeriod) *PlanPeriodResponse {
	return &PlanPeriodResponse{
		ID:             p.ID,
		UserID:         p.UserID,
		PlanID:         p.PlanID,
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
		ChangeReason:   p.ChangeReason,
		ExternalTxnRef: p.ExternalTxnRef,
	}
}

type PlanHistoryResponse struct {
	Items []*PlanPeriodResponse `json:"items"`
}
