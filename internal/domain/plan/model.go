package plan

import (
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	ierr "github.com/tubachi/tokenledger/internal/errors"
	"github.com/tubachi/tokenledger/internal/types"
)

// Plan is near-immutable catalog data describing a subscription plan. The
// ExternalPlanID is the integer key the billing gateway uses in webhooks.
type Plan struct {
	ID             string          `db:"id" json:"id"`
	ExternalPlanID int             `db:"external_plan_id" json:"external_plan_id"`
	Name           string          `db:"name" json:"name"`
	TokensPerMonth int64           `db:"tokens_per_month" json:"tokens_per_month"`
	PriceUSD       decimal.Decimal `db:"price_usd" json:"price_usd" swaggertype:"string"`
	Features       pq.StringArray  `db:"features" json:"features" swaggertype:"array,string"`
	IsActive       bool            `db:"is_active" json:"is_active"`
	types.BaseModel
}

func (p *Plan) TableName() string {
	return "plans"
}

func (p *Plan) Validate() error {
	if p.Name == "" {
		return ierr.NewError("name is required").
			WithHint("Plan name is required").
			Mark(ierr.ErrValidation)
	}

	if p.TokensPerMonth < 0 {
		return ierr.NewError("tokens_per_month must not be negative").
			WithHint("Monthly token quota must not be negative").
			Mark(ierr.ErrValidation)
	}

	if p.PriceUSD.IsNegative() {
		return ierr.NewError("price_usd must not be negative").
			WithHint("Plan price must not be negative").
			Mark(ierr.ErrValidation)
	}

	return nil
}
