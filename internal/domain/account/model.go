package account

import (
	"time"

	ierr "github.com/tubachi/tokenledger/internal/errors"
	"github.com/tubachi/tokenledger/internal/types"
)

// Account holds a user's denormalized entitlement state: the cached token
// balance, the current plan reference and the last monthly reset. Immediately
// after any committed engine operation the cached balance equals the signed
// sum of the user's ledger entries.
type Account struct {
	ID             string    `db:"id" json:"id"`
	Email          string    `db:"email" json:"email"`
	Name           string    `db:"name" json:"name"`
	Surname        string    `db:"surname" json:"surname"`
	PlanID         string    `db:"plan_id" json:"plan_id"`
	TokenBalance   int64     `db:"token_balance" json:"token_balance"`
	LastTokenReset time.Time `db:"last_token_reset" json:"last_token_reset"`
	DeviceID       *string   `db:"device_id" json:"device_id,omitempty"`
	types.BaseModel
}

func (a *Account) TableName() string {
	return "accounts"
}

func (a *Account) Validate() error {
	if a.Email == "" {
		return ierr.NewError("email is required").
			WithHint("Accounts must have an email").
			Mark(ierr.ErrValidation)
	}

	if a.TokenBalance < 0 {
		return ierr.NewError("token_balance must not be negative").
			WithHint("Account balances can never go below zero").
			Mark(ierr.ErrValidation)
	}

	return nil
}
