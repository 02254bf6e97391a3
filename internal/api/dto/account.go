package dto

import (
	"time"

	"github.com/tubachi/tokenledger/internal/domain/account"
	"github.com/tubachi/tokenledger/internal/validator"
)

type CreateAccountRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Name     string  `json:"name" validate:"required,max=255"`
	Surname  string  `json:"surname" validate:"omitempty,max=255"`
	DeviceID *string `json:"device_id"`
}

func (r *CreateAccountRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type AccountResponse struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Surname        string    `json:"surname"`
	PlanID         string    `json:"plan_id"`
	TokenBalance   int64     `json:"token_balance"`
	LastTokenReset time.Time `json:"last_token_reset"`
}

func NewAccountResponse(acc *account.Account) *AccountResponse {
	return &AccountResponse{
		ID:             acc.ID,
		Email:          acc.Email,
		Name:           acc.Name,
		Surname:        acc.Surname,
		PlanID:         acc.PlanID,
		TokenBalance:   acc.TokenBalance,
		LastTokenReset: acc.LastTokenReset,
	}
}
