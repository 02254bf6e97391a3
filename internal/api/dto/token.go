package dto

import (
	"time"

	"github.com/tubachi/tokenledger/internal/domain/ledger"
	"github.com/tubachi/tokenledger/internal/types"
	"github.com/tubachi/tokenledger/internal/validator"
)

type ConsumeTokensRequest struct {
	UserID      string `json:"user_id" validate:"required"`
	Amount      int64  `json:"amount" validate:"omitempty,gt=0"`
	Description string `json:"description" validate:"omitempty,max=255"`
}

func (r *ConsumeTokensRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type ConsumeTokensResponse struct {
	UserID         string `json:"user_id"`
	TokensConsumed int64  `json:"tokens_consumed"`
	Balance        int64  `json:"balance"`
}

type CreditTokensRequest struct {
	UserID      string `json:"user_id" validate:"required"`
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	Description string `json:"description" validate:"omitempty,max=255"`
}

func (r *CreditTokensRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type CreditTokensResponse struct {
	UserID  string `json:"user_id"`
	Balance int64  `json:"balance"`
}

type BalanceResponse struct {
	UserID         string    `json:"user_id"`
	Balance        int64     `json:"balance"`
	PlanID         string    `json:"plan_id"`
	LastTokenReset time.Time `json:"last_token_reset"`
}

type TokenTransactionResponse struct {
	ID          string                `json:"id"`
	UserID      string                `json:"user_id"`
	Amount      int64                 `json:"amount"`
	Kind        types.TransactionKind `json:"kind"`
	Description string                `json:"description"`
	CreatedAt   time.Time             `json:"created_at"`
}

func NewTokenTransactionResponse(txn *ledger.TokenTransaction) *TokenTransactionResponse {
	return &TokenTransactionResponse{
		ID:          txn.ID,
		UserID:      txn.UserID,
		Amount:      txn.Amount,
		Kind:        txn.Kind,
		Description: txn.Description,
		CreatedAt:   txn.CreatedAt,
	}
}

type ListTransactionsResponse struct {
	Items []*TokenTransactionResponse `json:"items"`
}
