package service

import (
	"context"

	"github.com/tubachi/tokenledger/internal/api/dto"
	"github.com/tubachi/tokenledger/internal/domain/ledger"
	ierr "github.com/tubachi/tokenledger/internal/errors"
	"github.com/tubachi/tokenledger/internal/types"
)

// TokenService owns the token ledger: every credit and debit goes through it
// as an immutable transaction, and the cached balance on the account is only
// ever written in the same atomic unit as the ledger entry it reflects.
type TokenService interface {
	Consume(ctx context.Context, req dto.ConsumeTokensRequest) (*dto.ConsumeTokensResponse, error)
	Credit(ctx context.Context, req dto.CreditTokensRequest) (*dto.CreditTokensResponse, error)
	GetBalance(ctx context.Context, userID string) (*dto.BalanceResponse, error)
	ListTransactions(ctx context.Context, userID string, filter *types.Filter) (*dto.ListTransactionsResponse, error)
}

type tokenService struct {
	ServiceParams
}

func NewTokenService(params ServiceParams) TokenService {
	return &tokenService{
		ServiceParams: params,
	}
}

// Consume debits tokens from a user. The balance check reads the ledger, not
// the cached balance, under a row lock on the account, so two concurrent
// consumes for the same user cannot both pass against the same stale value.
func (s *tokenService) Consume(ctx context.Context, req dto.ConsumeTokensRequest) (*dto.ConsumeTokensResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	amount := req.Amount
	if amount == 0 {
		amount = s.Config.Tokens.MessageCost
	}
	if amount <= 0 {
		return nil, ierr.NewError("consume amount must be positive").
			WithHint("Token amount must be greater than zero").
			Mark(ierr.ErrValidation)
	}

	description := req.Description
	if description == "" {
		description = "Message usage"
	}

	var resp *dto.ConsumeTokensResponse
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		acc, err := s.AccountRepo.GetForUpdate(ctx, req.UserID)
		if err != nil {
			return err
		}

		balance, err := s.LedgerRepo.BalanceForUser(ctx, req.UserID)
		if err != nil {
			return err
		}

		if balance < amount {
			return ierr.NewError("insufficient token balance").
				WithHint("Not enough tokens for this operation").
				WithReportableDetails(map[string]any{
					"balance":  balance,
					"required": amount,
				}).
				Mark(ierr.ErrInsufficientTokens)
		}

		txn := &ledger.TokenTransaction{
			ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TOKEN_TRANSACTION),
			UserID:      req.UserID,
			Amount:      -amount,
			Kind:        types.TransactionKindUsage,
			Description: description,
			BaseModel:   types.GetDefaultBaseModel(ctx),
		}
		if err := s.LedgerRepo.Create(ctx, txn); err != nil {
			return err
		}

		acc.TokenBalance = balance - amount
		if err := s.AccountRepo.Update(ctx, acc); err != nil {
			return err
		}

		resp = &dto.ConsumeTokensResponse{
			UserID:         req.UserID,
			TokensConsumed: amount,
			Balance:        acc.TokenBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("tokens consumed",
		"user_id", req.UserID,
		"amount", amount,
		"balance", resp.Balance,
	)
	return resp, nil
}

// Credit appends a manual adjustment and brings the cached balance back in
// line with the ledger.
func (s *tokenService) Credit(ctx context.Context, req dto.CreditTokensRequest) (*dto.CreditTokensResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	description := req.Description
	if description == "" {
		description = "Manual token credit"
	}

	var resp *dto.CreditTokensResponse
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		acc, err := s.AccountRepo.GetForUpdate(ctx, req.UserID)
		if err != nil {
			return err
		}

		balance, err := s.LedgerRepo.BalanceForUser(ctx, req.UserID)
		if err != nil {
			return err
		}

		txn := &ledger.TokenTransaction{
			ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TOKEN_TRANSACTION),
			UserID:      req.UserID,
			Amount:      req.Amount,
			Kind:        types.TransactionKindManualAdjustment,
			Description: description,
			BaseModel:   types.GetDefaultBaseModel(ctx),
		}
		if err := s.LedgerRepo.Create(ctx, txn); err != nil {
			return err
		}

		acc.TokenBalance = balance + req.Amount
		if err := s.AccountRepo.Update(ctx, acc); err != nil {
			return err
		}

		resp = &dto.CreditTokensResponse{
			UserID:  req.UserID,
			Balance: acc.TokenBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("tokens credited",
		"user_id", req.UserID,
		"amount", req.Amount,
		"balance", resp.Balance,
	)
	return resp, nil
}

// GetBalance returns the true ledger balance alongside the account's plan
// state.
func (s *tokenService) GetBalance(ctx context.Context, userID string) (*dto.BalanceResponse, error) {
	acc, err := s.AccountRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	balance, err := s.LedgerRepo.BalanceForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.BalanceResponse{
		UserID:         acc.ID,
		Balance:        balance,
		PlanID:         acc.PlanID,
		LastTokenReset: acc.LastTokenReset,
	}, nil
}

func (s *tokenService) ListTransactions(ctx context.Context, userID string, filter *types.Filter) (*dto.ListTransactionsResponse, error) {
	if userID == "" {
		return nil, ierr.NewError("user_id is required").
			WithHint("User id is required").
			Mark(ierr.ErrValidation)
	}

	txns, err := s.LedgerRepo.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListTransactionsResponse{
		Items: make([]*dto.TokenTransactionResponse, 0, len(txns)),
	}
	for _, txn := range txns {
		resp.Items = append(resp.Items, dto.NewTokenTransactionResponse(txn))
	}
	return resp, nil
}
