package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tubachi/tokenledger/internal/api/dto"
	"github.com/tubachi/tokenledger/internal/domain/account"
	"github.com/tubachi/tokenledger/internal/domain/ledger"
	"github.com/tubachi/tokenledger/internal/domain/planperiod"
	"github.com/tubachi/tokenledger/internal/types"
)

// AccountService creates and reads user accounts. New accounts start on the
// configured free plan with its monthly quota already credited.
type AccountService interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*dto.AccountResponse, error)
	GetAccount(ctx context.Context, id string) (*dto.AccountResponse, error)
}

type accountService struct {
	ServiceParams
}

func NewAccountService(params ServiceParams) AccountService {
	return &accountService{
		ServiceParams: params,
	}
}

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*dto.AccountResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	freePlan, err := s.PlanRepo.GetByExternalID(ctx, s.Config.Plan.FreePlanExternalID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	acc := &account.Account{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ACCOUNT),
		Email:          req.Email,
		Name:           req.Name,
		Surname:        req.Surname,
		PlanID:         freePlan.ID,
		TokenBalance:   freePlan.TokensPerMonth,
		LastTokenReset: now,
		DeviceID:       req.DeviceID,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
	if err := acc.Validate(); err != nil {
		return nil, err
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.AccountRepo.Create(ctx, acc); err != nil {
			return err
		}

		period := &planperiod.PlanPeriod{
			ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN_PERIOD),
			UserID:       acc.ID,
			PlanID:       freePlan.ID,
			StartDate:    now,
			ChangeReason: "initial_registration",
			BaseModel:    types.GetDefaultBaseModel(ctx),
		}
		if err := s.PeriodRepo.Create(ctx, period); err != nil {
			return err
		}

		txn := &ledger.TokenTransaction{
			ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TOKEN_TRANSACTION),
			UserID:      acc.ID,
			Amount:      freePlan.TokensPerMonth,
			Kind:        types.TransactionKindMonthlyCredit,
			Description: fmt.Sprintf("Initial credit (%s)", freePlan.Name),
			BaseModel:   types.GetDefaultBaseModel(ctx),
		}
		return s.LedgerRepo.Create(ctx, txn)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("account created", "account_id", acc.ID, "email", acc.Email)
	return dto.NewAccountResponse(acc), nil
}

func (s *accountService) GetAccount(ctx context.Context, id string) (*dto.AccountResponse, error) {
	acc, err := s.AccountRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewAccountResponse(acc), nil
}
