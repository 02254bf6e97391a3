package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tubachi/tokenledger/internal/api/dto"
	"github.com/tubachi/tokenledger/internal/domain/ledger"
	"github.com/tubachi/tokenledger/internal/domain/planperiod"
	ierr "github.com/tubachi/tokenledger/internal/errors"
	"github.com/tubachi/tokenledger/internal/types"
)

// SubscriptionService manages the plan period history: which plan a user is
// on, when it changed, and when a scheduled cancellation takes effect.
type SubscriptionService interface {
	ChangePlan(ctx context.Context, req dto.ChangePlanRequest) (*dto.ChangePlanResponse, error)
	CancelPlan(ctx context.Context, userID string) (*dto.CancelPlanResponse, error)
	GetHistory(ctx context.Context, userID string) (*dto.PlanHistoryResponse, error)
}

type subscriptionService struct {
	ServiceParams
}

func NewSubscriptionService(params ServiceParams) SubscriptionService {
	return &subscriptionService{
		ServiceParams: params,
	}
}

// ChangePlan moves a user to a new plan: the open period closes, a new one
// opens, the account's plan and balance are rewritten and the initial quota
// lands in the ledger, all in one atomic unit. It is the landing point for
// payment webhooks, which identify the user by email.
func (s *subscriptionService) ChangePlan(ctx context.Context, req dto.ChangePlanRequest) (*dto.ChangePlanResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var resp *dto.ChangePlanResponse
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		userID := req.UserID
		if userID == "" {
			acc, err := s.AccountRepo.GetByEmail(ctx, req.Email)
			if err != nil {
				return err
			}
			userID = acc.ID
		}

		acc, err := s.AccountRepo.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		newPlan, err := s.PlanRepo.GetByExternalID(ctx, req.ExternalPlanID)
		if err != nil {
			return err
		}
		if !newPlan.IsActive {
			return ierr.NewError("plan is not active").
				WithHintf("Plan %s is no longer offered", newPlan.Name).
				Mark(ierr.ErrNotFound)
		}

		open, err := s.PeriodRepo.GetOpen(ctx, userID)
		if err != nil && !ierr.IsNotFound(err) {
			return err
		}
		if open != nil && open.PlanID == newPlan.ID {
			return ierr.NewError("plan already active").
				WithHintf("Plan %s is already active for this user", newPlan.Name).
				Mark(ierr.ErrAlreadyExists)
		}

		now := time.Now().UTC()
		if err := s.PeriodRepo.CloseOpen(ctx, userID, now); err != nil {
			return err
		}

		reason := req.Reason
		if reason == "" {
			reason = fmt.Sprintf("Plan changed to %s", newPlan.Name)
		}
		period := &planperiod.PlanPeriod{
			ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN_PERIOD),
			UserID:         userID,
			PlanID:         newPlan.ID,
			StartDate:      now,
			ChangeReason:   reason,
			ExternalTxnRef: req.ExternalTxnRef,
			BaseModel:      types.GetDefaultBaseModel(ctx),
		}
		if err := s.PeriodRepo.Create(ctx, period); err != nil {
			return err
		}

		acc.PlanID = newPlan.ID
		acc.TokenBalance = newPlan.TokensPerMonth
		acc.LastTokenReset = now
		if err := s.AccountRepo.Update(ctx, acc); err != nil {
			return err
		}

		// The new quota replaces whatever was left, so the credit is the
		// difference between the new quota and the ledger balance.
		balance, err := s.LedgerRepo.BalanceForUser(ctx, userID)
		if err != nil {
			return err
		}
		txn := &ledger.TokenTransaction{
			ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TOKEN_TRANSACTION),
			UserID:      userID,
			Amount:      newPlan.TokensPerMonth - balance,
			Kind:        types.TransactionKindManualAdjustment,
			Description: fmt.Sprintf("Plan change: initial credit (%s)", newPlan.Name),
			BaseModel:   types.GetDefaultBaseModel(ctx),
		}
		if err := s.LedgerRepo.Create(ctx, txn); err != nil {
			return err
		}

		resp = &dto.ChangePlanResponse{
			UserID:         userID,
			PlanID:         newPlan.ID,
			ExternalPlanID: newPlan.ExternalPlanID,
			PlanName:       newPlan.Name,
			Balance:        newPlan.TokensPerMonth,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("plan changed",
		"user_id", resp.UserID,
		"plan_id", resp.PlanID,
		"external_plan_id", resp.ExternalPlanID,
	)
	return resp, nil
}

// CancelPlan schedules the cancellation at the natural end of the current
// billing cycle; access is not revoked immediately. No ledger entry is
// appended, this is period metadata only.
func (s *subscriptionService) CancelPlan(ctx context.Context, userID string) (*dto.CancelPlanResponse, error) {
	if userID == "" {
		return nil, ierr.NewError("user_id is required").
			WithHint("User id is required").
			Mark(ierr.ErrValidation)
	}

	var resp *dto.CancelPlanResponse
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		acc, err := s.AccountRepo.Get(ctx, userID)
		if err != nil {
			return err
		}

		open, err := s.PeriodRepo.GetOpen(ctx, userID)
		if err != nil {
			if ierr.IsNotFound(err) {
				return ierr.NewError("no active plan to cancel").
					WithHint("There is no active plan to cancel").
					Mark(ierr.ErrInvalidOperation)
			}
			return err
		}

		now := time.Now().UTC()
		months := types.ElapsedBillingMonths(open.StartDate, now)
		cancelAt := types.AddBillingMonths(open.StartDate, months)

		open.EndDate = &cancelAt
		open.ChangeReason = types.ChangeReasonCancelScheduled
		if err := s.PeriodRepo.Update(ctx, open); err != nil {
			return err
		}

		externalPlanID := 0
		if p, err := s.PlanRepo.Get(ctx, acc.PlanID); err == nil {
			externalPlanID = p.ExternalPlanID
		}

		resp = &dto.CancelPlanResponse{
			ExternalPlanID: externalPlanID,
			Email:          acc.Email,
			CancelAt:       cancelAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("plan cancellation scheduled",
		"user_id", userID,
		"cancel_at", resp.CancelAt,
	)
	return resp, nil
}

func (s *subscriptionService) GetHistory(ctx context.Context, userID string) (*dto.PlanHistoryResponse, error) {
	if userID == "" {
		return nil, ierr.NewError("user_id is required").
			WithHint("User id is required").
			Mark(ierr.ErrValidation)
	}

	periods, err := s.PeriodRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.PlanHistoryResponse{
		Items: make([]*dto.PlanPeriodResponse, 0, len(periods)),
	}
	for _, p := range periods {
		resp.Items = append(resp.Items, dto.NewPlanPeriodResponse(p))
	}
	return resp, nil
}
