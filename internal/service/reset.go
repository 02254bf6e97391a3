package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tubachi/tokenledger/internal/api/dto"
	"github.com/tubachi/tokenledger/internal/domain/account"
	"github.com/tubachi/tokenledger/internal/domain/ledger"
	"github.com/tubachi/tokenledger/internal/domain/planperiod"
	ierr "github.com/tubachi/tokenledger/internal/errors"
	"github.com/tubachi/tokenledger/internal/types"
)

// ResetService runs the monthly batch reconciliation: refill every stale
// account to its plan quota and downgrade users whose paid period has lapsed.
type ResetService interface {
	ResetMonthlyTokens(ctx context.Context) (*dto.TokenResetResponse, error)
}

type resetService struct {
	ServiceParams
}

func NewResetService(params ServiceParams) ResetService {
	return &resetService{
		ServiceParams: params,
	}
}

// ResetMonthlyTokens processes every account whose last reset is at least one
// calendar month old. Each user runs in its own atomic unit; a failure or
// skip for one user never rolls back another. Re-running immediately is a
// no-op because the cutoff selects only stale accounts.
func (s *resetService) ResetMonthlyTokens(ctx context.Context) (*dto.TokenResetResponse, error) {
	now := time.Now().UTC()
	accounts, err := s.AccountRepo.ListDueForReset(ctx, types.OneBillingMonthAgo(now))
	if err != nil {
		return nil, err
	}

	resp := &dto.TokenResetResponse{Total: len(accounts)}
	for _, acc := range accounts {
		if err := s.resetUser(ctx, acc.ID, now); err != nil {
			s.Logger.Warnw("skipping user in monthly token reset",
				"user_id", acc.ID,
				"error", err,
			)
			resp.Skipped++
			resp.SkippedID = append(resp.SkippedID, acc.ID)
			continue
		}
		resp.Succeeded++
	}

	s.Logger.Infow("monthly token reset finished",
		"total", resp.Total,
		"succeeded", resp.Succeeded,
		"skipped", resp.Skipped,
	)
	return resp, nil
}

func (s *resetService) resetUser(ctx context.Context, userID string, now time.Time) error {
	return s.DB.WithTx(ctx, func(ctx context.Context) error {
		acc, err := s.AccountRepo.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		// Another run may have reset this user since the list was read.
		if acc.LastTokenReset.After(types.OneBillingMonthAgo(now)) {
			return nil
		}

		last, err := s.PeriodRepo.GetLast(ctx, userID)
		if err != nil {
			if ierr.IsNotFound(err) {
				return ierr.NewError("user has no plan history").
					WithHint("User has no plan history").
					Mark(ierr.ErrInvalidOperation)
			}
			return err
		}

		if last.EndDate != nil && !last.EndDate.After(now) {
			if err := s.downgradeToFree(ctx, acc, now); err != nil {
				return err
			}
		}

		plan, err := s.PlanRepo.Get(ctx, acc.PlanID)
		if err != nil {
			return err
		}
		if !plan.IsActive {
			return ierr.NewError("current plan is not active").
				WithHintf("Plan %s is no longer offered", plan.Name).
				Mark(ierr.ErrInvalidOperation)
		}

		balance, err := s.LedgerRepo.BalanceForUser(ctx, userID)
		if err != nil {
			return err
		}
		txn := &ledger.TokenTransaction{
			ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TOKEN_TRANSACTION),
			UserID:      userID,
			Amount:      plan.TokensPerMonth - balance,
			Kind:        types.TransactionKindMonthlyCredit,
			Description: fmt.Sprintf("Monthly token reset (%s)", plan.Name),
			BaseModel:   types.GetDefaultBaseModel(ctx),
		}
		if err := s.LedgerRepo.Create(ctx, txn); err != nil {
			return err
		}

		acc.TokenBalance = plan.TokensPerMonth
		acc.LastTokenReset = now
		return s.AccountRepo.Update(ctx, acc)
	})
}

// downgradeToFree opens a new period on the free plan for a user whose paid
// period has lapsed. The lapsed period already carries its end date, so only
// the new one is written.
func (s *resetService) downgradeToFree(ctx context.Context, acc *account.Account, now time.Time) error {
	freePlan, err := s.PlanRepo.GetByExternalID(ctx, s.Config.Plan.FreePlanExternalID)
	if err != nil {
		return err
	}
	if acc.PlanID == freePlan.ID {
		return nil
	}

	period := &planperiod.PlanPeriod{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN_PERIOD),
		UserID:       acc.ID,
		PlanID:       freePlan.ID,
		StartDate:    now,
		ChangeReason: types.ChangeReasonAutoDowngradeFree,
		BaseModel:    types.GetDefaultBaseModel(ctx),
	}
	if err := s.PeriodRepo.Create(ctx, period); err != nil {
		return err
	}

	s.Logger.Infow("auto-downgraded lapsed subscription to free plan",
		"user_id", acc.ID,
		"free_plan_id", freePlan.ID,
	)

	acc.PlanID = freePlan.ID
	return nil
}
