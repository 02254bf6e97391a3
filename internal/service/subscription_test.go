package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/tubachi/tokenledger/internal/api/dto"
	"github.com/tubachi/tokenledger/internal/domain/account"
	"github.com/tubachi/tokenledger/internal/domain/plan"
	"github.com/tubachi/tokenledger/internal/domain/planperiod"
	ierr "github.com/tubachi/tokenledger/internal/errors"
	"github.com/tubachi/tokenledger/internal/testutil"
	"github.com/tubachi/tokenledger/internal/types"
)

type SubscriptionServiceSuite struct {
	testutil.BaseServiceTestSuite
	service SubscriptionService

	freePlan    *plan.Plan
	premiumPlan *plan.Plan
	testAccount *account.Account
}

func TestSubscriptionService(t *testing.T) {
	suite.Run(t, new(SubscriptionServiceSuite))
}

func (s *SubscriptionServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	s.service = NewSubscriptionService(ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		DB:          s.GetDB(),
		LedgerRepo:  s.GetStores().LedgerRepo,
		PlanRepo:    s.GetStores().PlanRepo,
		PeriodRepo:  s.GetStores().PeriodRepo,
		AccountRepo: s.GetStores().AccountRepo,
	})

	s.freePlan = &plan.Plan{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN),
		ExternalPlanID: s.GetConfig().Plan.FreePlanExternalID,
		Name:           "Free",
		TokensPerMonth: 100,
		IsActive:       true,
		BaseModel:      types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().PlanRepo.Create(s.GetContext(), s.freePlan))

	s.premiumPlan = &plan.Plan{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN),
		ExternalPlanID: 200,
		Name:           "Premium",
		TokensPerMonth: 5000,
		IsActive:       true,
		BaseModel:      types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().PlanRepo.Create(s.GetContext(), s.premiumPlan))

	s.testAccount = &account.Account{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ACCOUNT),
		Email:          "user@example.com",
		Name:           "Test",
		Surname:        "User",
		PlanID:         s.freePlan.ID,
		TokenBalance:   0,
		LastTokenReset: time.Now().UTC(),
		BaseModel:      types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().AccountRepo.Create(s.GetContext(), s.testAccount))
}

func (s *SubscriptionServiceSuite) openPeriod(planID string, start time.Time) *planperiod.PlanPeriod {
	period := &planperiod.PlanPeriod{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN_PERIOD),
		UserID:       s.testAccount.ID,
		PlanID:       planID,
		StartDate:    start,
		ChangeReason: "initial_registration",
		BaseModel:    types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().PeriodRepo.Create(s.GetContext(), period))
	return period
}

func (s *SubscriptionServiceSuite) TestChangePlan() {
	s.openPeriod(s.freePlan.ID, time.Now().UTC().AddDate(0, -1, 0))

	resp, err := s.service.ChangePlan(s.GetContext(), dto.ChangePlanRequest{
		UserID:         s.testAccount.ID,
		ExternalPlanID: s.premiumPlan.ExternalPlanID,
	})
	s.NoError(err)
	s.Equal(s.premiumPlan.ID, resp.PlanID)
	s.Equal(s.premiumPlan.TokensPerMonth, resp.Balance)

	// Exactly one open period remains, on the new plan
	periodStore := s.GetStores().PeriodRepo.(*testutil.InMemoryPlanPeriodStore)
	s.Equal(1, periodStore.OpenCount(s.testAccount.ID))

	open, err := s.GetStores().PeriodRepo.GetOpen(s.GetContext(), s.testAccount.ID)
	s.NoError(err)
	s.Equal(s.premiumPlan.ID, open.PlanID)

	// Account and ledger agree on the new quota
	acc, err := s.GetStores().AccountRepo.Get(s.GetContext(), s.testAccount.ID)
	s.NoError(err)
	s.Equal(s.premiumPlan.ID, acc.PlanID)
	s.Equal(s.premiumPlan.TokensPerMonth, acc.TokenBalance)

	balance, err := s.GetStores().LedgerRepo.BalanceForUser(s.GetContext(), s.testAccount.ID)
	s.NoError(err)
	s.Equal(acc.TokenBalance, balance)
}

func (s *SubscriptionServiceSuite) TestChangePlanByEmail() {
	s.openPeriod(s.freePlan.ID, time.Now().UTC())

	resp, err := s.service.ChangePlan(s.GetContext(), dto.ChangePlanRequest{
		Email:          s.testAccount.Email,
		ExternalPlanID: s.premiumPlan.ExternalPlanID,
	})
	s.NoError(err)
	s.Equal(s.testAccount.ID, resp.UserID)
	s.Equal(s.premiumPlan.ExternalPlanID, resp.ExternalPlanID)
}

func (s *SubscriptionServiceSuite) TestChangePlanAlreadyActive() {
	s.openPeriod(s.premiumPlan.ID, time.Now().UTC())

	ledgerStore := s.GetStores().LedgerRepo.(*testutil.InMemoryLedgerStore)
	countBefore := ledgerStore.CountForUser(s.testAccount.ID)

	_, err := s.service.ChangePlan(s.GetContext(), dto.ChangePlanRequest{
		UserID:         s.testAccount.ID,
		ExternalPlanID: s.premiumPlan.ExternalPlanID,
	})
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))

	// No new period, no transaction, no balance change
	periodStore := s.GetStores().PeriodRepo.(*testutil.InMemoryPlanPeriodStore)
	s.Equal(1, periodStore.OpenCount(s.testAccount.ID))
	s.Equal(countBefore, ledgerStore.CountForUser(s.testAccount.ID))

	acc, err := s.GetStores().AccountRepo.Get(s.GetContext(), s.testAccount.ID)
	s.NoError(err)
	s.Equal(int64(0), acc.TokenBalance)
}

func (s *SubscriptionServiceSuite) TestChangePlanUnknownPlan() {
	_, err := s.service.ChangePlan(s.GetContext(), dto.ChangePlanRequest{
		UserID:         s.testAccount.ID,
		ExternalPlanID: 999,
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *SubscriptionServiceSuite) TestCancelPlan() {
	start := time.Now().UTC().AddDate(0, -2, -5)
	s.openPeriod(s.premiumPlan.ID, start)

	resp, err := s.service.CancelPlan(s.GetContext(), s.testAccount.ID)
	s.NoError(err)
	s.Equal(s.testAccount.Email, resp.Email)
	s.Equal(s.freePlan.ExternalPlanID, resp.ExternalPlanID)
	s.True(resp.CancelAt.After(start))

	last, err := s.GetStores().PeriodRepo.GetLast(s.GetContext(), s.testAccount.ID)
	s.NoError(err)
	s.NotNil(last.EndDate)
	s.Equal(resp.CancelAt, *last.EndDate)
	s.Equal(types.ChangeReasonCancelScheduled, last.ChangeReason)
}

func (s *SubscriptionServiceSuite) TestCancelPlanSameDayLastsOneCycle() {
	start := time.Now().UTC()
	s.openPeriod(s.premiumPlan.ID, start)

	resp, err := s.service.CancelPlan(s.GetContext(), s.testAccount.ID)
	s.NoError(err)
	s.Equal(start.AddDate(0, 1, 0), resp.CancelAt)
}

func (s *SubscriptionServiceSuite) TestCancelPlanNoActivePlan() {
	_, err := s.service.CancelPlan(s.GetContext(), s.testAccount.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *SubscriptionServiceSuite) TestGetHistory() {
	old := s.openPeriod(s.freePlan.ID, time.Now().UTC().AddDate(0, -3, 0))
	end := time.Now().UTC().AddDate(0, -1, 0)
	old.EndDate = &end
	s.NoError(s.GetStores().PeriodRepo.Update(s.GetContext(), old))
	s.openPeriod(s.premiumPlan.ID, time.Now().UTC())

	resp, err := s.service.GetHistory(s.GetContext(), s.testAccount.ID)
	s.NoError(err)
	s.Len(resp.Items, 2)

	// Newest first
	s.Equal(s.premiumPlan.ID, resp.Items[0].PlanID)
	s.Equal(s.freePlan.ID, resp.Items[1].PlanID)
}
