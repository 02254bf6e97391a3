package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/tubachi/tokenledger/internal/domain/account"
	"github.com/tubachi/tokenledger/internal/domain/plan"
	"github.com/tubachi/tokenledger/internal/domain/planperiod"
	"github.com/tubachi/tokenledger/internal/testutil"
	"github.com/tubachi/tokenledger/internal/types"
)

type ResetServiceSuite struct {
	testutil.BaseServiceTestSuite
	service ResetService

	freePlan    *plan.Plan
	premiumPlan *plan.Plan
}

func TestResetService(t *testing.T) {
	suite.Run(t, new(ResetServiceSuite))
}

func (s *ResetServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	s.service = NewResetService(ServiceParams{
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
}

func (s *ResetServiceSuite) seedAccount(email string, planID string, lastReset time.Time) *account.Account {
	acc := &account.Account{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ACCOUNT),
		Email:          email,
		Name:           "Test",
		PlanID:         planID,
		TokenBalance:   0,
		LastTokenReset: lastReset,
		BaseModel:      types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().AccountRepo.Create(s.GetContext(), acc))
	return acc
}

func (s *ResetServiceSuite) seedPeriod(userID, planID string, start time.Time, end *time.Time) {
	period := &planperiod.PlanPeriod{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN_PERIOD),
		UserID:       userID,
		PlanID:       planID,
		StartDate:    start,
		EndDate:      end,
		ChangeReason: "initial_registration",
		BaseModel:    types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().PeriodRepo.Create(s.GetContext(), period))
}

func (s *ResetServiceSuite) TestResetRefillsStaleAccount() {
	staleSince := time.Now().UTC().AddDate(0, -1, -1)
	acc := s.seedAccount("stale@example.com", s.premiumPlan.ID, staleSince)
	s.seedPeriod(acc.ID, s.premiumPlan.ID, staleSince, nil)

	resp, err := s.service.ResetMonthlyTokens(s.GetContext())
	s.NoError(err)
	s.Equal(1, resp.Total)
	s.Equal(1, resp.Succeeded)
	s.Equal(0, resp.Skipped)

	updated, err := s.GetStores().AccountRepo.Get(s.GetContext(), acc.ID)
	s.NoError(err)
	s.Equal(s.premiumPlan.TokensPerMonth, updated.TokenBalance)
	s.True(updated.LastTokenReset.After(staleSince))

	balance, err := s.GetStores().LedgerRepo.BalanceForUser(s.GetContext(), acc.ID)
	s.NoError(err)
	s.Equal(updated.TokenBalance, balance)
}

func (s *ResetServiceSuite) TestResetSkipsFreshAccount() {
	acc := s.seedAccount("fresh@example.com", s.premiumPlan.ID, time.Now().UTC())
	s.seedPeriod(acc.ID, s.premiumPlan.ID, time.Now().UTC(), nil)

	resp, err := s.service.ResetMonthlyTokens(s.GetContext())
	s.NoError(err)
	s.Equal(0, resp.Total)
}

func (s *ResetServiceSuite) TestResetIsIdempotent() {
	staleSince := time.Now().UTC().AddDate(0, -1, -1)
	acc := s.seedAccount("stale@example.com", s.premiumPlan.ID, staleSince)
	s.seedPeriod(acc.ID, s.premiumPlan.ID, staleSince, nil)

	first, err := s.service.ResetMonthlyTokens(s.GetContext())
	s.NoError(err)
	s.Equal(1, first.Succeeded)

	ledgerStore := s.GetStores().LedgerRepo.(*testutil.InMemoryLedgerStore)
	countAfterFirst := ledgerStore.CountForUser(acc.ID)

	// Immediate re-run finds no stale accounts and changes nothing
	second, err := s.service.ResetMonthlyTokens(s.GetContext())
	s.NoError(err)
	s.Equal(0, second.Total)
	s.Equal(countAfterFirst, ledgerStore.CountForUser(acc.ID))
}

func (s *ResetServiceSuite) TestResetDowngradesLapsedSubscription() {
	staleSince := time.Now().UTC().AddDate(0, -2, 0)
	acc := s.seedAccount("lapsed@example.com", s.premiumPlan.ID, staleSince)
	lapsedEnd := time.Now().UTC().AddDate(0, 0, -3)
	s.seedPeriod(acc.ID, s.premiumPlan.ID, staleSince, &lapsedEnd)

	resp, err := s.service.ResetMonthlyTokens(s.GetContext())
	s.NoError(err)
	s.Equal(1, resp.Succeeded)

	updated, err := s.GetStores().AccountRepo.Get(s.GetContext(), acc.ID)
	s.NoError(err)
	s.Equal(s.freePlan.ID, updated.PlanID)
	s.Equal(s.freePlan.TokensPerMonth, updated.TokenBalance)

	// A new open period on the free plan records the downgrade
	last, err := s.GetStores().PeriodRepo.GetLast(s.GetContext(), acc.ID)
	s.NoError(err)
	s.Equal(s.freePlan.ID, last.PlanID)
	s.Nil(last.EndDate)
	s.Equal(types.ChangeReasonAutoDowngradeFree, last.ChangeReason)

	// The credit is a monthly_credit for the free plan's quota
	balance, err := s.GetStores().LedgerRepo.BalanceForUser(s.GetContext(), acc.ID)
	s.NoError(err)
	s.Equal(s.freePlan.TokensPerMonth, balance)
}

func (s *ResetServiceSuite) TestResetSkipsUserWithoutHistory() {
	staleSince := time.Now().UTC().AddDate(0, -1, -1)
	noHistory := s.seedAccount("nohistory@example.com", s.premiumPlan.ID, staleSince)
	withHistory := s.seedAccount("ok@example.com", s.premiumPlan.ID, staleSince)
	s.seedPeriod(withHistory.ID, s.premiumPlan.ID, staleSince, nil)

	resp, err := s.service.ResetMonthlyTokens(s.GetContext())
	s.NoError(err)
	s.Equal(2, resp.Total)
	s.Equal(1, resp.Succeeded)
	s.Equal(1, resp.Skipped)
	s.Contains(resp.SkippedID, noHistory.ID)

	// The skip never blocks the other user's reset
	ok, err := s.GetStores().AccountRepo.Get(s.GetContext(), withHistory.ID)
	s.NoError(err)
	s.Equal(s.premiumPlan.TokensPerMonth, ok.TokenBalance)
}

func (s *ResetServiceSuite) TestResetSkipsInactivePlan() {
	retired := &plan.Plan{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN),
		ExternalPlanID: 300,
		Name:           "Retired",
		TokensPerMonth: 2000,
		IsActive:       false,
		BaseModel:      types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().PlanRepo.Create(s.GetContext(), retired))

	staleSince := time.Now().UTC().AddDate(0, -1, -1)
	acc := s.seedAccount("retired@example.com", retired.ID, staleSince)
	s.seedPeriod(acc.ID, retired.ID, staleSince, nil)

	resp, err := s.service.ResetMonthlyTokens(s.GetContext())
	s.NoError(err)
	s.Equal(1, resp.Skipped)

	// Balance untouched
	unchanged, err := s.GetStores().AccountRepo.Get(s.GetContext(), acc.ID)
	s.NoError(err)
	s.Equal(int64(0), unchanged.TokenBalance)
}
