package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/tubachi/tokenledger/internal/api/dto"
	"github.com/tubachi/tokenledger/internal/domain/account"
	"github.com/tubachi/tokenledger/internal/domain/ledger"
	"github.com/tubachi/tokenledger/internal/domain/plan"
	ierr "github.com/tubachi/tokenledger/internal/errors"
	"github.com/tubachi/tokenledger/internal/testutil"
	"github.com/tubachi/tokenledger/internal/types"
)

type TokenServiceSuite struct {
	testutil.BaseServiceTestSuite
	service TokenService

	testPlan    *plan.Plan
	testAccount *account.Account
}

func TestTokenService(t *testing.T) {
	suite.Run(t, new(TokenServiceSuite))
}

func (s *TokenServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	s.service = NewTokenService(ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		DB:          s.GetDB(),
		LedgerRepo:  s.GetStores().LedgerRepo,
		PlanRepo:    s.GetStores().PlanRepo,
		PeriodRepo:  s.GetStores().PeriodRepo,
		AccountRepo: s.GetStores().AccountRepo,
	})

	s.testPlan = &plan.Plan{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN),
		ExternalPlanID: 100,
		Name:           "Premium",
		TokensPerMonth: 1000,
		IsActive:       true,
		BaseModel:      types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().PlanRepo.Create(s.GetContext(), s.testPlan))

	s.testAccount = &account.Account{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ACCOUNT),
		Email:          "user@example.com",
		Name:           "Test",
		Surname:        "User",
		PlanID:         s.testPlan.ID,
		TokenBalance:   0,
		LastTokenReset: time.Now().UTC(),
		BaseModel:      types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().AccountRepo.Create(s.GetContext(), s.testAccount))
}

// seedBalance credits the account's ledger and cache with the given amount
func (s *TokenServiceSuite) seedBalance(amount int64) {
	txn := &ledger.TokenTransaction{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TOKEN_TRANSACTION),
		UserID:      s.testAccount.ID,
		Amount:      amount,
		Kind:        types.TransactionKindMonthlyCredit,
		Description: "seed",
		BaseModel:   types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().LedgerRepo.Create(s.GetContext(), txn))

	s.testAccount.TokenBalance = amount
	s.NoError(s.GetStores().AccountRepo.Update(s.GetContext(), s.testAccount))
}

func (s *TokenServiceSuite) TestConsume() {
	s.seedBalance(5)

	resp, err := s.service.Consume(s.GetContext(), dto.ConsumeTokensRequest{
		UserID: s.testAccount.ID,
		Amount: 3,
	})
	s.NoError(err)
	s.Equal(int64(3), resp.TokensConsumed)
	s.Equal(int64(2), resp.Balance)

	// Cached balance matches the ledger sum
	acc, err := s.GetStores().AccountRepo.Get(s.GetContext(), s.testAccount.ID)
	s.NoError(err)
	s.Equal(int64(2), acc.TokenBalance)

	balance, err := s.GetStores().LedgerRepo.BalanceForUser(s.GetContext(), s.testAccount.ID)
	s.NoError(err)
	s.Equal(acc.TokenBalance, balance)
}

func (s *TokenServiceSuite) TestConsumeInsufficientBalance() {
	s.seedBalance(5)

	_, err := s.service.Consume(s.GetContext(), dto.ConsumeTokensRequest{
		UserID: s.testAccount.ID,
		Amount: 3,
	})
	s.NoError(err)

	ledgerStore := s.GetStores().LedgerRepo.(*testutil.InMemoryLedgerStore)
	countBefore := ledgerStore.CountForUser(s.testAccount.ID)

	// Second consume of 3 against a balance of 2 must fail without side
	// effects
	_, err = s.service.Consume(s.GetContext(), dto.ConsumeTokensRequest{
		UserID: s.testAccount.ID,
		Amount: 3,
	})
	s.Error(err)
	s.True(ierr.IsInsufficientTokens(err))

	s.Equal(countBefore, ledgerStore.CountForUser(s.testAccount.ID))

	acc, err := s.GetStores().AccountRepo.Get(s.GetContext(), s.testAccount.ID)
	s.NoError(err)
	s.Equal(int64(2), acc.TokenBalance)
}

func (s *TokenServiceSuite) TestConsumeDefaultsToMessageCost() {
	s.seedBalance(100)

	resp, err := s.service.Consume(s.GetContext(), dto.ConsumeTokensRequest{
		UserID: s.testAccount.ID,
	})
	s.NoError(err)
	s.Equal(s.GetConfig().Tokens.MessageCost, resp.TokensConsumed)
	s.Equal(100-s.GetConfig().Tokens.MessageCost, resp.Balance)
}

func (s *TokenServiceSuite) TestConsumeUnknownAccount() {
	_, err := s.service.Consume(s.GetContext(), dto.ConsumeTokensRequest{
		UserID: "user_missing",
		Amount: 1,
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *TokenServiceSuite) TestCredit() {
	s.seedBalance(5)

	resp, err := s.service.Credit(s.GetContext(), dto.CreditTokensRequest{
		UserID: s.testAccount.ID,
		Amount: 10,
	})
	s.NoError(err)
	s.Equal(int64(15), resp.Balance)

	balance, err := s.GetStores().LedgerRepo.BalanceForUser(s.GetContext(), s.testAccount.ID)
	s.NoError(err)
	s.Equal(int64(15), balance)
}

func (s *TokenServiceSuite) TestGetBalance() {
	s.seedBalance(42)

	resp, err := s.service.GetBalance(s.GetContext(), s.testAccount.ID)
	s.NoError(err)
	s.Equal(int64(42), resp.Balance)
	s.Equal(s.testPlan.ID, resp.PlanID)
}

func (s *TokenServiceSuite) TestListTransactions() {
	s.seedBalance(50)

	for i := 0; i < 3; i++ {
		_, err := s.service.Consume(s.GetContext(), dto.ConsumeTokensRequest{
			UserID: s.testAccount.ID,
			Amount: 5,
		})
		s.NoError(err)
	}

	resp, err := s.service.ListTransactions(s.GetContext(), s.testAccount.ID, &types.Filter{})
	s.NoError(err)
	s.Len(resp.Items, 4)

	var sum int64
	for _, item := range resp.Items {
		sum += item.Amount
	}
	s.Equal(int64(35), sum)
}
