package service

import (
	"github.com/tubachi/tokenledger/internal/config"
	"github.com/tubachi/tokenledger/internal/domain/account"
	"github.com/tubachi/tokenledger/internal/domain/ledger"
	"github.com/tubachi/tokenledger/internal/domain/plan"
	"github.com/tubachi/tokenledger/internal/domain/planperiod"
	"github.com/tubachi/tokenledger/internal/logger"
	"github.com/tubachi/tokenledger/internal/postgres"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient

	// Repositories
	LedgerRepo  ledger.Repository
	PlanRepo    plan.Repository
	PeriodRepo  planperiod.Repository
	AccountRepo account.Repository
}

// NewServiceParams assembles the common service dependencies
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	ledgerRepo ledger.Repository,
	planRepo plan.Repository,
	periodRepo planperiod.Repository,
	accountRepo account.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:      logger,
		Config:      config,
		DB:          db,
		LedgerRepo:  ledgerRepo,
		PlanRepo:    planRepo,
		PeriodRepo:  periodRepo,
		AccountRepo: accountRepo,
	}
}
