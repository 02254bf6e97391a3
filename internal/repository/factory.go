package repository

import (
	"github.com/tubachi/tokenledger/internal/cache"
	"github.com/tubachi/tokenledger/internal/domain/account"
	"github.com/tubachi/tokenledger/internal/domain/ledger"
	"github.com/tubachi/tokenledger/internal/domain/plan"
	"github.com/tubachi/tokenledger/internal/domain/planperiod"
	"github.com/tubachi/tokenledger/internal/logger"
	"github.com/tubachi/tokenledger/internal/postgres"
	pgrepo "github.com/tubachi/tokenledger/internal/repository/postgres"
)

// NewLedgerRepository creates the token transaction store
func NewLedgerRepository(db *postgres.DB, logger *logger.Logger) ledger.Repository {
	return pgrepo.NewLedgerRepository(db, logger)
}

// NewPlanRepository creates the plan catalog store
func NewPlanRepository(db *postgres.DB, logger *logger.Logger, cache cache.Cache) plan.Repository {
	return pgrepo.NewPlanRepository(db, logger, cache)
}

// NewPlanPeriodRepository creates the plan history store
func NewPlanPeriodRepository(db *postgres.DB, logger *logger.Logger) planperiod.Repository {
	return pgrepo.NewPlanPeriodRepository(db, logger)
}

// NewAccountRepository creates the account store
func NewAccountRepository(db *postgres.DB, logger *logger.Logger) account.Repository {
	return pgrepo.NewAccountRepository(db, logger)
}
