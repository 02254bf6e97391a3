package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/tubachi/tokenledger/internal/api"
	"github.com/tubachi/tokenledger/internal/api/cron"
	v1 "github.com/tubachi/tokenledger/internal/api/v1"
	"github.com/tubachi/tokenledger/internal/cache"
	"github.com/tubachi/tokenledger/internal/config"
	"github.com/tubachi/tokenledger/internal/gateway/tilopay"
	"github.com/tubachi/tokenledger/internal/httpclient"
	"github.com/tubachi/tokenledger/internal/logger"
	"github.com/tubachi/tokenledger/internal/postgres"
	"github.com/tubachi/tokenledger/internal/repository"
	"github.com/tubachi/tokenledger/internal/service"
	"github.com/tubachi/tokenledger/internal/validator"
)

// @title TokenLedger API
// @version 1.0
// @description Token ledger and subscription lifecycle service
// @BasePath /v1
// @schemes http https

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	app := fx.New(
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.NewInMemoryCache,

			// Postgres
			postgres.NewDB,
			providePostgresClient,

			// HTTP client and payment gateway
			httpclient.NewDefaultClient,
			tilopay.NewClient,

			// Repositories
			repository.NewLedgerRepository,
			repository.NewPlanRepository,
			repository.NewPlanPeriodRepository,
			repository.NewAccountRepository,

			// Services
			service.NewServiceParams,
			service.NewTokenService,
			service.NewPlanService,
			service.NewSubscriptionService,
			service.NewAccountService,
			service.NewResetService,

			// API
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)
	app.Run()
}

func providePostgresClient(db *postgres.DB) postgres.IClient {
	return db
}

func provideHandlers(
	logger *logger.Logger,
	tokenService service.TokenService,
	planService service.PlanService,
	subscriptionService service.SubscriptionService,
	accountService service.AccountService,
	resetService service.ResetService,
	gateway tilopay.Client,
) api.Handlers {
	return api.Handlers{
		Health:    v1.NewHealthHandler(),
		Token:     v1.NewTokenHandler(tokenService, logger),
		Plan:      v1.NewPlanHandler(planService, subscriptionService, logger),
		Account:   v1.NewAccountHandler(accountService, logger),
		Payment:   v1.NewPaymentHandler(subscriptionService, gateway, logger),
		TokenCron: cron.NewTokenCronHandler(logger, resetService),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration) *gin.Engine {
	return api.NewRouter(handlers, cfg)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	db *postgres.DB,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down server")
			db.Close()
			return nil
		},
	})
}
