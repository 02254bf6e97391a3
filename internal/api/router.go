package api

import (
	"github.com/gin-gonic/gin"

	"github.com/tubachi/tokenledger/internal/api/cron"
	v1 "github.com/tubachi/tokenledger/internal/api/v1"
	"github.com/tubachi/tokenledger/internal/config"
	"github.com/tubachi/tokenledger/internal/rest/middleware"
	"github.com/tubachi/tokenledger/internal/types"
)

type Handlers struct {
	Health    *v1.HealthHandler
	Token     *v1.TokenHandler
	Plan      *v1.PlanHandler
	Account   *v1.AccountHandler
	Payment   *v1.PaymentHandler
	TokenCron *cron.TokenCronHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration) *gin.Engine {
	if cfg.Deployment.Mode == types.ModeProd {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.ErrorHandler(),
	)

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	tokens := router.Group("/tokens")
	{
		tokens.POST("/consume", handlers.Token.Consume)
		tokens.POST("/credit", handlers.Token.Credit)
		tokens.GET("/balance", handlers.Token.GetBalance)
		tokens.GET("/transactions", handlers.Token.ListTransactions)
	}

	plans := router.Group("/plans")
	{
		plans.POST("", handlers.Plan.CreatePlan)
		plans.GET("", handlers.Plan.ListActivePlans)
		plans.GET("/history", handlers.Plan.GetHistory)
		plans.POST("/change", handlers.Plan.ChangePlan)
		plans.POST("/cancel", handlers.Plan.CancelPlan)
	}

	accounts := router.Group("/accounts")
	{
		accounts.POST("", handlers.Account.CreateAccount)
		accounts.GET("/:id", handlers.Account.GetAccount)
	}

	webhooks := router.Group("/webhooks/tilopay")
	{
		webhooks.GET("/subscribe", handlers.Payment.HandleSubscribe)
		webhooks.POST("/payment", handlers.Payment.HandlePayment)
		webhooks.POST("/rejected", handlers.Payment.HandleRejected)
		webhooks.POST("/unsubscribe", handlers.Payment.HandleUnsubscribe)
		webhooks.POST("/reactive", handlers.Payment.HandleReactive)
	}

	cronGroup := router.Group("/cron")
	{
		cronGroup.GET("/tokens/reset", handlers.TokenCron.ResetMonthlyTokens)
	}
}
