package cron

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tubachi/tokenledger/internal/logger"
	"github.com/tubachi/tokenledger/internal/service"
)

// TokenCronHandler exposes the monthly reset job to the external scheduler.
type TokenCronHandler struct {
	logger       *logger.Logger
	resetService service.ResetService
}

func NewTokenCronHandler(logger *logger.Logger, resetService service.ResetService) *TokenCronHandler {
	return &TokenCronHandler{
		logger:       logger,
		resetService: resetService,
	}
}

// ResetMonthlyTokens refills every stale account to its plan quota and
// downgrades lapsed subscriptions. Individual skips are reported in the
// payload, the batch itself always succeeds.
func (h *TokenCronHandler) ResetMonthlyTokens(c *gin.Context) {
	h.logger.Infow("starting monthly token reset cron job")

	resp, err := h.resetService.ResetMonthlyTokens(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
