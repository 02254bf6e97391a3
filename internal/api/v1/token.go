package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tubachi/tokenledger/internal/api/dto"
	ierr "github.com/tubachi/tokenledger/internal/errors"
	"github.com/tubachi/tokenledger/internal/logger"
	"github.com/tubachi/tokenledger/internal/service"
	"github.com/tubachi/tokenledger/internal/types"
)

type TokenHandler struct {
	service service.TokenService
	log     *logger.Logger
}

func NewTokenHandler(service service.TokenService, log *logger.Logger) *TokenHandler {
	return &TokenHandler{
		service: service,
		log:     log,
	}
}

// @Summary Consume tokens
// @Description Debit tokens from a user's balance; fails without side effects when the balance is insufficient
// @Tags Tokens
// @Accept json
// @Produce json
// @Param request body dto.ConsumeTokensRequest true "Consume request"
// @Success 200 {object} dto.ConsumeTokensResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 402 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /tokens/consume [post]
func (h *TokenHandler) Consume(c *gin.Context) {
	var req dto.ConsumeTokensRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.Consume(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Credit tokens
// @Description Append a manual adjustment credit to a user's ledger
// @Tags Tokens
// @Accept json
// @Produce json
// @Param request body dto.CreditTokensRequest true "Credit request"
// @Success 200 {object} dto.CreditTokensResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /tokens/credit [post]
func (h *TokenHandler) Credit(c *gin.Context) {
	var req dto.CreditTokensRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.Credit(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get token balance
// @Description Get the user's true ledger balance and plan state
// @Tags Tokens
// @Produce json
// @Param user_id query string true "User ID"
// @Success 200 {object} dto.BalanceResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /tokens/balance [get]
func (h *TokenHandler) GetBalance(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.Error(ierr.NewError("user_id is required").
			WithHint("User id is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetBalance(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List token transactions
// @Description List the user's ledger entries, newest first
// @Tags Tokens
// @Produce json
// @Param user_id query string true "User ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /tokens/transactions [get]
func (h *TokenHandler) ListTransactions(c *gin.Context) {
	userID := c.Query("user_id")

	var filter types.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid pagination parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListTransactions(c.Request.Context(), userID, &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
