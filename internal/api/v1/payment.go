package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/tubachi/tokenledger/internal/api/dto"
	ierr "github.com/tubachi/tokenledger/internal/errors"
	"github.com/tubachi/tokenledger/internal/gateway/tilopay"
	"github.com/tubachi/tokenledger/internal/logger"
	"github.com/tubachi/tokenledger/internal/service"
)

// PaymentHandler lands Tilopay webhooks on the subscription engine.
type PaymentHandler struct {
	subscriptionService service.SubscriptionService
	gateway             tilopay.Client
	log                 *logger.Logger
}

func NewPaymentHandler(
	subscriptionService service.SubscriptionService,
	gateway tilopay.Client,
	log *logger.Logger,
) *PaymentHandler {
	return &PaymentHandler{
		subscriptionService: subscriptionService,
		gateway:             gateway,
		log:                 log,
	}
}

// @Summary Subscription webhook
// @Description Gateway notification of a new subscription; moves the user to the paid plan
// @Tags Webhooks
// @Produce json
// @Success 200 {object} dto.WebhookAckResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /webhooks/tilopay/subscribe [get]
func (h *PaymentHandler) HandleSubscribe(c *gin.Context) {
	var req dto.SubscribeWebhookRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid webhook payload").
			Mark(ierr.ErrValidation))
		return
	}

	if err := h.applyPayment(c, req); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.WebhookAckResponse{Message: "Subscription processed"})
}

// @Summary Payment webhook
// @Description Gateway notification of a successful recurring payment
// @Tags Webhooks
// @Accept json
// @Produce json
// @Success 200 {object} dto.WebhookAckResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /webhooks/tilopay/payment [post]
func (h *PaymentHandler) HandlePayment(c *gin.Context) {
	var req dto.SubscribeWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid webhook payload").
			Mark(ierr.ErrValidation))
		return
	}

	if err := h.applyPayment(c, req); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.WebhookAckResponse{Message: "Payment processed"})
}

func (h *PaymentHandler) applyPayment(c *gin.Context, req dto.SubscribeWebhookRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	_, err := h.subscriptionService.ChangePlan(c.Request.Context(), dto.ChangePlanRequest{
		Email:          req.Email,
		ExternalPlanID: req.PlanID,
		Reason:         "Payment success",
		ExternalTxnRef: lo.ToPtr(req.OrderNumber),
	})
	return err
}

// @Summary Rejected payment webhook
// @Description Gateway notification of a rejected payment; acknowledged and logged only
// @Tags Webhooks
// @Accept json
// @Produce json
// @Success 200 {object} dto.WebhookAckResponse
// @Router /webhooks/tilopay/rejected [post]
func (h *PaymentHandler) HandleRejected(c *gin.Context) {
	var req dto.RejectedWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid webhook payload").
			Mark(ierr.ErrValidation))
		return
	}

	h.log.Warnw("payment rejected by gateway",
		"email", req.Email,
		"external_plan_id", req.PlanID,
		"amount", req.Amount,
	)

	c.JSON(http.StatusOK, dto.WebhookAckResponse{Message: "Rejection processed"})
}

// @Summary Unsubscribe webhook
// @Description Schedules cancellation and pauses gateway billing until the cycle ends
// @Tags Webhooks
// @Accept json
// @Produce json
// @Success 200 {object} dto.CancelPlanResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /webhooks/tilopay/unsubscribe [post]
func (h *PaymentHandler) HandleUnsubscribe(c *gin.Context) {
	var req dto.UnsubscribeWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid webhook payload").
			Mark(ierr.ErrValidation))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	resp, err := h.subscriptionService.CancelPlan(c.Request.Context(), req.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.gateway.PauseSubscription(c.Request.Context(), resp.Email, resp.ExternalPlanID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Reactivate webhook
// @Description Resumes gateway billing for a paused subscription
// @Tags Webhooks
// @Accept json
// @Produce json
// @Success 200 {object} dto.WebhookAckResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /webhooks/tilopay/reactive [post]
func (h *PaymentHandler) HandleReactive(c *gin.Context) {
	var req dto.ReactiveWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid webhook payload").
			Mark(ierr.ErrValidation))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	if err := h.gateway.ReactivateSubscription(c.Request.Context(), req.Email, req.PlanID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.WebhookAckResponse{Message: "Reactivation processed"})
}
