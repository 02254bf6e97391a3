package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tubachi/tokenledger/internal/api/dto"
	ierr "github.com/tubachi/tokenledger/internal/errors"
	"github.com/tubachi/tokenledger/internal/logger"
	"github.com/tubachi/tokenledger/internal/service"
)

type PlanHandler struct {
	service             service.PlanService
	subscriptionService service.SubscriptionService
	log                 *logger.Logger
}

func NewPlanHandler(
	service service.PlanService,
	subscriptionService service.SubscriptionService,
	log *logger.Logger,
) *PlanHandler {
	return &PlanHandler{
		service:             service,
		subscriptionService: subscriptionService,
		log:                 log,
	}
}

// @Summary Create a new plan
// @Description Create a new plan in the catalog
// @Tags Plans
// @Accept json
// @Produce json
// @Param plan body dto.CreatePlanRequest true "Plan configuration"
// @Success 201 {object} dto.PlanResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req dto.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreatePlan(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary List active plans
// @Description List all plans currently offered, cheapest first
// @Tags Plans
// @Produce json
// @Success 200 {object} dto.ListPlansResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /plans [get]
func (h *PlanHandler) ListActivePlans(c *gin.Context) {
	resp, err := h.service.ListActivePlans(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get plan history
// @Description Get the user's plan period history, newest first
// @Tags Plans
// @Produce json
// @Param user_id query string true "User ID"
// @Success 200 {object} dto.PlanHistoryResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /plans/history [get]
func (h *PlanHandler) GetHistory(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.Error(ierr.NewError("user_id is required").
			WithHint("User id is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.subscriptionService.GetHistory(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Change plan
// @Description Move a user to a new plan and reset their token quota
// @Tags Plans
// @Accept json
// @Produce json
// @Param request body dto.ChangePlanRequest true "Change plan request"
// @Success 200 {object} dto.ChangePlanResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /plans/change [post]
func (h *PlanHandler) ChangePlan(c *gin.Context) {
	var req dto.ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.subscriptionService.ChangePlan(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Cancel plan
// @Description Schedule cancellation at the end of the current billing cycle
// @Tags Plans
// @Accept json
// @Produce json
// @Param request body dto.CancelPlanRequest true "Cancel plan request"
// @Success 200 {object} dto.CancelPlanResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /plans/cancel [post]
func (h *PlanHandler) CancelPlan(c *gin.Context) {
	var req dto.CancelPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
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

	c.JSON(http.StatusOK, resp)
}
