package dto

import (
	"github.com/tubachi/tokenledger/internal/validator"
)

// Tilopay webhook payloads. Field names follow the gateway's wire format.

type SubscribeWebhookRequest struct {
	PlanID          int     `json:"id_plan" form:"id_plan" validate:"required"`
	Email           string  `json:"email" form:"email" validate:"required,email"`
	Modality        string  `json:"modality" form:"modality"`
	Amount          float64 `json:"amount" form:"amount"`
	Frequency       string  `json:"frequency" form:"frequency"`
	Coupon          string  `json:"coupon" form:"coupon"`
	FreeTrial       int     `json:"free_trial" form:"free_trial"`
	NextPaymentDate string  `json:"next_payment_date" form:"next_payment_date"`
	PaymentID       int     `json:"paymentId" form:"paymentId"`
	OrderNumber     string  `json:"orderNumber" form:"orderNumber" validate:"required"`
}

func (r *SubscribeWebhookRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type RejectedWebhookRequest struct {
	PlanID int     `json:"id_plan" validate:"required"`
	Email  string  `json:"email" validate:"required,email"`
	Amount float64 `json:"amount"`
}

func (r *RejectedWebhookRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type UnsubscribeWebhookRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

func (r *UnsubscribeWebhookRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type ReactiveWebhookRequest struct {
	PlanID          int    `json:"id_plan" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	NextPaymentDate string `json:"next_payment_date"`
}

func (r *ReactiveWebhookRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type WebhookAckResponse struct {
	Message string `json:"message"`
}
