package handlers

import (
	"strconv"

	"flowershop_backend/internal/apperr"
	"flowershop_backend/models"
	"flowershop_backend/services"

	"github.com/gofiber/fiber/v2"
)

const signatureHeader = "Stripe-Signature"

type PaymentHandler struct {
	payments *services.PaymentService
}

func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// CreatePaymentIntent - POST /payments/:orderId/:totalAmount
func (h *PaymentHandler) CreatePaymentIntent(c *fiber.Ctx) error {
	orderID, err := parseID(c, "orderId")
	if err != nil {
		return err
	}
	amount, err := strconv.ParseInt(c.Params("totalAmount"), 10, 64)
	if err != nil {
		return apperr.BadRequest("Validation failed (numeric string is expected)")
	}

	intent, err := h.payments.CreatePaymentIntent(c.UserContext(), orderID, amount)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse("Payment intent created", fiber.Map{
		"id":            intent.ID,
		"client_secret": intent.ClientSecret,
	}, nil))
}

// Webhook - POST /payments/webhooks
//
// The signature is checked against the raw request body, so the body must not
// be parsed before this handler runs.
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	msg, err := h.payments.HandleWebhook(c.UserContext(), c.Body(), c.Get(signatureHeader))
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "Event ignored"
	}
	return c.JSON(models.SuccessResponse(msg, nil, nil))
}

// OrderWebhook - POST /orders/stripe/webhook
func (h *PaymentHandler) OrderWebhook(c *fiber.Ctx) error {
	if _, err := h.payments.HandleWebhook(c.UserContext(), c.Body(), c.Get(signatureHeader)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "success"})
}
