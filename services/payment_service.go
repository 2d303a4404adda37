package services

import (
	"context"
	"fmt"
	"strconv"

	"flowershop_backend/internal/apperr"
	"flowershop_backend/internal/payments"
	"flowershop_backend/models"
	"flowershop_backend/repositories"

	"github.com/rs/zerolog"
)

type PaymentService struct {
	provider payments.Provider
	orders   *repositories.OrderRepository
	notifier Notifier
	log      zerolog.Logger
}

func NewPaymentService(provider payments.Provider, orders *repositories.OrderRepository, notifier Notifier, log zerolog.Logger) *PaymentService {
	return &PaymentService{provider: provider, orders: orders, notifier: notifier, log: log}
}

func (s *PaymentService) CreatePaymentIntent(ctx context.Context, orderID uint, totalAmount int64) (*payments.Intent, error) {
	if orderID == 0 || totalAmount < 1 {
		return nil, apperr.Unprocessable("The payment intent could not be created", nil)
	}

	intent, err := s.provider.CreatePaymentIntent(ctx, orderID, totalAmount)
	if err != nil {
		s.log.Error().Err(err).Uint("order_id", orderID).Msg("error creating a payment intent")
		return nil, apperr.Unprocessable("The payment intent could not be created", err)
	}
	return intent, nil
}

// PaymentStatusFor maps a provider event type onto the order payment status.
func PaymentStatusFor(eventType string) models.PaymentStatus {
	switch eventType {
	case payments.EventSucceeded:
		return models.PaymentStatusSucceeded
	case payments.EventProcessing:
		return models.PaymentStatusProcessing
	case payments.EventFailed:
		return models.PaymentStatusFailed
	case payments.EventCanceled:
		return models.PaymentStatusCanceled
	default:
		return models.PaymentStatusCreated
	}
}

// HandleWebhook verifies the event and records the payment status on the
// order it references. Event types outside the handled set are ignored and
// an empty result is returned.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) (string, error) {
	evt, err := s.provider.ConstructEvent(payload, signature)
	if err != nil {
		return "", apperr.BadRequest("Webhook Error: " + err.Error())
	}
	if !evt.Handled() {
		s.log.Debug().Str("event_type", evt.Type).Msg("ignoring payment event")
		return "", nil
	}

	raw, ok := evt.Metadata[payments.MetadataOrderID]
	if !ok || raw == "" {
		return "", apperr.BadRequest("Nonexistent order to update")
	}
	orderID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return "", apperr.BadRequest("Nonexistent order to update")
	}

	order, err := s.orders.FindByID(ctx, uint(orderID))
	if err != nil {
		return "", missing(err, apperr.NotFound("Nonexistent order to update"))
	}

	status := PaymentStatusFor(evt.Type)
	if order.User != nil {
		if err := s.notifier.SendChangedOrderPaymentStatusEmail(ctx, order.User.Email, order.ID, string(status)); err != nil {
			s.log.Error().Err(err).Uint("order_id", order.ID).Msg("failed to queue payment status email")
		}
	}

	affected, err := s.orders.UpdatePaymentStatus(ctx, order.ID, status)
	if err != nil {
		return "", err
	}
	if affected != 1 {
		return "", apperr.Unprocessable("The payment was not successfully updated", nil)
	}

	s.log.Info().Uint("order_id", order.ID).Str("payment_status", string(status)).Str("event_id", evt.ID).Msg("payment status updated")
	return fmt.Sprintf("Record successfully updated with Payment Status %s", status), nil
}
