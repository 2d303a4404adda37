// Package mailer queues transactional emails and delivers them in the background.
package mailer

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

type Mailer struct {
	queue Queue
}

func New(queue Queue) *Mailer {
	return &Mailer{queue: queue}
}

func (m *Mailer) SendResetPasswordEmail(ctx context.Context, to, token string) error {
	return m.queue.Enqueue(ctx, Message{
		To:      to,
		Subject: "Password reset request",
		Text: fmt.Sprintf("We received a request to reset your password.\n"+
			"Please use the token below to reset your password:\n%s", token),
	})
}

func (m *Mailer) SendNewOrderEmail(ctx context.Context, to string, orderID uint, status string, total int64) error {
	return m.queue.Enqueue(ctx, Message{
		To:      to,
		Subject: "New order info",
		Text: fmt.Sprintf("Thank you for shopping with us! We've received your order #%d and it is %s.\n"+
			"Order total: %s", orderID, status, decimal.NewFromInt(total).StringFixed(2)),
	})
}

func (m *Mailer) SendChangedOrderStatusEmail(ctx context.Context, to string, orderID uint, status string) error {
	return m.queue.Enqueue(ctx, Message{
		To:      to,
		Subject: "Update on your order",
		Text:    fmt.Sprintf("We wanted to let you know that the status of your order #%d has changed to %s.", orderID, status),
	})
}

func (m *Mailer) SendChangedOrderPaymentStatusEmail(ctx context.Context, to string, orderID uint, paymentStatus string) error {
	return m.queue.Enqueue(ctx, Message{
		To:      to,
		Subject: "Payment status update for your order",
		Text:    fmt.Sprintf("We wanted to let you know that the payment status for your order #%d has changed to %s.", orderID, paymentStatus),
	})
}
