// Package services holds the shop's business rules. Services return
// *apperr.Error for domain failures and wrapped errors for everything else.
package services

import (
	"context"
	"errors"

	"flowershop_backend/internal/apperr"

	"gorm.io/gorm"
)

// Notifier queues the transactional emails.
type Notifier interface {
	SendResetPasswordEmail(ctx context.Context, to, token string) error
	SendNewOrderEmail(ctx context.Context, to string, orderID uint, status string, total int64) error
	SendChangedOrderStatusEmail(ctx context.Context, to string, orderID uint, status string) error
	SendChangedOrderPaymentStatusEmail(ctx context.Context, to string, orderID uint, paymentStatus string) error
}

// Caller is the authenticated identity a request runs as.
type Caller struct {
	ID       uint
	Username string
	Role     string
}

// IsStaff reports whether the caller may act on other users' records.
func (c Caller) IsStaff() bool {
	return c.Role == "admin" || c.Role == "moderator"
}

// missing maps a gorm not-found error to e and passes any other error through.
func missing(err error, e *apperr.Error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return e
	}
	return err
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
