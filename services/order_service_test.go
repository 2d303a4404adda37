package services

import (
	"context"
	"strconv"
	"testing"

	"flowershop_backend/internal/apperr"
	"flowershop_backend/internal/paginate"
	"flowershop_backend/internal/payments"
	"flowershop_backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillCart(t *testing.T, e *env, caller Caller) (rose, lilies models.Product) {
	t.Helper()
	ctx := context.Background()
	rose = e.product(t, "Red Rose Bouquet")
	lilies = e.product(t, "Elegant White Lilies")
	for i := 0; i < 2; i++ {
		_, err := e.cart.AddProduct(ctx, rose.ID, caller)
		require.NoError(t, err)
	}
	_, err := e.cart.AddProduct(ctx, lilies.ID, caller)
	require.NoError(t, err)
	return rose, lilies
}

func TestCreateOrderEmptyCart(t *testing.T) {
	e := newEnv(t, false)

	_, err := e.orders.Create(context.Background(), e.caller(t, "david"), "1 Main St")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.EqualError(t, err, "Empty cart")
}

func TestCreateOrderFromCart(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	david := e.caller(t, "david")
	rose, lilies := fillCart(t, e, david)

	order, err := e.orders.Create(ctx, david, "1 Main St")
	require.NoError(t, err)

	assert.Equal(t, rose.Price*2+lilies.Price, order.TotalSum)
	assert.Equal(t, models.OrderStatusOpen, order.Status)
	assert.Equal(t, models.PaymentStatusCreated, order.PaymentStatus)
	assert.Equal(t, "pi_test_secret", order.ClientSecret)
	assert.Len(t, order.Products, 2)
	assert.Equal(t, []uint{order.ID}, e.provider.created)

	items, err := e.cart.FindAllByUser(ctx, david.ID)
	require.NoError(t, err)
	assert.Empty(t, items, "cart rows are consumed by checkout")

	sent := e.notifier.last()
	assert.Equal(t, "new_order", sent.kind)
	assert.Equal(t, "david@example.com", sent.to)

	stored, err := e.orders.FindOne(ctx, order.ID, david)
	require.NoError(t, err)
	assert.Len(t, stored.Products, 2)
}

func TestCreateOrderPaymentFailureKeepsOrder(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	david := e.caller(t, "david")
	fillCart(t, e, david)
	e.provider.fail = true

	_, err := e.orders.Create(ctx, david, "1 Main St")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindUnprocessable))
	assert.EqualError(t, err, "The payment intent could not be created: provider unavailable")

	var count int64
	require.NoError(t, e.db.Model(&models.Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestOrderVisibility(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	david, alice, john := e.caller(t, "david"), e.caller(t, "alice"), e.caller(t, "john")
	fillCart(t, e, david)
	order, err := e.orders.Create(ctx, david, "1 Main St")
	require.NoError(t, err)

	_, err = e.orders.FindOne(ctx, order.ID, Caller{ID: 999, Role: "user"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = e.orders.FindOne(ctx, order.ID, alice)
	assert.NoError(t, err, "moderators see every order")

	page, err := e.orders.FindAll(ctx, paginate.Query{}, john)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Meta.Total)

	other := Caller{ID: alice.ID, Role: "user"}
	page, err = e.orders.FindAll(ctx, paginate.Query{}, other)
	require.NoError(t, err)
	assert.Zero(t, page.Meta.Total)

	mine, err := e.orders.FindMine(ctx, david)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestUpdateOrder(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	david := e.caller(t, "david")
	rose, lilies := fillCart(t, e, david)
	order, err := e.orders.Create(ctx, david, "1 Main St")
	require.NoError(t, err)

	base := OrderInput{UserID: david.ID, Status: models.OrderStatusPending, Address: "2 High St",
		ProductsID: []uint{rose.ID, lilies.ID}, ProductsQuantities: []int{3, 1}}

	_, err = e.orders.Update(ctx, 999, base)
	assert.EqualError(t, err, "Nonexistent order to update")

	bad := base
	bad.UserID = 999
	_, err = e.orders.Update(ctx, order.ID, bad)
	assert.EqualError(t, err, "Invalid user id")

	bad = base
	bad.Status = "lost"
	_, err = e.orders.Update(ctx, order.ID, bad)
	assert.EqualError(t, err, "Invalid status")

	bad = base
	bad.ProductsQuantities = []int{1}
	_, err = e.orders.Update(ctx, order.ID, bad)
	assert.EqualError(t, err, "Unmatched products with quantities")

	bad = base
	bad.ProductsID = []uint{998, 999}
	_, err = e.orders.Update(ctx, order.ID, bad)
	assert.EqualError(t, err, "Nonexistent products to add to order")

	updated, err := e.orders.Update(ctx, order.ID, base)
	require.NoError(t, err)
	assert.Equal(t, rose.Price*3+lilies.Price, updated.TotalSum)
	assert.Equal(t, "2 High St", updated.Address)
	assert.Equal(t, models.OrderStatusPending, updated.Status)

	base.ProductsID = []uint{lilies.ID}
	base.ProductsQuantities = []int{2}
	updated, err = e.orders.Update(ctx, order.ID, base)
	require.NoError(t, err)
	require.Len(t, updated.Products, 1)
	assert.Equal(t, lilies.ID, updated.Products[0].ID)
}

func TestUpdateStatusAndRemove(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	david := e.caller(t, "david")
	fillCart(t, e, david)
	order, err := e.orders.Create(ctx, david, "1 Main St")
	require.NoError(t, err)

	updated, err := e.orders.UpdateStatus(ctx, order.ID, models.OrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, updated.Status)
	assert.Equal(t, "order_status", e.notifier.last().kind)

	// Any status may follow any other.
	updated, err = e.orders.UpdateStatus(ctx, order.ID, models.OrderStatusOpen)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusOpen, updated.Status)

	_, err = e.orders.UpdateStatus(ctx, order.ID, "shipped")
	assert.EqualError(t, err, "Invalid status")
	_, err = e.orders.UpdateStatus(ctx, 999, models.OrderStatusOpen)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	require.NoError(t, e.orders.Remove(ctx, order.ID))
	assert.EqualError(t, e.orders.Remove(ctx, order.ID), "Nonexistent order to delete")
}

func TestPaymentWebhook(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	david := e.caller(t, "david")
	fillCart(t, e, david)
	order, err := e.orders.Create(ctx, david, "1 Main St")
	require.NoError(t, err)

	paymentStatus := func() models.PaymentStatus {
		var o models.Order
		require.NoError(t, e.db.First(&o, order.ID).Error)
		return o.PaymentStatus
	}

	e.provider.event = &payments.Event{Type: "charge.refunded", Metadata: map[string]string{"orderId": "1"}}
	msg, err := e.payments.HandleWebhook(ctx, nil, "")
	require.NoError(t, err)
	assert.Empty(t, msg)
	assert.Equal(t, models.PaymentStatusCreated, paymentStatus())

	e.provider.event = &payments.Event{Type: payments.EventSucceeded, Metadata: map[string]string{"orderId": "999"}}
	_, err = e.payments.HandleWebhook(ctx, nil, "")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	e.provider.event = &payments.Event{Type: payments.EventSucceeded, Metadata: map[string]string{}}
	_, err = e.payments.HandleWebhook(ctx, nil, "")
	assert.EqualError(t, err, "Nonexistent order to update")

	e.provider.event = &payments.Event{Type: payments.EventSucceeded, Metadata: map[string]string{"orderId": strconv.FormatUint(uint64(order.ID), 10)}}
	msg, err = e.payments.HandleWebhook(ctx, nil, "")
	require.NoError(t, err)
	assert.Equal(t, "Record successfully updated with Payment Status succeeded", msg)
	assert.Equal(t, models.PaymentStatusSucceeded, paymentStatus())
	var stored models.Order
	require.NoError(t, e.db.First(&stored, order.ID).Error)
	assert.Equal(t, models.OrderStatusOpen, stored.Status, "order status is independent of payment status")
	assert.Equal(t, "payment_status", e.notifier.last().kind)

	e.provider.badSig = true
	_, err = e.payments.HandleWebhook(ctx, nil, "")
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
}

func TestCreatePaymentIntentValidation(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()

	_, err := e.payments.CreatePaymentIntent(ctx, 0, 10)
	assert.True(t, apperr.Is(err, apperr.KindUnprocessable))
	_, err = e.payments.CreatePaymentIntent(ctx, 1, 0)
	assert.EqualError(t, err, "The payment intent could not be created")

	intent, err := e.payments.CreatePaymentIntent(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "pi_test_secret", intent.ClientSecret)
}

func TestPaymentStatusFor(t *testing.T) {
	assert.Equal(t, models.PaymentStatusSucceeded, PaymentStatusFor(payments.EventSucceeded))
	assert.Equal(t, models.PaymentStatusProcessing, PaymentStatusFor(payments.EventProcessing))
	assert.Equal(t, models.PaymentStatusFailed, PaymentStatusFor(payments.EventFailed))
	assert.Equal(t, models.PaymentStatusCanceled, PaymentStatusFor(payments.EventCanceled))
	assert.Equal(t, models.PaymentStatusCreated, PaymentStatusFor("payment_intent.created"))
}

func TestReviews(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	david, alice := e.caller(t, "david"), e.caller(t, "alice")
	rose := e.product(t, "Red Rose Bouquet")
	lilies := e.product(t, "Elegant White Lilies")

	_, err := e.reviews.Create(ctx, ReviewInput{ProductID: 999, Rating: 5, Content: "?"}, david)
	assert.EqualError(t, err, "Product not found")

	review, err := e.reviews.Create(ctx, ReviewInput{ProductID: rose.ID, Rating: 4, Content: "lovely"}, david)
	require.NoError(t, err)
	assert.Equal(t, david.ID, review.UserID)

	_, err = e.reviews.Update(ctx, review.ID, ReviewInput{UserID: david.ID, ProductID: lilies.ID, Rating: 5}, david)
	assert.EqualError(t, err, "Invalid product id")
	_, err = e.reviews.Update(ctx, review.ID, ReviewInput{UserID: david.ID, ProductID: rose.ID, Rating: 5}, alice)
	assert.EqualError(t, err, "Invalid user id")

	updated, err := e.reviews.Update(ctx, review.ID, ReviewInput{UserID: david.ID, ProductID: rose.ID, Rating: 5, Content: "perfect"}, david)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)

	list, err := e.reviews.FindAllByProduct(ctx, rose.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	page, err := e.reviews.FindAll(ctx, paginate.Query{Search: "rose"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Meta.Total, "search covers the product name")

	require.NoError(t, e.reviews.Remove(ctx, review.ID))
	assert.EqualError(t, e.reviews.Remove(ctx, review.ID), "Nonexistent review to delete")
}
