package services

import (
	"context"

	"flowershop_backend/internal/apperr"
	"flowershop_backend/internal/paginate"
	"flowershop_backend/models"
	"flowershop_backend/repositories"

	"github.com/rs/zerolog"
)

type OrderInput struct {
	UserID             uint
	Status             models.OrderStatus
	Address            string
	ProductsID         []uint
	ProductsQuantities []int
}

type OrderService struct {
	orders   *repositories.OrderRepository
	cart     *repositories.CartRepository
	products *repositories.ProductRepository
	users    *repositories.UserRepository
	payments *PaymentService
	notifier Notifier
	log      zerolog.Logger
}

func NewOrderService(
	orders *repositories.OrderRepository,
	cart *repositories.CartRepository,
	products *repositories.ProductRepository,
	users *repositories.UserRepository,
	payments *PaymentService,
	notifier Notifier,
	log zerolog.Logger,
) *OrderService {
	return &OrderService{
		orders:   orders,
		cart:     cart,
		products: products,
		users:    users,
		payments: payments,
		notifier: notifier,
		log:      log,
	}
}

// Create checks out the caller's cart.
//
// The steps are not wrapped in a transaction: the order is stored, the cart
// rows are deleted and only then is the payment intent requested. A failure
// part way leaves the earlier steps in place.
func (s *OrderService) Create(ctx context.Context, caller Caller, address string) (*models.Order, error) {
	user, err := s.users.FindByID(ctx, caller.ID)
	if err != nil {
		return nil, missing(err, apperr.NotFound("Nonexistent user"))
	}

	items, err := s.cart.FindByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperr.NotFound("Empty cart")
	}

	var (
		total    int64
		products []models.Product
		itemIDs  []uint
		seen     = map[uint]bool{}
	)
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
		if item.Product == nil {
			continue
		}
		total += item.Product.Price * int64(item.Quantity)
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			products = append(products, *item.Product)
		}
	}

	order := &models.Order{
		UserID:        user.ID,
		Status:        models.OrderStatusOpen,
		PaymentStatus: models.PaymentStatusCreated,
		Address:       address,
		TotalSum:      total,
		Products:      products,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	if err := s.cart.DeleteByIDs(ctx, itemIDs); err != nil {
		return nil, err
	}

	intent, err := s.payments.CreatePaymentIntent(ctx, order.ID, order.TotalSum)
	if err != nil {
		return nil, err
	}
	order.ClientSecret = intent.ClientSecret

	if err := s.notifier.SendNewOrderEmail(ctx, user.Email, order.ID, string(order.Status), order.TotalSum); err != nil {
		s.log.Error().Err(err).Uint("order_id", order.ID).Msg("failed to queue new order email")
	}
	return order, nil
}

// FindAll lists every order for staff and only the caller's own otherwise.
func (s *OrderService) FindAll(ctx context.Context, q paginate.Query, caller Caller) (*models.Paginated[models.Order], error) {
	if caller.IsStaff() {
		return s.orders.Paginate(ctx, q, nil)
	}
	return s.orders.Paginate(ctx, q, &caller.ID)
}

func (s *OrderService) FindMine(ctx context.Context, caller Caller) ([]models.Order, error) {
	return s.orders.FindByUser(ctx, caller.ID)
}

func (s *OrderService) FindOne(ctx context.Context, id uint, caller Caller) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, missing(err, apperr.NotFound("Nonexistent order"))
	}
	if !caller.IsStaff() && order.UserID != caller.ID {
		return nil, apperr.NotFound("Nonexistent order")
	}
	return order, nil
}

// Update replaces the order. The total is recomputed from the given products
// and the client supplied quantities.
func (s *OrderService) Update(ctx context.Context, id uint, in OrderInput) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, missing(err, apperr.BadRequest("Nonexistent order to update"))
	}
	user, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, missing(err, apperr.NotFound("Invalid user id"))
	}
	if !in.Status.Valid() {
		return nil, apperr.BadRequest("Invalid status")
	}
	if len(in.ProductsID) != len(in.ProductsQuantities) {
		return nil, apperr.BadRequest("Unmatched products with quantities")
	}

	products, err := s.products.FindByIDs(ctx, in.ProductsID)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, apperr.BadRequest("Nonexistent products to add to order")
	}

	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	var total int64
	for i, pid := range in.ProductsID {
		if p, ok := byID[pid]; ok {
			total += p.Price * int64(in.ProductsQuantities[i])
		}
	}

	order.UserID = user.ID
	order.User = nil
	order.Status = in.Status
	order.Address = in.Address
	order.TotalSum = total
	order.Products = products
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	return s.orders.FindByID(ctx, id)
}

// UpdateStatus sets any status; there is no transition table.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, missing(err, apperr.NotFound("Nonexistent order to update"))
	}
	if !status.Valid() {
		return nil, apperr.BadRequest("Invalid status")
	}

	if _, err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	order.Status = status

	if order.User != nil {
		if err := s.notifier.SendChangedOrderStatusEmail(ctx, order.User.Email, order.ID, string(status)); err != nil {
			s.log.Error().Err(err).Uint("order_id", order.ID).Msg("failed to queue order status email")
		}
	}
	return order, nil
}

func (s *OrderService) Remove(ctx context.Context, id uint) error {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return missing(err, apperr.BadRequest("Nonexistent order to delete"))
	}
	_, err = s.orders.Delete(ctx, order)
	return err
}
