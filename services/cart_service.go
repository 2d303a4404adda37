package services

import (
	"context"

	"flowershop_backend/internal/apperr"
	"flowershop_backend/models"
	"flowershop_backend/repositories"
)

type CartItemInput struct {
	UserID     uint
	ProductID  uint
	Quantity   int
	TotalPrice int64
}

type CartService struct {
	cart     *repositories.CartRepository
	products *repositories.ProductRepository
	users    *repositories.UserRepository
	// When false a cart row is matched by product id alone, whichever user owns it.
	scopedLookup bool
}

func NewCartService(
	cart *repositories.CartRepository,
	products *repositories.ProductRepository,
	users *repositories.UserRepository,
	scopedLookup bool,
) *CartService {
	return &CartService{cart: cart, products: products, users: users, scopedLookup: scopedLookup}
}

func (s *CartService) AddProduct(ctx context.Context, productID uint, caller Caller) (*models.CartItem, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, missing(err, apperr.NotFound("Nonexistent product to add"))
	}

	var owner *uint
	if s.scopedLookup {
		owner = &caller.ID
	}
	item, err := s.cart.FindByProduct(ctx, productID, owner)
	switch {
	case isNotFound(err):
		item = &models.CartItem{
			UserID:     caller.ID,
			ProductID:  product.ID,
			Quantity:   1,
			TotalPrice: product.Price,
		}
		err = s.cart.Create(ctx, item)
	case err == nil:
		item.Quantity++
		item.TotalPrice = product.Price * int64(item.Quantity)
		err = s.cart.Save(ctx, item)
	}
	if err != nil {
		return nil, err
	}

	item.Product = product
	return item, nil
}

func (s *CartService) FindAllByUser(ctx context.Context, userID uint) ([]models.CartItem, error) {
	return s.cart.FindByUser(ctx, userID)
}

// UpdateQuantity overwrites the quantity only; the stored total is left as is.
func (s *CartService) UpdateQuantity(ctx context.Context, id uint, quantity int) (*models.CartItem, error) {
	if quantity < 0 {
		return nil, apperr.BadRequest("Quantity must not be negative")
	}
	item, err := s.cart.FindByID(ctx, id)
	if err != nil {
		return nil, missing(err, apperr.NotFound("Nonexistent cart item to update"))
	}

	item.Quantity = quantity
	if err := s.cart.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Update replaces the row. The total is taken from the request, not the product.
func (s *CartService) Update(ctx context.Context, id uint, in CartItemInput, caller Caller) (*models.CartItem, error) {
	item, err := s.cart.FindByID(ctx, id)
	if err != nil {
		return nil, missing(err, apperr.BadRequest("Nonexistent cart item to update"))
	}
	if in.UserID != caller.ID {
		return nil, apperr.BadRequest("Invalid user id")
	}
	product, err := s.products.FindByID(ctx, in.ProductID)
	if err != nil {
		return nil, missing(err, apperr.BadRequest("Nonexistent product"))
	}

	item.ProductID = product.ID
	item.Quantity = in.Quantity
	item.TotalPrice = in.TotalPrice * int64(in.Quantity)
	if err := s.cart.Save(ctx, item); err != nil {
		return nil, err
	}
	item.Product = product
	return item, nil
}

func (s *CartService) RemoveProduct(ctx context.Context, id uint) error {
	_, err := s.cart.Delete(ctx, id)
	return err
}

func (s *CartService) RemoveAllByUser(ctx context.Context, caller Caller) error {
	user, err := s.users.FindByID(ctx, caller.ID)
	if err != nil {
		return missing(err, apperr.NotFound("Nonexistent user"))
	}
	_, err = s.cart.DeleteByUser(ctx, user.ID)
	return err
}
