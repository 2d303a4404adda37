package handlers

import (
	"flowershop_backend/models"
	"flowershop_backend/services"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	cart *services.CartService
}

func NewCartHandler(cart *services.CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

type CartItemRequest struct {
	UserID     uint  `json:"user_id" validate:"required"`
	ProductID  uint  `json:"product_id" validate:"required"`
	Quantity   int   `json:"quantity" validate:"gte=0"`
	TotalPrice int64 `json:"total_price" validate:"gte=0"`
}

// GetCart - GET /cart
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	items, err := h.cart.FindAllByUser(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse("Cart items", items, nil))
}

// AddProduct - POST /cart/:productId
func (h *CartHandler) AddProduct(c *fiber.Ctx) error {
	productID, err := parseID(c, "productId")
	if err != nil {
		return err
	}
	item, err := h.cart.AddProduct(c.UserContext(), productID, currentUser(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse("Product added to cart", item, nil))
}

// UpdateQuantity - PUT /cart/:id/quantity/:quantity
func (h *CartHandler) UpdateQuantity(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	quantity, err := parseInt(c, "quantity")
	if err != nil {
		return err
	}
	item, err := h.cart.UpdateQuantity(c.UserContext(), id, quantity)
	if err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse("Cart item updated", item, nil))
}

// UpdateCartItem - PUT /cart/:id
func (h *CartHandler) UpdateCartItem(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req CartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	item, err := h.cart.Update(c.UserContext(), id, services.CartItemInput{
		UserID:     req.UserID,
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		TotalPrice: req.TotalPrice,
	}, currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse("Cart item updated", item, nil))
}

// RemoveProduct - DELETE /cart/:id
func (h *CartHandler) RemoveProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.cart.RemoveProduct(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse("Cart item removed", nil, nil))
}

// ClearCart - DELETE /cart
func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	if err := h.cart.RemoveAllByUser(c.UserContext(), currentUser(c)); err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse("Cart cleared", nil, nil))
}
