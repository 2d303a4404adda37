package handlers

import (
	"flowershop_backend/internal/paginate"
	"flowershop_backend/models"
	"flowershop_backend/services"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	orders *services.OrderService
}

func NewOrderHandler(orders *services.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type CreateOrderRequest struct {
	Address string `json:"address" validate:"required"`
}

type OrderRequest struct {
	UserID             uint               `json:"user_id" validate:"required"`
	Status             models.OrderStatus `json:"status" validate:"required"`
	Address            string             `json:"address" validate:"required"`
	ProductsID         []uint             `json:"products_id" validate:"required,min=1"`
	ProductsQuantities []int              `json:"products_quantities" validate:"required,min=1,dive,gte=0"`
}

// CreateOrder - POST /orders
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	order, err := h.orders.Create(c.UserContext(), currentUser(c), req.Address)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse("Order created", order, nil))
}

// GetOrders - GET /orders
func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	page, err := h.orders.FindAll(c.UserContext(), paginate.FromCtx(c), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// GetMyOrders - GET /orders/mine
func (h *OrderHandler) GetMyOrders(c *fiber.Ctx) error {
	orders, err := h.orders.FindMine(c.UserContext(), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse("Orders", orders, nil))
}

// GetOrder - GET /orders/:id
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	order, err := h.orders.FindOne(c.UserContext(), id, currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse("Order found", order, nil))
}

// UpdateOrder - PUT /orders/:id
func (h *OrderHandler) UpdateOrder(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req OrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	order, err := h.orders.Update(c.UserContext(), id, services.OrderInput{
		UserID:             req.UserID,
		Status:             req.Status,
		Address:            req.Address,
		ProductsID:         req.ProductsID,
		ProductsQuantities: req.ProductsQuantities,
	})
	if err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse("Order updated", order, nil))
}

// UpdateStatus - PUT /orders/:id/status/:status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	order, err := h.orders.UpdateStatus(c.UserContext(), id, models.OrderStatus(c.Params("status")))
	if err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse("Order status updated", order, nil))
}

// DeleteOrder - DELETE /orders/:id
func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.orders.Remove(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse("Order deleted", nil, nil))
}
