package handlers

import (
	"flowershop_backend/internal/paginate"
	"flowershop_backend/models"
	"flowershop_backend/services"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	products *services.ProductService
	maxBytes int64
}

func NewProductHandler(products *services.ProductService, maxBytes int64) *ProductHandler {
	return &ProductHandler{products: products, maxBytes: maxBytes}
}

// ProductRequest accepts JSON or multipart form fields. The image goes in the
// "file" form field.
type ProductRequest struct {
	Name        string `json:"name" form:"name" validate:"required,max=255"`
	Description string `json:"description" form:"description" validate:"required"`
	Price       int64  `json:"price" form:"price" validate:"gte=0"`
	Brand       string `json:"brand" form:"brand"`
	Color       string `json:"color" form:"color"`
	Material    string `json:"material" form:"material"`
	IsAvailable *bool  `json:"is_available" form:"is_available"`
	CategoryID  uint   `json:"category_id" form:"category_id"`
}

func (r ProductRequest) input() services.ProductInput {
	available := true
	if r.IsAvailable != nil {
		available = *r.IsAvailable
	}
	return services.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Brand:       r.Brand,
		Color:       r.Color,
		Material:    r.Material,
		IsAvailable: available,
		CategoryID:  r.CategoryID,
	}
}

// CreateProduct - POST /products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	image, closer, err := formImage(c, "file", h.maxBytes)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	product, err := h.products.Create(c.UserContext(), req.input(), image)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse("Product created", product, nil))
}

// GetAllProducts - GET /products
func (h *ProductHandler) GetAllProducts(c *fiber.Ctx) error {
	page, err := h.products.FindAll(c.UserContext(), paginate.FromCtx(c))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// GetProduct - GET /products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.products.FindOne(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse("Product found", product, nil))
}

// UpdateProduct - PUT /products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req ProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	image, closer, err := formImage(c, "file", h.maxBytes)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	product, err := h.products.Update(c.UserContext(), id, req.input(), image)
	if err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse("Product updated", product, nil))
}

// DeleteProduct - DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.products.Remove(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse("Product deleted", nil, nil))
}
