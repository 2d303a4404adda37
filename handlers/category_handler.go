package handlers

import (
	"flowershop_backend/internal/paginate"
	"flowershop_backend/models"
	"flowershop_backend/services"

	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	categories *services.CategoryService
}

func NewCategoryHandler(categories *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// CategoryRequest accepts the parent as parentId, or parent_id like the rest
// of the API. parentId wins when both are sent.
type CategoryRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	Description   string `json:"description" validate:"required"`
	ParentID      *uint  `json:"parentId"`
	ParentIDSnake *uint  `json:"parent_id"`
}

func (r CategoryRequest) input() services.CategoryInput {
	parentID := r.ParentID
	if parentID == nil {
		parentID = r.ParentIDSnake
	}
	return services.CategoryInput{Name: r.Name, Description: r.Description, ParentID: parentID}
}

// CreateCategory - POST /categories
func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	category, err := h.categories.Create(c.UserContext(), req.input())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse("Category created", category, nil))
}

// GetCategories - GET /categories
func (h *CategoryHandler) GetCategories(c *fiber.Ctx) error {
	page, err := h.categories.FindAll(c.UserContext(), paginate.FromCtx(c))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// GetCategory - GET /categories/:id
func (h *CategoryHandler) GetCategory(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	category, err := h.categories.FindOne(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse("Category found", category, nil))
}

// GetChildren - GET /categories/:id/children
func (h *CategoryHandler) GetChildren(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	children, err := h.categories.Children(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse("Child categories", children, nil))
}

// UpdateCategory - PUT /categories/:id
func (h *CategoryHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	category, err := h.categories.Update(c.UserContext(), id, req.input())
	if err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse("Category updated", category, nil))
}

// DeleteCategory - DELETE /categories/:id
func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.categories.Remove(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse("Category deleted", nil, nil))
}
