package handlers

import (
	"flowershop_backend/internal/paginate"
	"flowershop_backend/models"
	"flowershop_backend/services"

	"github.com/gofiber/fiber/v2"
)

type ReviewHandler struct {
	reviews *services.ReviewService
}

func NewReviewHandler(reviews *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

type NewReviewRequest struct {
	ProductID uint   `json:"product_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Content   string `json:"content" validate:"required"`
}

type ReviewRequest struct {
	UserID    uint   `json:"user_id" validate:"required"`
	ProductID uint   `json:"product_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Content   string `json:"content" validate:"required"`
}

// CreateReview - POST /reviews
func (h *ReviewHandler) CreateReview(c *fiber.Ctx) error {
	var req NewReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	review, err := h.reviews.Create(c.UserContext(), services.ReviewInput{
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Content:   req.Content,
	}, currentUser(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse("Review created", review, nil))
}

// GetReviews - GET /reviews
func (h *ReviewHandler) GetReviews(c *fiber.Ctx) error {
	page, err := h.reviews.FindAll(c.UserContext(), paginate.FromCtx(c))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// GetProductReviews - GET /reviews/product/:productId
func (h *ReviewHandler) GetProductReviews(c *fiber.Ctx) error {
	productID, err := parseID(c, "productId")
	if err != nil {
		return err
	}
	reviews, err := h.reviews.FindAllByProduct(c.UserContext(), productID)
	if err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse("Reviews", reviews, nil))
}

// UpdateReview - PUT /reviews/:id
func (h *ReviewHandler) UpdateReview(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req ReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	review, err := h.reviews.Update(c.UserContext(), id, services.ReviewInput{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Content:   req.Content,
	}, currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse("Review updated", review, nil))
}

// DeleteReview - DELETE /reviews/:id
func (h *ReviewHandler) DeleteReview(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.reviews.Remove(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse("Review deleted", nil, nil))
}
