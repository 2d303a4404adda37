package services

import (
	"context"

	"flowershop_backend/internal/apperr"
	"flowershop_backend/internal/paginate"
	"flowershop_backend/models"
	"flowershop_backend/repositories"
)

type ReviewInput struct {
	UserID    uint
	ProductID uint
	Rating    int
	Content   string
}

type ReviewService struct {
	reviews  *repositories.ReviewRepository
	products *repositories.ProductRepository
}

func NewReviewService(reviews *repositories.ReviewRepository, products *repositories.ProductRepository) *ReviewService {
	return &ReviewService{reviews: reviews, products: products}
}

// Create does not check that the caller bought the product.
func (s *ReviewService) Create(ctx context.Context, in ReviewInput, caller Caller) (*models.Review, error) {
	product, err := s.products.FindByID(ctx, in.ProductID)
	if err != nil {
		return nil, missing(err, apperr.NotFound("Product not found"))
	}

	review := &models.Review{
		UserID:    caller.ID,
		ProductID: product.ID,
		Rating:    in.Rating,
		Content:   in.Content,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	review.Product = product
	return review, nil
}

func (s *ReviewService) FindAll(ctx context.Context, q paginate.Query) (*models.Paginated[models.Review], error) {
	return s.reviews.Paginate(ctx, q)
}

func (s *ReviewService) FindAllByProduct(ctx context.Context, productID uint) ([]models.Review, error) {
	return s.reviews.FindByProduct(ctx, productID)
}

func (s *ReviewService) Update(ctx context.Context, id uint, in ReviewInput, caller Caller) (*models.Review, error) {
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, missing(err, apperr.BadRequest("Nonexistent review to update"))
	}
	if review.ProductID != in.ProductID {
		return nil, apperr.BadRequest("Invalid product id")
	}
	if in.UserID != caller.ID {
		return nil, apperr.BadRequest("Invalid user id")
	}

	review.Rating = in.Rating
	review.Content = in.Content
	if err := s.reviews.Save(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) Remove(ctx context.Context, id uint) error {
	if _, err := s.reviews.FindByID(ctx, id); err != nil {
		return missing(err, apperr.BadRequest("Nonexistent review to delete"))
	}
	_, err := s.reviews.Delete(ctx, id)
	return err
}
