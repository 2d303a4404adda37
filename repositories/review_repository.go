package repositories

import (
	"context"

	"flowershop_backend/internal/paginate"
	"flowershop_backend/models"

	"gorm.io/gorm"
)

var ReviewPagination = paginate.Config{
	Table: "reviews",
	Columns: map[string]string{
		"product.name": "product.name",
	},
	Sortable:      []string{"id", "rating", "product.name"},
	Searchable:    []string{"content", "product.name"},
	Filterable:    []string{"rating"},
	DefaultSortBy: [][2]string{{"id", "DESC"}},
	Joins:         []string{"LEFT JOIN products AS product ON product.id = reviews.product_id"},
	Preloads:      []string{"Product"},
}

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Omit("User", "Product").Create(review).Error
}

func (r *ReviewRepository) FindByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).Preload("Product").First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepository) FindByProduct(ctx context.Context, productID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("id DESC").Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepository) Save(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Omit("User", "Product").Save(review).Error
}

func (r *ReviewRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Review{}, id)
	return res.RowsAffected, res.Error
}

func (r *ReviewRepository) Paginate(ctx context.Context, q paginate.Query) (*models.Paginated[models.Review], error) {
	return paginate.Paginate[models.Review](ctx, r.db, ReviewPagination, q)
}
