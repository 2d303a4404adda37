package repositories

import (
	"context"

	"flowershop_backend/models"

	"gorm.io/gorm"
)

type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) Create(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Omit("User", "Product").Create(item).Error
}

func (r *CartRepository) FindByID(ctx context.Context, id uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByProduct returns the first row for productID. userID narrows the
// lookup to one user's cart when set.
func (r *CartRepository) FindByProduct(ctx context.Context, productID uint, userID *uint) (*models.CartItem, error) {
	q := r.db.WithContext(ctx).Where("product_id = ?", productID)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	var item models.CartItem
	if err := q.Order("id").First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *CartRepository) FindByUser(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).Preload("Product").Where("user_id = ?", userID).Order("id").Find(&items).Error
	return items, err
}

func (r *CartRepository) Save(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Omit("User", "Product").Save(item).Error
}

func (r *CartRepository) UpdateQuantity(ctx context.Context, id uint, quantity int) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.CartItem{}).Where("id = ?", id).Update("quantity", quantity)
	return res.RowsAffected, res.Error
}

func (r *CartRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.CartItem{}, id)
	return res.RowsAffected, res.Error
}

func (r *CartRepository) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

func (r *CartRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.CartItem{}).Error
}
