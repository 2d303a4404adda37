package repositories

import (
	"context"

	"flowershop_backend/internal/paginate"
	"flowershop_backend/models"

	"gorm.io/gorm"
)

var OrderPagination = paginate.Config{
	Table:         "orders",
	Sortable:      []string{"id", "status", "address", "total_sum"},
	Searchable:    []string{"id", "status", "address", "total_sum"},
	Filterable:    []string{"status"},
	DefaultSortBy: [][2]string{{"id", "DESC"}},
	Preloads:      []string{"Products"},
}

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts the order and its order_products rows. Products must already exist.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit("User", "Products.*").Create(order).Error
}

func (r *OrderRepository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Products").Preload("User").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) FindByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).Preload("Products").Where("user_id = ?", userID).Order("id DESC").Find(&orders).Error
	return orders, err
}

// Save replaces the order columns and its product set.
func (r *OrderRepository) Save(ctx context.Context, order *models.Order) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit("User", "Products").Save(order).Error; err != nil {
		return err
	}
	return db.Model(order).Omit("Products.*").Association("Products").Replace(order.Products)
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	return res.RowsAffected, res.Error
}

func (r *OrderRepository) UpdatePaymentStatus(ctx context.Context, id uint, status models.PaymentStatus) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("payment_status", status)
	return res.RowsAffected, res.Error
}

// Delete removes the order together with its order_products rows.
func (r *OrderRepository) Delete(ctx context.Context, order *models.Order) (int64, error) {
	res := r.db.WithContext(ctx).Select("Products").Delete(order)
	return res.RowsAffected, res.Error
}

// Paginate lists orders; a non-nil userID restricts the list to that user.
func (r *OrderRepository) Paginate(ctx context.Context, q paginate.Query, userID *uint) (*models.Paginated[models.Order], error) {
	db := r.db
	if userID != nil {
		db = db.Where("orders.user_id = ?", *userID)
	}
	return paginate.Paginate[models.Order](ctx, db, OrderPagination, q)
}
