package repositories

import (
	"context"

	"flowershop_backend/internal/paginate"
	"flowershop_backend/models"

	"gorm.io/gorm"
)

var CategoryPagination = paginate.Config{
	Table: "categories",
	Columns: map[string]string{
		"parent.id":   "parent.id",
		"parent.name": "parent.name",
	},
	Sortable:      []string{"id", "name", "description", "parent.id", "parent.name"},
	Searchable:    []string{"id", "name", "description", "parent.id"},
	Filterable:    []string{"name"},
	DefaultSortBy: [][2]string{{"id", "DESC"}},
	Joins:         []string{"LEFT JOIN categories AS parent ON parent.id = categories.parent_id"},
	Preloads:      []string{"Parent"},
}

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Omit("Parent").Create(category).Error
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Preload("Parent").First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) Children(ctx context.Context, parentID uint) ([]models.Category, error) {
	var children []models.Category
	err := r.db.WithContext(ctx).Where("parent_id = ?", parentID).Order("id").Find(&children).Error
	return children, err
}

// ParentOf returns the parent id of id, or nil for a root category.
func (r *CategoryRepository) ParentOf(ctx context.Context, id uint) (*uint, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Select("id", "parent_id").First(&category, id).Error; err != nil {
		return nil, err
	}
	return category.ParentID, nil
}

func (r *CategoryRepository) Save(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Omit("Parent").Save(category).Error
}

func (r *CategoryRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, id)
	return res.RowsAffected, res.Error
}

func (r *CategoryRepository) Paginate(ctx context.Context, q paginate.Query) (*models.Paginated[models.Category], error) {
	return paginate.Paginate[models.Category](ctx, r.db, CategoryPagination, q)
}
