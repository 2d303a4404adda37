package repositories

import (
	"context"

	"flowershop_backend/internal/paginate"
	"flowershop_backend/models"

	"gorm.io/gorm"
)

var ProductPagination = paginate.Config{
	Table: "products",
	Columns: map[string]string{
		"category.name": "category.name",
	},
	Sortable:      []string{"id", "name", "description", "category.name", "price", "material", "color", "brand"},
	Searchable:    []string{"id", "name", "description", "category.name"},
	Filterable:    []string{"name"},
	DefaultSortBy: [][2]string{{"id", "DESC"}},
	Joins:         []string{"LEFT JOIN categories AS category ON category.id = products.category_id"},
	Preloads:      []string{"Category", "Image"},
}

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit("Category", "Image").Create(product).Error
}

func (r *ProductRepository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Category").Preload("Image").First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

// Save writes the columns and drops the loaded associations so a
// stale Image pointer can never be re-inserted.
func (r *ProductRepository) Save(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit("Category", "Image").Save(product).Error
}

func (r *ProductRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	return res.RowsAffected, res.Error
}

func (r *ProductRepository) Paginate(ctx context.Context, q paginate.Query) (*models.Paginated[models.Product], error) {
	return paginate.Paginate[models.Product](ctx, r.db, ProductPagination, q)
}

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Create(ctx context.Context, file *models.File) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *FileRepository) FindByID(ctx context.Context, id uint) (*models.File, error) {
	var file models.File
	if err := r.db.WithContext(ctx).First(&file, id).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *FileRepository) FindByPath(ctx context.Context, path string) (*models.File, error) {
	var file models.File
	if err := r.db.WithContext(ctx).Where("path = ?", path).First(&file).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *FileRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.File{}, id)
	return res.RowsAffected, res.Error
}
