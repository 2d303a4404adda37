package services

import (
	"context"

	"flowershop_backend/internal/apperr"
	"flowershop_backend/internal/paginate"
	"flowershop_backend/models"
	"flowershop_backend/repositories"

	"github.com/rs/zerolog"
)

type ProductInput struct {
	Name        string
	Description string
	Price       int64
	Brand       string
	Color       string
	Material    string
	IsAvailable bool
	CategoryID  uint
}

type ProductService struct {
	products   *repositories.ProductRepository
	categories *repositories.CategoryRepository
	files      *FileService
	log        zerolog.Logger
}

func NewProductService(
	products *repositories.ProductRepository,
	categories *repositories.CategoryRepository,
	files *FileService,
	log zerolog.Logger,
) *ProductService {
	return &ProductService{products: products, categories: categories, files: files, log: log}
}

// Create stores the product and, when image is set, its image file.
func (s *ProductService) Create(ctx context.Context, in ProductInput, image *Upload) (*models.Product, error) {
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	product := &models.Product{}
	apply(product, in)

	if image != nil {
		file, err := s.files.Store(ctx, *image)
		if err != nil {
			return nil, err
		}
		product.ImageID = &file.ID
	}

	if err := s.products.Create(ctx, product); err != nil {
		if product.ImageID != nil {
			s.dropFile(ctx, *product.ImageID)
		}
		return nil, err
	}
	return s.products.FindByID(ctx, product.ID)
}

func (s *ProductService) FindAll(ctx context.Context, q paginate.Query) (*models.Paginated[models.Product], error) {
	return s.products.Paginate(ctx, q)
}

func (s *ProductService) FindOne(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, missing(err, apperr.NotFound("Nonexistent product"))
	}
	return product, nil
}

// Update replaces the product. A new image replaces the old one, whose record
// and stored object are deleted.
func (s *ProductService) Update(ctx context.Context, id uint, in ProductInput, image *Upload) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, missing(err, apperr.BadRequest("Nonexistent product to update"))
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	apply(product, in)
	product.Category = nil
	product.Image = nil

	var oldImage *uint
	if image != nil {
		file, err := s.files.Store(ctx, *image)
		if err != nil {
			return nil, err
		}
		oldImage = product.ImageID
		product.ImageID = &file.ID
	}

	if err := s.products.Save(ctx, product); err != nil {
		if image != nil {
			s.dropFile(ctx, *product.ImageID)
		}
		return nil, err
	}
	if oldImage != nil {
		s.dropFile(ctx, *oldImage)
	}
	return s.products.FindByID(ctx, id)
}

// Remove deletes the product and then its image.
func (s *ProductService) Remove(ctx context.Context, id uint) error {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return missing(err, apperr.BadRequest("Nonexistent product to delete"))
	}
	if _, err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	if product.ImageID != nil {
		s.dropFile(ctx, *product.ImageID)
	}
	return nil
}

func (s *ProductService) checkCategory(ctx context.Context, categoryID uint) error {
	if categoryID == 0 {
		return apperr.BadRequest("Nonexistent category")
	}
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return missing(err, apperr.BadRequest("Nonexistent category"))
	}
	return nil
}

func (s *ProductService) dropFile(ctx context.Context, fileID uint) {
	if err := s.files.Remove(ctx, fileID); err != nil {
		s.log.Error().Err(err).Uint("file_id", fileID).Msg("failed to delete product image")
	}
}

func apply(p *models.Product, in ProductInput) {
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.Brand = in.Brand
	p.Color = in.Color
	p.Material = in.Material
	p.IsAvailable = in.IsAvailable
	p.CategoryID = in.CategoryID
}
