package services

import (
	"context"

	"flowershop_backend/internal/apperr"
	"flowershop_backend/internal/paginate"
	"flowershop_backend/models"
	"flowershop_backend/repositories"
)

type CategoryInput struct {
	Name        string
	Description string
	ParentID    *uint
}

type CategoryService struct {
	categories *repositories.CategoryRepository
}

func NewCategoryService(categories *repositories.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if err := s.checkParent(ctx, in.ParentID); err != nil {
		return nil, err
	}

	category := &models.Category{Name: in.Name, Description: in.Description, ParentID: in.ParentID}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return s.categories.FindByID(ctx, category.ID)
}

func (s *CategoryService) FindAll(ctx context.Context, q paginate.Query) (*models.Paginated[models.Category], error) {
	return s.categories.Paginate(ctx, q)
}

func (s *CategoryService) FindOne(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, missing(err, apperr.NotFound("Nonexistent category"))
	}
	return category, nil
}

func (s *CategoryService) Children(ctx context.Context, id uint) ([]models.Category, error) {
	if _, err := s.FindOne(ctx, id); err != nil {
		return nil, err
	}
	return s.categories.Children(ctx, id)
}

// Update replaces the category. A nil ParentID detaches it from its parent.
func (s *CategoryService) Update(ctx context.Context, id uint, in CategoryInput) (*models.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, missing(err, apperr.BadRequest("Nonexistent category to update"))
	}
	if err := s.checkParent(ctx, in.ParentID); err != nil {
		return nil, err
	}
	if err := s.checkAncestry(ctx, id, in.ParentID); err != nil {
		return nil, err
	}

	category.Name = in.Name
	category.Description = in.Description
	category.ParentID = in.ParentID
	category.Parent = nil
	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}
	return s.categories.FindByID(ctx, id)
}

// Remove deletes the category. Products or children still pointing at it
// make the database reject the delete and the error is returned as is.
func (s *CategoryService) Remove(ctx context.Context, id uint) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		return missing(err, apperr.BadRequest("Nonexistent category to delete"))
	}
	_, err := s.categories.Delete(ctx, id)
	return err
}

func (s *CategoryService) checkParent(ctx context.Context, parentID *uint) error {
	if parentID == nil {
		return nil
	}
	if _, err := s.categories.FindByID(ctx, *parentID); err != nil {
		return missing(err, apperr.BadRequest("Nonexistent parent category"))
	}
	return nil
}

// checkAncestry walks up from parentID and rejects the move if it reaches id.
func (s *CategoryService) checkAncestry(ctx context.Context, id uint, parentID *uint) error {
	seen := map[uint]bool{}
	for cur := parentID; cur != nil; {
		if *cur == id {
			return apperr.BadRequest("Category cannot be its own ancestor")
		}
		if seen[*cur] {
			// Existing data already contains a loop that does not pass through id.
			return nil
		}
		seen[*cur] = true

		next, err := s.categories.ParentOf(ctx, *cur)
		if err != nil {
			return err
		}
		cur = next
	}
	return nil
}
