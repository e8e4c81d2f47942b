package services

import (
	"invadmin/internal/models"
	"invadmin/internal/repositories"
)

// CategoryService handles business logic related to categories.
type CategoryService struct {
	repo repositories.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{
		repo: repo,
	}
}

// GetAllCategories retrieves categories, optionally filtered by a search
// term over name and description.
func (s *CategoryService) GetAllCategories(search string) ([]models.Category, error) {
	return s.repo.GetAll(search)
}

// GetCategoryByID retrieves a single category by its ID.
func (s *CategoryService) GetCategoryByID(id string) (*models.Category, error) {
	return s.repo.GetByID(id)
}

// CreateCategory creates a new category.
func (s *CategoryService) CreateCategory(category *models.Category) error {
	return s.repo.Create(category)
}

// UpdateCategory updates an existing category.
func (s *CategoryService) UpdateCategory(category *models.Category) error {
	return s.repo.Update(category)
}

// DeleteCategory deletes a category by its ID.
func (s *CategoryService) DeleteCategory(id string) error {
	return s.repo.Delete(id)
}
