package services

import (
	"invadmin/internal/models"
	"invadmin/internal/repositories"
)

// SupplierService handles business logic related to suppliers.
type SupplierService struct {
	repo repositories.SupplierRepository
}

// NewSupplierService creates a new SupplierService.
func NewSupplierService(repo repositories.SupplierRepository) *SupplierService {
	return &SupplierService{
		repo: repo,
	}
}

// GetAllSuppliers retrieves suppliers, optionally filtered by a search term
// over name, contact person and email.
func (s *SupplierService) GetAllSuppliers(search string) ([]models.Supplier, error) {
	return s.repo.GetAll(search)
}

// GetSupplierByID retrieves a single supplier by its ID.
func (s *SupplierService) GetSupplierByID(id string) (*models.Supplier, error) {
	return s.repo.GetByID(id)
}

// CreateSupplier creates a new supplier.
func (s *SupplierService) CreateSupplier(supplier *models.Supplier) error {
	return s.repo.Create(supplier)
}

// UpdateSupplier updates an existing supplier.
func (s *SupplierService) UpdateSupplier(supplier *models.Supplier) error {
	return s.repo.Update(supplier)
}

// DeleteSupplier deletes a supplier by its ID.
func (s *SupplierService) DeleteSupplier(id string) error {
	return s.repo.Delete(id)
}
