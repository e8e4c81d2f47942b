package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"invadmin/internal/models"
)

// SupplierRepository defines the interface for supplier data access.
type SupplierRepository interface {
	GetAll(search string) ([]models.Supplier, error)
	GetByID(id string) (*models.Supplier, error)
	Create(supplier *models.Supplier) error
	Update(supplier *models.Supplier) error
	Delete(id string) error
}

// GORMSupplierRepository is a GORM implementation of SupplierRepository.
type GORMSupplierRepository struct {
	db *gorm.DB
}

// NewGORMSupplierRepository creates a new instance of GORMSupplierRepository.
func NewGORMSupplierRepository(db *gorm.DB) *GORMSupplierRepository {
	return &GORMSupplierRepository{
		db: db,
	}
}

// GetAll retrieves suppliers ordered by name. A non-empty search term
// matches name, contact person and email.
func (r *GORMSupplierRepository) GetAll(search string) ([]models.Supplier, error) {
	query := r.db.Order("name")
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"name LIKE ? OR contact_person LIKE ? OR email LIKE ?",
			pattern, pattern, pattern,
		)
	}
	var suppliers []models.Supplier
	if err := query.Find(&suppliers).Error; err != nil {
		return nil, fmt.Errorf("failed to get all suppliers: %w", err)
	}
	return suppliers, nil
}

// GetByID retrieves a single supplier by its ID.
func (r *GORMSupplierRepository) GetByID(id string) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.First(&supplier, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("supplier with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get supplier by ID %s: %w", id, err)
	}
	return &supplier, nil
}

// Create creates a new supplier, generating an ID when none is set.
func (r *GORMSupplierRepository) Create(supplier *models.Supplier) error {
	if supplier.ID == "" {
		supplier.ID = uuid.New().String()
	}
	if err := r.db.Create(supplier).Error; err != nil {
		return fmt.Errorf("failed to create supplier: %w", err)
	}
	return nil
}

// Update updates an existing supplier.
func (r *GORMSupplierRepository) Update(supplier *models.Supplier) error {
	res := r.db.Save(supplier)
	if res.Error != nil {
		return fmt.Errorf("failed to update supplier: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("supplier with ID %s not found for update", supplier.ID)
	}
	return nil
}

// Delete deletes a supplier by its ID.
func (r *GORMSupplierRepository) Delete(id string) error {
	res := r.db.Delete(&models.Supplier{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete supplier: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("supplier with ID %s not found for deletion", id)
	}
	return nil
}
