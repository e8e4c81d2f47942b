package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"invadmin/internal/models"
)

// MovementFilter narrows a stock movement listing. A zero Limit means no
// limit; Search matches reason, reference and performed_by; MovementType and
// ProductID are exact matches when set.
type MovementFilter struct {
	Limit        int
	Search       string
	MovementType string
	ProductID    string
}

// MovementRepository defines the interface for stock movement data access.
// Movements are append-only audit records, so there is no update or delete.
type MovementRepository interface {
	List(filter MovementFilter) ([]models.StockMovement, error)
	Create(movement *models.StockMovement) error
}

// GORMMovementRepository is a GORM implementation of MovementRepository.
type GORMMovementRepository struct {
	db *gorm.DB
}

// NewGORMMovementRepository creates a new instance of GORMMovementRepository.
func NewGORMMovementRepository(db *gorm.DB) *GORMMovementRepository {
	return &GORMMovementRepository{
		db: db,
	}
}

// List retrieves stock movements, most recent first.
func (r *GORMMovementRepository) List(filter MovementFilter) ([]models.StockMovement, error) {
	query := r.db.Preload("Product").Order("timestamp DESC")
	if filter.MovementType != "" {
		query = query.Where("movement_type = ?", filter.MovementType)
	}
	if filter.ProductID != "" {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"reason LIKE ? OR reference LIKE ? OR performed_by LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var movements []models.StockMovement
	if err := query.Find(&movements).Error; err != nil {
		return nil, fmt.Errorf("failed to list stock movements: %w", err)
	}
	return movements, nil
}

// Create records a new stock movement, generating an ID when none is set.
func (r *GORMMovementRepository) Create(movement *models.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	if err := r.db.Create(movement).Error; err != nil {
		return fmt.Errorf("failed to create stock movement: %w", err)
	}
	return nil
}
