package services

import (
	"invadmin/internal/models"
	"invadmin/internal/repositories"
)

// MovementService handles listing of the stock movement audit trail.
// Movements themselves are created by stock adjustments, not directly.
type MovementService struct {
	repo repositories.MovementRepository
}

// NewMovementService creates a new MovementService.
func NewMovementService(repo repositories.MovementRepository) *MovementService {
	return &MovementService{
		repo: repo,
	}
}

// ListMovements retrieves stock movements most recent first, narrowed by the
// given filter.
func (s *MovementService) ListMovements(filter repositories.MovementFilter) ([]models.StockMovement, error) {
	return s.repo.List(filter)
}
