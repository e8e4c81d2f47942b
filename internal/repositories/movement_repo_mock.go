package repositories

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"invadmin/internal/models"
)

// MockMovementRepository is an in-memory implementation of MovementRepository.
type MockMovementRepository struct {
	movements []models.StockMovement
	mu        sync.RWMutex
}

// NewMockMovementRepository creates a new instance of MockMovementRepository.
func NewMockMovementRepository() *MockMovementRepository {
	return &MockMovementRepository{}
}

// List returns stock movements most recent first, applying the filter the
// same way the GORM repository does.
func (r *MockMovementRepository) List(filter MovementFilter) ([]models.StockMovement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.StockMovement, 0, len(r.movements))
	for _, m := range r.movements {
		if filter.MovementType != "" && m.MovementType != filter.MovementType {
			continue
		}
		if filter.ProductID != "" && m.ProductID != filter.ProductID {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(m.Reason, filter.Search) &&
			!strings.Contains(m.Reference, filter.Search) &&
			!strings.Contains(m.PerformedBy, filter.Search) {
			continue
		}
		matched = append(matched, m)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

// Create records a new stock movement.
func (r *MockMovementRepository) Create(movement *models.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	r.movements = append(r.movements, *movement)
	return nil
}
