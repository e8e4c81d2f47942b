package services

import (
	"time"

	"invadmin/internal/core"
	"invadmin/internal/models"
	"invadmin/internal/repositories"
)

// recentMovementLimit is how many recent movements feed the dashboard's
// movement metrics.
const recentMovementLimit = 10

// DashboardMetrics is everything the dashboard screen renders. The metrics
// are derived fresh from a snapshot on every call, never cached.
type DashboardMetrics struct {
	ActiveProducts      int                  `json:"active_products"`
	TotalInventoryValue string               `json:"total_inventory_value"`
	LowStock            []models.Product     `json:"low_stock"`
	StockByCategory     []core.CategoryStock `json:"stock_by_category"`
	MovementsByDay      []core.DayMovements  `json:"movements_by_day"`
	MovementTotals      core.MovementTotals  `json:"movement_totals"`
	RecentMovements     int                  `json:"recent_movements"`
}

// DashboardService assembles the product and movement snapshots and runs the
// aggregation engine over them.
type DashboardService struct {
	productRepo  repositories.ProductRepository
	movementRepo repositories.MovementRepository

	// now is swappable for tests; movement windows end at now().
	now func() time.Time
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(productRepo repositories.ProductRepository, movementRepo repositories.MovementRepository) *DashboardService {
	return &DashboardService{
		productRepo:  productRepo,
		movementRepo: movementRepo,
		now:          time.Now,
	}
}

// Metrics computes the full set of dashboard values from the current
// snapshots.
func (s *DashboardService) Metrics() (*DashboardMetrics, error) {
	products, err := s.productRepo.GetAll()
	if err != nil {
		return nil, err
	}
	movements, err := s.movementRepo.List(repositories.MovementFilter{Limit: recentMovementLimit})
	if err != nil {
		return nil, err
	}

	totalValue, err := core.TotalInventoryValue(products)
	if err != nil {
		return nil, err
	}
	byDay, err := core.MovementsByDay(movements, core.DefaultMovementWindow, s.now())
	if err != nil {
		return nil, err
	}

	lowStock := make([]models.Product, 0)
	for p := range core.LowStock(products) {
		lowStock = append(lowStock, p)
	}

	return &DashboardMetrics{
		ActiveProducts:      core.ActiveCount(products),
		TotalInventoryValue: totalValue.StringFixed(2),
		LowStock:            lowStock,
		StockByCategory:     core.StockByCategory(products),
		MovementsByDay:      byDay,
		MovementTotals:      core.MovementTotalsFor(movements),
		RecentMovements:     len(movements),
	}, nil
}
