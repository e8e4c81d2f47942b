package core

import (
	"fmt"
	"iter"
	"time"

	"github.com/shopspring/decimal"

	"invadmin/internal/models"
)

// UncategorizedLabel is the grouping label for active products whose category
// name is absent.
const UncategorizedLabel = "Uncategorized"

// DefaultMovementWindow is the number of calendar days shown on the
// dashboard's movement chart.
const DefaultMovementWindow = 7

// InvalidEntityError reports an entity whose required field is missing or
// malformed, discovered while it was being aggregated.
type InvalidEntityError struct {
	Entity string
	Field  string
	ID     string
}

func (e *InvalidEntityError) Error() string {
	return fmt.Sprintf("invalid %s %q: bad or missing %s", e.Entity, e.ID, e.Field)
}

// CategoryStock is one bar of the stock-by-category chart.
type CategoryStock struct {
	Label string `json:"label"`
	Total int    `json:"total"`
	Count int    `json:"count"`
}

// DayMovements is one point of the movements-by-day chart. The ADJ bucket is
// the absolute value of the summed signed adjustment quantities, so an upward
// and a downward correction on the same day partially cancel.
type DayMovements struct {
	Date   string `json:"date"`
	In     int    `json:"IN"`
	Out    int    `json:"OUT"`
	Adjust int    `json:"ADJ"`
}

// MovementTotals sums movement quantities per type across a whole collection.
type MovementTotals struct {
	In     int `json:"IN"`
	Out    int `json:"OUT"`
	Adjust int `json:"ADJ"`
}

// ActiveCount returns the number of active products in the snapshot.
func ActiveCount(products []models.Product) int {
	count := 0
	for _, p := range products {
		if p.IsActive {
			count++
		}
	}
	return count
}

// TotalInventoryValue sums price * quantity over active products using
// decimal arithmetic, so the result renders to two places without float
// drift. Inactive products contribute nothing.
func TotalInventoryValue(products []models.Product) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range products {
		if !p.IsActive {
			continue
		}
		if p.Price.IsNegative() {
			return decimal.Zero, &InvalidEntityError{Entity: "product", Field: "price", ID: p.ID}
		}
		if p.Quantity < 0 {
			return decimal.Zero, &InvalidEntityError{Entity: "product", Field: "quantity", ID: p.ID}
		}
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Quantity))))
	}
	return total, nil
}

// LowStock yields the active products at or below their minimum stock level,
// in snapshot order. The sequence is lazy and restartable: every range over
// it walks the snapshot again, so it is never stale.
func LowStock(products []models.Product) iter.Seq[models.Product] {
	return func(yield func(models.Product) bool) {
		for _, p := range products {
			if p.IsActive && p.Quantity <= p.MinStockLevel {
				if !yield(p) {
					return
				}
			}
		}
	}
}

// StockByCategory groups active products by category name, accumulating the
// summed quantity and product count per label. Buckets are ordered by first
// appearance so chart axes stay stable across recomputations.
func StockByCategory(products []models.Product) []CategoryStock {
	index := make(map[string]int)
	var buckets []CategoryStock
	for _, p := range products {
		if !p.IsActive {
			continue
		}
		label := p.CategoryName
		if label == "" {
			label = UncategorizedLabel
		}
		i, ok := index[label]
		if !ok {
			i = len(buckets)
			index[label] = i
			buckets = append(buckets, CategoryStock{Label: label})
		}
		buckets[i].Total += p.Quantity
		buckets[i].Count++
	}
	return buckets
}

// MovementsByDay buckets movement quantities by calendar date and type over a
// window of windowDays days ending at today, oldest date first. Dates with no
// movements still appear with zero values. A non-positive windowDays falls
// back to DefaultMovementWindow.
func MovementsByDay(movements []models.StockMovement, windowDays int, today time.Time) ([]DayMovements, error) {
	if windowDays <= 0 {
		windowDays = DefaultMovementWindow
	}

	type buckets struct{ in, out, adj int }
	byDate := make(map[string]*buckets)
	for _, m := range movements {
		if m.Timestamp.IsZero() {
			return nil, &InvalidEntityError{Entity: "stock movement", Field: "timestamp", ID: m.ID}
		}
		date := m.Timestamp.Format("2006-01-02")
		b := byDate[date]
		if b == nil {
			b = &buckets{}
			byDate[date] = b
		}
		switch m.MovementType {
		case models.MovementIn:
			b.in += m.Quantity
		case models.MovementOut:
			b.out += m.Quantity
		case models.MovementAdjust:
			b.adj += m.Quantity
		}
	}

	days := make([]DayMovements, 0, windowDays)
	for i := windowDays - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format("2006-01-02")
		day := DayMovements{Date: date}
		if b := byDate[date]; b != nil {
			day.In = b.in
			day.Out = b.out
			day.Adjust = abs(b.adj)
		}
		days = append(days, day)
	}
	return days, nil
}

// MovementTotalsFor sums quantities per movement type across the whole
// collection, not just the chart window. The ADJ total is absolute-valued the
// same way the daily buckets are.
func MovementTotalsFor(movements []models.StockMovement) MovementTotals {
	var totals MovementTotals
	adj := 0
	for _, m := range movements {
		switch m.MovementType {
		case models.MovementIn:
			totals.In += m.Quantity
		case models.MovementOut:
			totals.Out += m.Quantity
		case models.MovementAdjust:
			adj += m.Quantity
		}
	}
	totals.Adjust = abs(adj)
	return totals
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
