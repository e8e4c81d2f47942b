package models

import (
	"time"

	"gorm.io/gorm"
)

// Movement types. ADJ quantities may be negative to record a downward
// correction; IN and OUT quantities are stored positive.
const (
	MovementIn     = "IN"
	MovementOut    = "OUT"
	MovementAdjust = "ADJ"
)

// StockMovement is an audit record of a change to a product's quantity.
type StockMovement struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID    string    `json:"product" gorm:"type:varchar(36);index" validate:"required"`
	ProductName  string    `json:"product_name" gorm:"-"`
	Quantity     int       `json:"quantity"`
	MovementType string    `json:"movement_type" gorm:"type:varchar(3)" validate:"required,oneof=IN OUT ADJ"`
	Reason       string    `json:"reason" validate:"omitempty,max=200"`
	Reference    string    `json:"reference" validate:"omitempty,max=100"`
	PerformedBy  string    `json:"performed_by" validate:"omitempty,max=100"`
	Timestamp    time.Time `json:"timestamp" gorm:"index"`

	Product *Product `json:"-" gorm:"foreignKey:ProductID"`
}

// AfterFind fills the denormalized product name from the preloaded association.
func (m *StockMovement) AfterFind(tx *gorm.DB) error {
	if m.Product != nil {
		m.ProductName = m.Product.Name
	}
	return nil
}
