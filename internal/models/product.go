package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a product in the inventory catalog.
// CategoryName and SupplierName are denormalized for display; they are filled
// from the preloaded associations after a database read.
type Product struct {
	ID            string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name          string          `json:"name" validate:"required,max=200"`
	SKU           string          `json:"sku" gorm:"uniqueIndex;type:varchar(50)" validate:"required"`
	Description   string          `json:"description" validate:"omitempty,max=500"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(10,2)" validate:"required,gt=0"`
	Quantity      int             `json:"quantity" validate:"gte=0"`
	MinStockLevel int             `json:"min_stock_level" validate:"gte=0"`
	CategoryID    string          `json:"category" gorm:"type:varchar(36)" validate:"required"`
	SupplierID    string          `json:"supplier" gorm:"type:varchar(36)" validate:"required"`
	CategoryName  string          `json:"category_name" gorm:"-"`
	SupplierName  string          `json:"supplier_name" gorm:"-"`
	Image         string          `json:"image,omitempty"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	Category *Category `json:"-" gorm:"foreignKey:CategoryID"`
	Supplier *Supplier `json:"-" gorm:"foreignKey:SupplierID"`
}

// IsLowStock reports whether the product is at or below its minimum stock level.
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.MinStockLevel
}

// AfterFind fills the denormalized names from the preloaded associations.
func (p *Product) AfterFind(tx *gorm.DB) error {
	if p.Category != nil {
		p.CategoryName = p.Category.Name
	}
	if p.Supplier != nil {
		p.SupplierName = p.Supplier.Name
	}
	return nil
}
