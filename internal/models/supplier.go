package models

import "time"

// Supplier represents a vendor that products are sourced from.
type Supplier struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name          string    `json:"name" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=2,max=100"`
	ContactPerson string    `json:"contact_person" validate:"omitempty,max=100"`
	Email         string    `json:"email" validate:"omitempty,email"`
	Phone         string    `json:"phone" validate:"omitempty,max=20"`
	Address       string    `json:"address"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
