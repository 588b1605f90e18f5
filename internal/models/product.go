package models

import "time"

// Product represents a product in the catalog.
type Product struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string    `json:"name" gorm:"type:varchar(100);not null"`
	Price        float64   `json:"price" gorm:"not null"`
	Availability bool      `json:"availability" gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName pins the table name used by gorm.
func (Product) TableName() string {
	return "products"
}

// ProductInput carries the fields a client may set on create and full update.
type ProductInput struct {
	Name         string
	Price        float64
	Availability *bool
}
