package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the store.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"type:varchar(100);not null"`
	Description *string         `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock       int             `json:"stock" gorm:"not null;default:0"`
	CreatedAt   time.Time       `json:"created_at" gorm:"index"`
}

// CreateProductRequest is the payload for adding a product.
type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required,min=1,max=100"`
	Description *string          `json:"description" validate:"omitempty,max=500"`
	Price       *decimal.Decimal `json:"price" validate:"required,gte=0,lte=99999999.99"`
	Stock       int              `json:"stock" validate:"gte=0"`
}

// ProductPatch lists the product fields that may be changed. Nil fields are
// left untouched.
type ProductPatch struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string          `json:"description" validate:"omitempty,max=500"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gte=0,lte=99999999.99"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
}

// Changes returns the column updates carried by the patch.
func (p ProductPatch) Changes() map[string]interface{} {
	changes := make(map[string]interface{})
	if p.Name != nil {
		changes["name"] = *p.Name
	}
	if p.Description != nil {
		changes["description"] = *p.Description
	}
	if p.Price != nil {
		changes["price"] = *p.Price
	}
	if p.Stock != nil {
		changes["stock"] = *p.Stock
	}
	return changes
}
