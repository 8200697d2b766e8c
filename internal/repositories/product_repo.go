package repositories

import (
	"context"

	"ecomstore/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	List(ctx context.Context, page models.Page) ([]models.Product, error)
	Update(ctx context.Context, id uint, patch models.ProductPatch) (*models.Product, error)
	Delete(ctx context.Context, id uint) (*models.Product, error)
}
