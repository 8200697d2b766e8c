package repositories

import (
	"context"

	"ecomstore/internal/models"
)

// ItemLoading selects whether order reads also fetch the order's items.
type ItemLoading bool

const (
	WithoutItems ItemLoading = false
	WithItems    ItemLoading = true
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// Create inserts the order and all of its items atomically.
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uint, loading ItemLoading) (*models.Order, error)
	List(ctx context.Context, page models.Page, loading ItemLoading) ([]models.Order, error)
	ListByUser(ctx context.Context, userID uint, page models.Page, loading ItemLoading) ([]models.Order, error)
	// Update applies patch and returns the order with its items.
	Update(ctx context.Context, id uint, patch models.OrderPatch) (*models.Order, error)
	// Delete removes the order and its items and returns the deleted snapshot.
	Delete(ctx context.Context, id uint) (*models.Order, error)
}
