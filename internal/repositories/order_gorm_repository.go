package repositories

import (
	"context"
	"fmt"

	"ecomstore/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

func itemsInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func (r *GORMOrderRepository) query(ctx context.Context, loading ItemLoading) *gorm.DB {
	q := r.db.WithContext(ctx)
	if loading == WithItems {
		q = q.Preload("Items", itemsInOrder)
	}
	return q
}

// Create inserts the order row and its item rows in one transaction.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := order.Items
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if len(items) > 0 {
			if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
				return err
			}
		}
		order.Items = items
		return nil
	})
	if err != nil {
		return translate("create order", err)
	}
	return nil
}

// GetByID retrieves a single order, optionally with its items.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id uint, loading ItemLoading) (*models.Order, error) {
	var order models.Order
	if err := r.query(ctx, loading).First(&order, id).Error; err != nil {
		return nil, translate(fmt.Sprintf("get order %d", id), err)
	}
	return &order, nil
}

// List returns a page of orders, newest first.
func (r *GORMOrderRepository) List(ctx context.Context, page models.Page, loading ItemLoading) ([]models.Order, error) {
	page = page.Normalize()
	var orders []models.Order
	err := r.query(ctx, loading).
		Order("created_at DESC").
		Order("id DESC").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, translate("list orders", err)
	}
	return orders, nil
}

// ListByUser returns a page of the user's orders, newest first.
func (r *GORMOrderRepository) ListByUser(ctx context.Context, userID uint, page models.Page, loading ItemLoading) ([]models.Order, error) {
	page = page.Normalize()
	var orders []models.Order
	err := r.query(ctx, loading).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, translate(fmt.Sprintf("list orders of user %d", userID), err)
	}
	return orders, nil
}

// Update applies patch to the order. Items and total are never touched.
func (r *GORMOrderRepository) Update(ctx context.Context, id uint, patch models.OrderPatch) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, id).Error; err != nil {
			return err
		}
		if changes := patch.Changes(); len(changes) > 0 {
			if err := tx.Model(&order).Updates(changes).Error; err != nil {
				return err
			}
		}
		return tx.Preload("Items", itemsInOrder).First(&order, id).Error
	})
	if err != nil {
		return nil, translate(fmt.Sprintf("update order %d", id), err)
	}
	return &order, nil
}

// Delete removes the order's items and then the order in one transaction.
func (r *GORMOrderRepository) Delete(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items", itemsInOrder).First(&order, id).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, id).Error
	})
	if err != nil {
		return nil, translate(fmt.Sprintf("delete order %d", id), err)
	}
	return &order, nil
}
