package repositories

import (
	"context"
	"fmt"

	"ecomstore/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return translate("create product", err)
	}
	return nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, translate(fmt.Sprintf("get product %d", id), err)
	}
	return &product, nil
}

// List returns a page of products, newest first.
func (r *GORMProductRepository) List(ctx context.Context, page models.Page) ([]models.Product, error) {
	page = page.Normalize()
	var products []models.Product
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&products).Error
	if err != nil {
		return nil, translate("list products", err)
	}
	return products, nil
}

// Update applies the fields set in patch and returns the updated product.
// Existing order items keep the price they were created with.
func (r *GORMProductRepository) Update(ctx context.Context, id uint, patch models.ProductPatch) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, id).Error; err != nil {
			return err
		}
		if changes := patch.Changes(); len(changes) > 0 {
			if err := tx.Model(&product).Updates(changes).Error; err != nil {
				return err
			}
		}
		return tx.First(&product, id).Error
	})
	if err != nil {
		return nil, translate(fmt.Sprintf("update product %d", id), err)
	}
	return &product, nil
}

// Delete removes a product and returns the deleted record. Products
// referenced by any order item cannot be deleted.
func (r *GORMProductRepository) Delete(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, id).Error; err != nil {
			return err
		}
		var items int64
		if err := tx.Model(&models.OrderItem{}).Where("product_id = ?", id).Count(&items).Error; err != nil {
			return err
		}
		if items > 0 {
			return fmt.Errorf("product %d is referenced by %d order items: %w", id, items, ErrConflict)
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		return nil, translate(fmt.Sprintf("delete product %d", id), err)
	}
	return &product, nil
}
