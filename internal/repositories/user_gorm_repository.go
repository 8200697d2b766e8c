package repositories

import (
	"context"
	"fmt"

	"ecomstore/internal/models"

	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return translate("create user", err)
	}
	return nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(fmt.Sprintf("get user %d", id), err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, translate(fmt.Sprintf("get user by email %s", email), err)
	}
	return &user, nil
}

// List returns a page of users ordered by ID.
func (r *GORMUserRepository) List(ctx context.Context, page models.Page) ([]models.User, error) {
	page = page.Normalize()
	var users []models.User
	err := r.db.WithContext(ctx).
		Order("id").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&users).Error
	if err != nil {
		return nil, translate("list users", err)
	}
	return users, nil
}

// Update applies the fields set in patch and returns the updated user.
func (r *GORMUserRepository) Update(ctx context.Context, id uint, patch models.UserPatch) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}
		if changes := patch.Changes(); len(changes) > 0 {
			if err := tx.Model(&user).Updates(changes).Error; err != nil {
				return err
			}
		}
		return tx.First(&user, id).Error
	})
	if err != nil {
		return nil, translate(fmt.Sprintf("update user %d", id), err)
	}
	return &user, nil
}

// Delete removes a user and returns the deleted record. Users that still own
// orders cannot be deleted.
func (r *GORMUserRepository) Delete(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}
		var orders int64
		if err := tx.Model(&models.Order{}).Where("user_id = ?", id).Count(&orders).Error; err != nil {
			return err
		}
		if orders > 0 {
			return fmt.Errorf("user %d owns %d orders: %w", id, orders, ErrConflict)
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return nil, translate(fmt.Sprintf("delete user %d", id), err)
	}
	return &user, nil
}
