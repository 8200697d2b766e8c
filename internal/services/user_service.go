package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ecomstore/internal/models"
	"ecomstore/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// UserService handles business logic related to users.
type UserService struct {
	repo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

// CreateUser registers a new user. The password is stored as a bcrypt hash.
func (s *UserService) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" || email == "" || req.Password == "" {
		return nil, invalid("name, email and password are required")
	}
	if err := s.ensureEmailFree(ctx, email, 0); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Name: name, Email: email, Password: hash}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser retrieves a single user by ID.
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// ListUsers retrieves a page of users.
func (s *UserService) ListUsers(ctx context.Context, page models.Page) ([]models.User, error) {
	return s.repo.List(ctx, page)
}

// UpdateUser applies a partial update to a user.
func (s *UserService) UpdateUser(ctx context.Context, id uint, patch models.UserPatch) (*models.User, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, invalid("name must not be empty")
		}
		patch.Name = &name
	}
	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		if email == "" {
			return nil, invalid("email must not be empty")
		}
		// a missing user is reported before any email conflict
		if _, err := s.repo.GetByID(ctx, id); err != nil {
			return nil, err
		}
		if err := s.ensureEmailFree(ctx, email, id); err != nil {
			return nil, err
		}
		patch.Email = &email
	}
	if patch.Password != nil {
		if *patch.Password == "" {
			return nil, invalid("password must not be empty")
		}
		hash, err := hashPassword(*patch.Password)
		if err != nil {
			return nil, err
		}
		patch.Password = &hash
	}
	return s.repo.Update(ctx, id, patch)
}

// DeleteUser deletes a user by ID and returns it.
func (s *UserService) DeleteUser(ctx context.Context, id uint) (*models.User, error) {
	return s.repo.Delete(ctx, id)
}

// ensureEmailFree fails with ErrConflict when email belongs to a user other
// than owner.
func (s *UserService) ensureEmailFree(ctx context.Context, email string, owner uint) error {
	existing, err := s.repo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != owner:
		return fmt.Errorf("email '%s' already registered: %w", email, repositories.ErrConflict)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
