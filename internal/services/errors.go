package services

import (
	"errors"
	"fmt"

	"ecomstore/internal/repositories"
)

var (
	// ErrInvalidInput is returned when a request breaks a field rule.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUserNotFound is returned when an order references a missing user.
	ErrUserNotFound = fmt.Errorf("user not found: %w", repositories.ErrNotFound)
)

// ProductNotFoundError identifies the product an order referenced that does
// not exist. It matches repositories.ErrNotFound.
type ProductNotFoundError struct {
	ProductID uint
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

func (e *ProductNotFoundError) Is(target error) bool {
	return target == repositories.ErrNotFound
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
