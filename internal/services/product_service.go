package services

import (
	"context"
	"strings"

	"ecomstore/internal/models"
	"ecomstore/internal/repositories"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// ListProducts retrieves a page of products, newest first.
func (s *ProductService) ListProducts(ctx context.Context, page models.Page) ([]models.Product, error) {
	return s.repo.List(ctx, page)
}

// GetProduct retrieves a single product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("name is required")
	}
	if req.Price == nil {
		return nil, invalid("price is required")
	}
	if err := checkAmount("price", *req.Price, MaxPrice); err != nil {
		return nil, err
	}
	if req.Stock < 0 {
		return nil, invalid("stock must not be negative")
	}

	product := &models.Product{
		Name:        name,
		Description: req.Description,
		Price:       *req.Price,
		Stock:       req.Stock,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct applies a partial update to a product.
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, patch models.ProductPatch) (*models.Product, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, invalid("name must not be empty")
		}
		patch.Name = &name
	}
	if patch.Price != nil {
		if err := checkAmount("price", *patch.Price, MaxPrice); err != nil {
			return nil, err
		}
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return nil, invalid("stock must not be negative")
	}
	return s.repo.Update(ctx, id, patch)
}

// DeleteProduct deletes a product by its ID and returns it.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) (*models.Product, error) {
	return s.repo.Delete(ctx, id)
}
