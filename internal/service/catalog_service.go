package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/tmarwah/shopline-api/internal/models"
	"github.com/tmarwah/shopline-api/internal/repository"
	apperrors "github.com/tmarwah/shopline-api/pkg/errors"
	"github.com/tmarwah/shopline-api/pkg/logger"
)

// ProductStore is the persistence interface for catalog mutations
type ProductStore interface {
	ProductCatalog
	List(ctx context.Context) ([]*models.Product, error)
	ListByCategory(ctx context.Context, categoryID string) ([]*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}

// CategoryStore is the persistence interface for the category taxonomy
type CategoryStore interface {
	GetByID(ctx context.Context, id string) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
}

// ProductInput carries the fields for creating or updating a product
type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	Stock       int             `json:"stock"`
	CategoryID  string          `json:"categoryId"`
}

// CatalogService manages products and categories
type CatalogService struct {
	products   ProductStore
	categories CategoryStore
	logger     logger.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(products ProductStore, categories CategoryStore, logger logger.Logger) *CatalogService {
	return &CatalogService{
		products:   products,
		categories: categories,
		logger:     logger,
	}
}

// ListProducts returns the whole catalog
func (s *CatalogService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	return s.products.List(ctx)
}

// GetProduct retrieves one product
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)

	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Product not found: " + id)
		}
		return nil, err
	}

	return product, nil
}

// ListProductsByCategory returns the products of one category
func (s *CatalogService) ListProductsByCategory(ctx context.Context, categoryID string) ([]*models.Product, error) {
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Category not found: " + categoryID)
		}
		return nil, err
	}

	return s.products.ListByCategory(ctx, categoryID)
}

// CreateProduct adds a product to the catalog
func (s *CatalogService) CreateProduct(ctx context.Context, input *ProductInput) (*models.Product, error) {
	if input.Name == "" {
		return nil, apperrors.NewInvalidInputError("product name is required")
	}
	if input.Price.IsNegative() {
		return nil, apperrors.NewInvalidInputError("product price must not be negative")
	}

	if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Category not found: " + input.CategoryID)
		}
		return nil, err
	}

	product := models.NewProduct(
		input.Name,
		input.Description,
		input.Price,
		input.ImageURL,
		input.Stock,
		input.CategoryID,
	)

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product created", "productID", product.ID, "name", product.Name)
	return product, nil
}

// UpdateProduct modifies an existing product
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, input *ProductInput) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)

	if err != nil {
		return nil, err
	}

	if input.Price.IsNegative() {
		return nil, apperrors.NewInvalidInputError("product price must not be negative")
	}

	if input.Name != "" {
		product.Name = input.Name
	}
	if input.Description != "" {
		product.Description = input.Description
	}
	if input.ImageURL != "" {
		product.ImageURL = input.ImageURL
	}
	if input.CategoryID != "" && input.CategoryID != product.CategoryID {
		if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NewNotFoundError("Category not found: " + input.CategoryID)
			}
			return nil, err
		}
		product.CategoryID = input.CategoryID
	}
	if !input.Price.IsZero() {
		product.Price = input.Price
	}
	if input.Stock >= 0 {
		product.Stock = input.Stock
	}

	if err := s.products.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Product not found: " + id)
		}
		return nil, err
	}

	s.logger.Info("Product updated", "productID", product.ID)
	return product, nil
}

// DeleteProduct removes a product from the catalog
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFoundError("Product not found: " + id)
		}
		return err
	}

	s.logger.Info("Product deleted", "productID", id)
	return nil
}

// ListCategories returns all categories
func (s *CatalogService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.categories.List(ctx)
}

// GetCategory retrieves one category
func (s *CatalogService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)

	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Category not found: " + id)
		}
		return nil, err
	}

	return category, nil
}

// CreateCategory adds a category to the taxonomy
func (s *CatalogService) CreateCategory(ctx context.Context, name, description string) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.NewInvalidInputError("category name is required")
	}

	category := models.NewCategory(name, description)

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("Category created", "categoryID", category.ID, "name", category.Name)
	return category, nil
}
