package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tmarwah/shopline-api/internal/database"
	"github.com/tmarwah/shopline-api/internal/models"
	"github.com/tmarwah/shopline-api/pkg/logger"
)

// ProductRepository handles database operations for catalog products
type ProductRepository struct {
	db     *database.Database
	logger logger.Logger
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(db *database.Database, logger logger.Logger) *ProductRepository {
	return &ProductRepository{
		db:     db,
		logger: logger,
	}
}

const productColumns = `id, name, description, price, image_url, stock, category_id, created_at, updated_at`

// GetByID retrieves a product by its ID
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.db.DB.GetContext(ctx, &product,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get product by ID", "error", err, "productID", id)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return &product, nil
}

// List retrieves the whole catalog ordered by name
func (r *ProductRepository) List(ctx context.Context) ([]*models.Product, error) {
	var products []*models.Product
	err := r.db.DB.SelectContext(ctx, &products,
		`SELECT `+productColumns+` FROM products ORDER BY name`)

	if err != nil {
		r.logger.Error("Failed to list products", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return products, nil
}

// ListByCategory retrieves the products belonging to one category
func (r *ProductRepository) ListByCategory(ctx context.Context, categoryID string) ([]*models.Product, error) {
	var products []*models.Product
	err := r.db.DB.SelectContext(ctx, &products,
		`SELECT `+productColumns+` FROM products WHERE category_id = $1 ORDER BY name`, categoryID)

	if err != nil {
		r.logger.Error("Failed to list products by category", "error", err, "categoryID", categoryID)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return products, nil
}

// Create inserts a new product
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.DB.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.ImageURL,
		product.Stock,
		product.CategoryID,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create product", "error", err, "productID", product.ID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return nil
}

// Update persists changes to an existing product
func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, image_url = $4,
			stock = $5, category_id = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := r.db.DB.ExecContext(
		ctx,
		query,
		product.Name,
		product.Description,
		product.Price,
		product.ImageURL,
		product.Stock,
		product.CategoryID,
		models.GetCurrentTime(),
		product.ID,
	)

	if err != nil {
		r.logger.Error("Failed to update product", "error", err, "productID", product.ID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	rowsAffected, err := result.RowsAffected()

	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a product from the catalog
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)

	if err != nil {
		r.logger.Error("Failed to delete product", "error", err, "productID", id)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	rowsAffected, err := result.RowsAffected()

	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
