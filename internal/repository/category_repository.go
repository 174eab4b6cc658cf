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

// CategoryRepository handles database operations for categories
type CategoryRepository struct {
	db     *database.Database
	logger logger.Logger
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *database.Database, logger logger.Logger) *CategoryRepository {
	return &CategoryRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves a category by its ID
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	err := r.db.DB.GetContext(ctx, &category,
		`SELECT id, name, description FROM categories WHERE id = $1`, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get category by ID", "error", err, "categoryID", id)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return &category, nil
}

// List retrieves all categories ordered by name
func (r *CategoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	err := r.db.DB.SelectContext(ctx, &categories,
		`SELECT id, name, description FROM categories ORDER BY name`)

	if err != nil {
		r.logger.Error("Failed to list categories", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return categories, nil
}

// Create inserts a new category
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	_, err := r.db.DB.ExecContext(
		ctx,
		`INSERT INTO categories (id, name, description) VALUES ($1, $2, $3)`,
		category.ID,
		category.Name,
		category.Description,
	)

	if err != nil {
		r.logger.Error("Failed to create category", "error", err, "categoryID", category.ID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return nil
}
