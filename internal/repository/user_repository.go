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

// UserRepository handles database operations for user accounts
type UserRepository struct {
	db     *database.Database
	logger logger.Logger
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *database.Database, logger logger.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

const userColumns = `id, username, email, password_hash, full_name, phone, address, created_at`

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.DB.ExecContext(
		ctx,
		query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.Phone,
		user.Address,
		user.CreatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create user", "error", err, "username", user.Username)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.DB.GetContext(ctx, &user,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get user by username", "error", err, "username", username)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return &user, nil
}

// ExistsByUsername reports whether a username is already taken
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.DB.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username)

	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return exists, nil
}

// ExistsByEmail reports whether an email is already registered
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.DB.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)

	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return exists, nil
}
