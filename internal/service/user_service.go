package service

import (
	"context"
	"errors"

	"github.com/tmarwah/shopline-api/internal/models"
	"github.com/tmarwah/shopline-api/internal/repository"
	"github.com/tmarwah/shopline-api/pkg/auth"
	apperrors "github.com/tmarwah/shopline-api/pkg/errors"
	"github.com/tmarwah/shopline-api/pkg/logger"
)

// UserStore is the persistence interface for user accounts
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// SignupRequest carries the fields for registering a new account
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// AuthResponse is returned from signup and login
type AuthResponse struct {
	Token    string `json:"token"`
	Type     string `json:"type"`
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// UserService handles signup, login and profile lookups. The caller's
// identity is always passed in explicitly; the service never reads it
// from ambient state.
type UserService struct {
	users  UserStore
	tokens *auth.TokenManager
	logger logger.Logger
}

// NewUserService creates a new UserService
func NewUserService(users UserStore, tokens *auth.TokenManager, logger logger.Logger) *UserService {
	return &UserService{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// Signup registers a new account and returns a bearer token for it
func (s *UserService) Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, apperrors.NewInvalidInputError("username, email and password are required")
	}

	taken, err := s.users.ExistsByUsername(ctx, req.Username)

	if err != nil {
		return nil, err
	}

	if taken {
		return nil, apperrors.NewConflictError("Username is already taken!")
	}

	inUse, err := s.users.ExistsByEmail(ctx, req.Email)

	if err != nil {
		return nil, err
	}

	if inUse {
		return nil, apperrors.NewConflictError("Email is already in use!")
	}

	hash, err := auth.HashPassword(req.Password)

	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password")
	}

	user := models.NewUser(req.Username, req.Email, hash, req.FullName, req.Phone, req.Address)

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", "userID", user.ID, "username", user.Username)

	return s.issueToken(user)
}

// Login verifies credentials and returns a bearer token. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	user, err := s.users.GetByUsername(ctx, username)

	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorizedError("Invalid username or password")
		}
		return nil, err
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, apperrors.NewUnauthorizedError("Invalid username or password")
	}

	s.logger.Info("User logged in", "userID", user.ID, "username", user.Username)

	return s.issueToken(user)
}

// GetProfile returns the account for an authenticated identity
func (s *UserService) GetProfile(ctx context.Context, identity *auth.Identity) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, identity.Username)

	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("User not found: " + identity.Username)
		}
		return nil, err
	}

	return user, nil
}

func (s *UserService) issueToken(user *models.User) (*AuthResponse, error) {
	token, err := s.tokens.GenerateToken(auth.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})

	if err != nil {
		return nil, apperrors.NewInternalError("failed to issue token")
	}

	return &AuthResponse{
		Token:    token,
		Type:     "Bearer",
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
	}, nil
}
