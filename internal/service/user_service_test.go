package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmarwah/shopline-api/internal/models"
	"github.com/tmarwah/shopline-api/internal/repository"
	"github.com/tmarwah/shopline-api/pkg/auth"
	apperrors "github.com/tmarwah/shopline-api/pkg/errors"
	"github.com/tmarwah/shopline-api/pkg/logger"
)

type fakeUserStore struct {
	byUsername map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byUsername: make(map[string]*models.User)}
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	f.byUsername[user.Username] = user
	return nil
}

func (f *fakeUserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, ok := f.byUsername[username]

	if !ok {
		return nil, repository.ErrNotFound
	}

	return user, nil
}

func (f *fakeUserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, ok := f.byUsername[username]
	return ok, nil
}

func (f *fakeUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	for _, user := range f.byUsername {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func newUserTestService() (*UserService, *fakeUserStore) {
	store := newFakeUserStore()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewUserService(store, tokens, logger.NewLogger("error")), store
}

func signupReq() *SignupRequest {
	return &SignupRequest{
		Username: "jane",
		Email:    "jane@example.com",
		Password: "s3cret-pass",
		FullName: "Jane Doe",
	}
}

func TestSignupIssuesVerifiableToken(t *testing.T) {
	svc, store := newUserTestService()

	resp, err := svc.Signup(context.Background(), signupReq())
	require.NoError(t, err)

	assert.Equal(t, "Bearer", resp.Type)
	assert.Equal(t, "jane", resp.Username)
	assert.NotEmpty(t, resp.Token)

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	identity, err := tokens.VerifyToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, identity.UserID)
	assert.Equal(t, "jane", identity.Username)

	// password is stored hashed, never verbatim
	stored := store.byUsername["jane"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)
	assert.True(t, auth.VerifyPassword("s3cret-pass", stored.PasswordHash))
}

func TestSignupRejectsDuplicates(t *testing.T) {
	svc, _ := newUserTestService()

	_, err := svc.Signup(context.Background(), signupReq())
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), signupReq())
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	other := signupReq()
	other.Username = "jane2"
	_, err = svc.Signup(context.Background(), other)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestSignupRequiresCredentials(t *testing.T) {
	svc, _ := newUserTestService()

	req := signupReq()
	req.Password = ""

	_, err := svc.Signup(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newUserTestService()

	_, err := svc.Signup(context.Background(), signupReq())
	require.NoError(t, err)

	_, badUser := svc.Login(context.Background(), "nobody", "s3cret-pass")
	_, badPass := svc.Login(context.Background(), "jane", "wrong-pass")

	require.Error(t, badUser)
	require.Error(t, badPass)
	assert.ErrorIs(t, badUser, apperrors.ErrUnauthorized)
	assert.ErrorIs(t, badPass, apperrors.ErrUnauthorized)
	assert.Equal(t, badUser.Error(), badPass.Error())

	resp, err := svc.Login(context.Background(), "jane", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "jane", resp.Username)
}

func TestGetProfileUsesExplicitIdentity(t *testing.T) {
	svc, _ := newUserTestService()

	resp, err := svc.Signup(context.Background(), signupReq())
	require.NoError(t, err)

	user, err := svc.GetProfile(context.Background(), &auth.Identity{
		UserID:   resp.ID,
		Username: resp.Username,
		Email:    resp.Email,
	})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)

	_, err = svc.GetProfile(context.Background(), &auth.Identity{Username: "ghost"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
