package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated principal carried by a verified token.
// It is passed explicitly into every operation that needs the caller,
// never read from ambient state.
type Identity struct {
	UserID   string
	Username string
	Email    string
}

// TokenManager issues and verifies HS256 bearer tokens
type TokenManager struct {
	secret []byte
	expiry time.Duration
}

// NewTokenManager creates a TokenManager with the given signing secret and token lifetime
func NewTokenManager(secret string, expiry time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		expiry: expiry,
	}
}

// GenerateToken issues a signed token for the given identity
func (m *TokenManager) GenerateToken(id Identity) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"user_id":  id.UserID,
		"username": id.Username,
		"email":    id.Email,
		"iat":      now.Unix(),
		"exp":      now.Add(m.expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// VerifyToken parses and validates a token string and returns the identity it carries
func (m *TokenManager) VerifyToken(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	userID, _ := claims["user_id"].(string)
	username, _ := claims["username"].(string)
	email, _ := claims["email"].(string)

	if userID == "" || username == "" {
		return nil, fmt.Errorf("token missing identity claims")
	}

	return &Identity{
		UserID:   userID,
		Username: username,
		Email:    email,
	}, nil
}
