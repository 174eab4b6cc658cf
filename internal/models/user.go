package models

import (
	"time"
)

// User is a registered customer account. PasswordHash is never serialized.
type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"fullName"`
	Phone        string    `db:"phone" json:"phone,omitempty"`
	Address      string    `db:"address" json:"address,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// NewUser creates a user with a fresh identifier and creation timestamp
func NewUser(username, email, passwordHash, fullName, phone, address string) *User {
	return &User{
		ID:           GenerateID("usr"),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     fullName,
		Phone:        phone,
		Address:      address,
		CreatedAt:    GetCurrentTime(),
	}
}
