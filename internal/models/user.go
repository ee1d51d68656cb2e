package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account that can log into the stub Stocktake API.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the login name (unique).
	Email string

	// DisplayName is shown in the dashboard header.
	DisplayName string

	// PasswordHash is the bcrypt hash of the password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}

// NewUser creates a user with a fresh ID and creation time.
func NewUser(email, displayName, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}
