// Package auth issues and checks the bearer tokens of the stub Stocktake API.
package auth

import (
	"context"

	"github.com/mmynk/stocktake/internal/models"
)

// Authenticator verifies login credentials and manages the accounts the
// suite logs in with.
type Authenticator interface {
	// Register creates an account. credential is checked with ValidateCredential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the user whose credential matches, or
	// ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// EnsureUser registers email unless it already exists.
	EnsureUser(ctx context.Context, email, credential string) (*models.User, error)

	ValidateCredential(credential string) error
}
