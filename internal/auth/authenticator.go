// Package auth provides account sign-up, sign-in and session tokens.
package auth

import (
	"context"

	"github.com/mmynk/smartfinance/internal/models"
)

// Authenticator registers accounts and verifies credentials.
// Password is the only implementation today; the service layer depends on
// this interface only.
type Authenticator interface {
	// Register creates a new account. The credential format depends on the
	// implementation.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the account matching email when credential is valid.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks the credential before it is stored.
	ValidateCredential(credential string) error
}
