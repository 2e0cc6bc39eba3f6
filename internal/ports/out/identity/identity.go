package identity

import (
	"context"
	"errors"

	"github.com/avril-atelier/storefront-api/internal/domain"
)

var ErrNotFound = errors.New("identity user not found")

// Client exposes the identity provider's server-side admin operations this
// service needs. Session verification is separate (platform/auth); this port
// covers the Backend API surface.
type Client interface {
	// GetPrimaryEmail returns the user's primary email address, or "" when
	// the provider has none on file.
	GetPrimaryEmail(ctx context.Context, subject domain.SubjectID) (string, error)

	// DeleteUser irreversibly deletes the user record at the provider.
	DeleteUser(ctx context.Context, subject domain.SubjectID) error

	// AddAllowlistIdentifier submits an email to the provider's sign-up
	// allowlist. Adding an identifier twice is not an error.
	AddAllowlistIdentifier(ctx context.Context, email string) error
}
