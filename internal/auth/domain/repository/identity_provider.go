package repository

import (
	"context"

	"stocktrack/internal/auth/domain/model"
)

// IdentityProvider verifies a federated identity assertion issued by a
// third-party provider during the alternate sign-in handshake.
type IdentityProvider interface {
	Verify(ctx context.Context, providerToken string) (*model.FederatedIdentity, error)
}

// VerificationMailer dispatches the verification email sent at sign-up.
// Dispatch failures are non-fatal to registration.
type VerificationMailer interface {
	SendVerificationEmail(ctx context.Context, profile *model.Profile) error
}
