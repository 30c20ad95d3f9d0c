package security

import (
	"context"
	"errors"

	"stocktrack/internal/auth/config"
	"stocktrack/internal/auth/domain/model"

	"github.com/golang-jwt/jwt/v5"
)

var ErrFederatedNotConfigured = errors.New("federated identity provider is not configured")

// federatedClaims are the claims expected on a provider-issued identity token.
type federatedClaims struct {
	Email     string `json:"email"`
	GivenName string `json:"given_name"`
	Surname   string `json:"family_name"`
	jwt.RegisteredClaims
}

// FederatedVerifier validates identity assertions from the configured
// third-party provider. The handshake itself (popup, redirect) happens in
// the client; this side only checks the resulting token.
type FederatedVerifier struct {
	secret   []byte
	issuer   string
	audience string
}

// NewFederatedVerifier creates a verifier from provider configuration.
func NewFederatedVerifier(cfg *config.Config) (*FederatedVerifier, error) {
	if cfg.FederatedSecret == "" || cfg.FederatedIssuer == "" {
		return nil, ErrFederatedNotConfigured
	}
	return &FederatedVerifier{
		secret:   []byte(cfg.FederatedSecret),
		issuer:   cfg.FederatedIssuer,
		audience: cfg.FederatedAudience,
	}, nil
}

// Verify checks the provider token's signature, issuer and audience and
// projects it into a FederatedIdentity.
func (v *FederatedVerifier) Verify(ctx context.Context, providerToken string) (*model.FederatedIdentity, error) {
	if providerToken == "" {
		return nil, ErrTokenInvalid
	}

	opts := []jwt.ParserOption{jwt.WithIssuer(v.issuer)}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	token, err := jwt.ParseWithClaims(providerToken, &federatedClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenSignatureInvalid
		}
		return v.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*federatedClaims)
	if !ok || claims.Subject == "" || claims.Email == "" {
		return nil, ErrTokenInvalid
	}

	return &model.FederatedIdentity{
		Subject:   claims.Subject,
		Email:     claims.Email,
		FirstName: claims.GivenName,
		LastName:  claims.Surname,
	}, nil
}
