package http

import (
	"context"
	"strings"

	"stocktrack/internal/auth/usecase"
	"stocktrack/internal/shared/contextkeys"

	"github.com/gofiber/fiber/v2"
)

// LoginPath is the login entry point surfaced to unauthenticated callers.
const LoginPath = "/login"

// AuthMiddleware is the session gate: it resolves the caller's identity
// from the request and either injects it into the context or points the
// caller back at the login entry point.
type AuthMiddleware struct {
	usecase    usecase.AuthUsecaseInterface
	cookieName string
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(uc usecase.AuthUsecaseInterface, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		usecase:    uc,
		cookieName: cookieName,
	}
}

// Protect returns middleware that requires an authenticated caller.
// Any failure to resolve an identity, transient or not, is treated as
// "no identity": 401 plus the login entry point, no retry.
func (m *AuthMiddleware) Protect() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := m.extractToken(c)
		if err != nil {
			return m.unauthenticated(c)
		}

		claims, err := m.usecase.ValidateToken(c.Context(), token)
		if err != nil {
			return m.unauthenticated(c)
		}

		ctx := c.UserContext()
		ctx = context.WithValue(ctx, contextkeys.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, contextkeys.UserEmailKey, claims.Email)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// OptionalAuth injects identity when a valid token is present and
// passes the request through otherwise.
func (m *AuthMiddleware) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := m.extractToken(c)
		if err != nil || token == "" {
			return c.Next()
		}

		claims, err := m.usecase.ValidateToken(c.Context(), token)
		if err != nil {
			return c.Next()
		}

		ctx := c.UserContext()
		ctx = context.WithValue(ctx, contextkeys.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, contextkeys.UserEmailKey, claims.Email)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

func (m *AuthMiddleware) unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Authentication required",
		"login": LoginPath,
	})
}

// extractToken extracts the token from Authorization header, cookie or
// query parameter (the latter for WebSocket connections).
func (m *AuthMiddleware) extractToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		if strings.HasPrefix(authHeader, "Bearer ") {
			return strings.TrimPrefix(authHeader, "Bearer "), nil
		}
	}

	token := c.Cookies(m.cookieName)
	if token != "" {
		return token, nil
	}

	token = c.Query("token")
	if token != "" {
		return token, nil
	}

	return "", fiber.NewError(fiber.StatusUnauthorized, "No authentication token found")
}
