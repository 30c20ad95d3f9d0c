package auth

import (
	"fmt"

	"stocktrack/internal/auth/adapter/email"
	authhttp "stocktrack/internal/auth/adapter/http"
	"stocktrack/internal/auth/adapter/persistence/mongodb"
	"stocktrack/internal/auth/adapter/security"
	"stocktrack/internal/auth/config"
	"stocktrack/internal/auth/domain/repository"
	"stocktrack/internal/auth/usecase"
	"stocktrack/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

// AuthModule represents the complete authentication module
type AuthModule struct {
	repository repository.AuthRepository
	tokenSvc   repository.TokenService
	usecase    usecase.AuthUsecaseInterface
	handler    *authhttp.AuthHTTPHandler
	config     *config.Config
}

// NewAuthModule creates a new authentication module instance
func NewAuthModule(db *mongo.Database, cfg *config.Config, log logger.Logger) (*AuthModule, error) {
	authRepo, err := mongodb.NewMongoAuthRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth repository: %w", err)
	}

	tokenSvc, err := security.NewJWTokenService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	// Federated sign-in is optional; without provider config the
	// endpoint rejects all handshakes.
	var identity repository.IdentityProvider
	if verifier, err := security.NewFederatedVerifier(cfg); err == nil {
		identity = verifier
	} else {
		log.Warnf("Federated sign-in disabled: %v", err)
	}

	var mailer repository.VerificationMailer
	mailSvc := email.NewService(cfg, log)
	if mailSvc.IsEnabled() {
		mailer = mailSvc
	} else {
		log.Warn("Verification email dispatch disabled: mailgun not configured")
	}

	authUsecase := usecase.NewAuthUsecase(authRepo, tokenSvc, identity, mailer, cfg, log)

	handler := authhttp.NewAuthHTTPHandler(
		authUsecase,
		cfg.CookieName,
		cfg.CookiePath,
		cfg.CookieDomain,
		int(cfg.AccessTokenTTL.Seconds()),
		cfg.CookieSecure,
		cfg.CookieHTTPOnly,
		cfg.CookieSameSite,
	)

	return &AuthModule{
		repository: authRepo,
		tokenSvc:   tokenSvc,
		usecase:    authUsecase,
		handler:    handler,
		config:     cfg,
	}, nil
}

// RegisterRoutes registers authentication routes with the provided router
func (am *AuthModule) RegisterRoutes(router fiber.Router) {
	middleware := am.GetMiddleware()
	am.handler.SetupAuthRoutesWithMiddleware(router, middleware)
}

// GetUsecase returns the auth usecase for external access
func (am *AuthModule) GetUsecase() usecase.AuthUsecaseInterface {
	return am.usecase
}

// SetLogoutHook registers a callback fired after successful sign-out.
func (am *AuthModule) SetLogoutHook(hook func(userID string)) {
	am.handler.SetLogoutHook(hook)
}

// GetMiddleware returns the session gate middleware
func (am *AuthModule) GetMiddleware() *authhttp.AuthMiddleware {
	return authhttp.NewAuthMiddleware(am.usecase, am.config.CookieName)
}

// Stop performs cleanup when the module is shut down
func (am *AuthModule) Stop() error {
	return nil
}
