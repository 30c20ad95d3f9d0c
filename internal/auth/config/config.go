package config

import (
	"errors"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds all configuration for the auth module.
type Config struct {
	// MongoDB Configuration
	MongoDBURI   string `env:"MONGODB_URI,required"`
	DatabaseName string `env:"DATABASE_NAME" envDefault:"stocktrack"`

	// JWT Configuration
	JWTSecretKey   string        `env:"JWT_SECRET_KEY,required"`
	JWTIssuer      string        `env:"JWT_ISSUER" envDefault:"stocktrack-auth-service"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"24h"`

	// Federated identity provider (alternate sign-in)
	FederatedIssuer   string `env:"FEDERATED_ISSUER" envDefault:""`
	FederatedAudience string `env:"FEDERATED_AUDIENCE" envDefault:""`
	FederatedSecret   string `env:"FEDERATED_SECRET" envDefault:""`

	// Verification email (Mailgun)
	MailgunAPIKey      string `env:"MAILGUN_API_KEY" envDefault:""`
	MailgunDomain      string `env:"MAILGUN_DOMAIN" envDefault:""`
	MailgunSenderEmail string `env:"MAILGUN_SENDER_EMAIL" envDefault:"no-reply@stocktrack.app"`
	MailgunSenderName  string `env:"MAILGUN_SENDER_NAME" envDefault:"StockTrack"`
	VerificationURL    string `env:"VERIFICATION_URL" envDefault:"http://localhost:3000/verify"`

	// Cookie Configuration
	CookieName     string `env:"COOKIE_NAME" envDefault:"st_auth_token"`
	CookiePath     string `env:"COOKIE_PATH" envDefault:"/"`
	CookieDomain   string `env:"COOKIE_DOMAIN" envDefault:""`
	CookieSecure   bool   `env:"COOKIE_SECURE" envDefault:"false"`
	CookieHTTPOnly bool   `env:"COOKIE_HTTP_ONLY" envDefault:"true"`
	CookieSameSite string `env:"COOKIE_SAME_SITE" envDefault:"Lax"`
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load auth configuration from environment: " + err.Error())
	}

	if cfg.JWTSecretKey == "" {
		return nil, errors.New("jwt_secret_key is required")
	}
	if cfg.MongoDBURI == "" {
		return nil, errors.New("mongodb_uri is required")
	}

	cfg.CookieSameSite = strings.Title(strings.ToLower(cfg.CookieSameSite))
	if !(cfg.CookieSameSite == "Lax" || cfg.CookieSameSite == "Strict" || cfg.CookieSameSite == "None") {
		return nil, errors.New("cookie_same_site must be one of 'Lax', 'Strict', or 'None'")
	}

	return cfg, nil
}
