package security_test

import (
	"context"
	"testing"
	"time"

	"stocktrack/internal/auth/adapter/security"
	"stocktrack/internal/auth/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type JWTTestSuite struct {
	suite.Suite
	config  *config.Config
	service *security.JWTokenService
}

func (suite *JWTTestSuite) SetupTest() {
	suite.config = &config.Config{
		JWTSecretKey:   "test-secret-key-32-characters-long-12345",
		JWTIssuer:      "test-issuer",
		AccessTokenTTL: 15 * time.Minute,
	}

	service, err := security.NewJWTokenService(suite.config)
	require.NoError(suite.T(), err)
	suite.service = service
}

func (suite *JWTTestSuite) TestNewJWTokenService_ValidationErrors() {
	testCases := []struct {
		name         string
		modifyConfig func(*config.Config)
	}{
		{
			name:         "empty secret key",
			modifyConfig: func(cfg *config.Config) { cfg.JWTSecretKey = "" },
		},
		{
			name:         "empty issuer",
			modifyConfig: func(cfg *config.Config) { cfg.JWTIssuer = "" },
		},
		{
			name:         "non-positive TTL",
			modifyConfig: func(cfg *config.Config) { cfg.AccessTokenTTL = 0 },
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			cfg := *suite.config
			tc.modifyConfig(&cfg)

			service, err := security.NewJWTokenService(&cfg)
			assert.Error(suite.T(), err)
			assert.Nil(suite.T(), service)
		})
	}
}

func (suite *JWTTestSuite) TestGenerateAndValidateToken() {
	ctx := context.Background()

	token, err := suite.service.GenerateToken(ctx, "user-123", "test@example.com")
	require.NoError(suite.T(), err)
	require.NotEmpty(suite.T(), token)

	claims, err := suite.service.ValidateToken(ctx, token)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "user-123", claims.UserID)
	assert.Equal(suite.T(), "test@example.com", claims.Email)
	assert.Equal(suite.T(), "test-issuer", claims.Issuer)
}

func (suite *JWTTestSuite) TestValidateToken_Empty() {
	_, err := suite.service.ValidateToken(context.Background(), "")
	assert.ErrorIs(suite.T(), err, security.ErrTokenInvalid)
}

func (suite *JWTTestSuite) TestValidateToken_Garbage() {
	_, err := suite.service.ValidateToken(context.Background(), "not.a.token")
	assert.Error(suite.T(), err)
}

func (suite *JWTTestSuite) TestValidateToken_WrongKey() {
	ctx := context.Background()

	otherCfg := *suite.config
	otherCfg.JWTSecretKey = "a-different-secret-key-entirely-00000"
	other, err := security.NewJWTokenService(&otherCfg)
	require.NoError(suite.T(), err)

	token, err := other.GenerateToken(ctx, "user-123", "test@example.com")
	require.NoError(suite.T(), err)

	_, err = suite.service.ValidateToken(ctx, token)
	assert.ErrorIs(suite.T(), err, security.ErrTokenSignatureInvalid)
}

func (suite *JWTTestSuite) TestValidateToken_Expired() {
	ctx := context.Background()

	shortCfg := *suite.config
	shortCfg.AccessTokenTTL = time.Nanosecond
	short, err := security.NewJWTokenService(&shortCfg)
	require.NoError(suite.T(), err)

	token, err := short.GenerateToken(ctx, "user-123", "test@example.com")
	require.NoError(suite.T(), err)

	time.Sleep(10 * time.Millisecond)

	_, err = short.ValidateToken(ctx, token)
	assert.ErrorIs(suite.T(), err, security.ErrTokenExpired)
}

func TestJWTTestSuite(t *testing.T) {
	suite.Run(t, new(JWTTestSuite))
}
