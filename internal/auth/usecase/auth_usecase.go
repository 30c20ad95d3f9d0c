package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"stocktrack/internal/auth/config"
	"stocktrack/internal/auth/domain/model"
	"stocktrack/internal/auth/domain/repository"
	"stocktrack/internal/shared/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email is already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrTokenInvalid       = errors.New("token is invalid")
	ErrProfileNotFound    = errors.New("profile document not found")
	ErrWeakPassword       = errors.New("password does not meet strength requirements")
	ErrFederatedRejected  = errors.New("federated sign-in rejected")
)

const (
	minPasswordLength = 8
	maxPasswordLength = 128
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// AuthUsecaseInterface defines the contract for authentication use cases.
type AuthUsecaseInterface interface {
	Register(ctx context.Context, req RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req LoginRequest) (*model.User, string, error)
	FederatedLogin(ctx context.Context, providerToken string) (*model.User, string, error)
	Logout(ctx context.Context, tokenString string) error
	ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error)
	GetUserFromToken(ctx context.Context, tokenString string) (*model.User, error)
	GetProfile(ctx context.Context, uid string) (*model.Profile, error)
}

// RegisterRequest represents the sign-up request
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

// LoginRequest represents the sign-in request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthUsecase implements the authentication logic.
type AuthUsecase struct {
	repo     repository.AuthRepository
	tokenSvc repository.TokenService
	identity repository.IdentityProvider
	mailer   repository.VerificationMailer
	config   *config.Config
	validate *validator.Validate
	log      logger.Logger
}

// NewAuthUsecase creates a new instance of AuthUsecase. The identity
// provider and mailer are optional collaborators; passing nil disables
// federated sign-in and verification email dispatch respectively.
func NewAuthUsecase(
	repo repository.AuthRepository,
	tokenSvc repository.TokenService,
	identity repository.IdentityProvider,
	mailer repository.VerificationMailer,
	cfg *config.Config,
	log logger.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		repo:     repo,
		tokenSvc: tokenSvc,
		identity: identity,
		mailer:   mailer,
		config:   cfg,
		validate: validator.New(),
		log:      log.WithComponent("auth"),
	}
}

func (uc *AuthUsecase) validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmailFormat
	}
	return nil
}

func (uc *AuthUsecase) validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("password must be at most %d characters", maxPasswordLength)
	}

	hasUpper := regexp.MustCompile(`[A-Z]`).MatchString(password)
	hasLower := regexp.MustCompile(`[a-z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)

	if !hasUpper || !hasLower || !hasNumber {
		return ErrWeakPassword
	}

	return nil
}

// Register creates a new user, writes the users/{uid} profile document
// and dispatches a verification email. No session token is issued:
// sign-up hands the caller back to the login entry point.
func (uc *AuthUsecase) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	if err := uc.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid registration request: %w", err)
	}
	if err := uc.validateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := uc.validatePassword(req.Password); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	existingUser, err := uc.repo.GetUserByEmail(ctx, email)
	if err != nil && err != ErrUserNotFound {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		DisplayName:  fmt.Sprintf("%s %s", firstName, lastName),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := uc.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	profile := &model.Profile{
		UID:           user.ID,
		FirstName:     firstName,
		LastName:      lastName,
		Email:         email,
		IsAdmin:       false,
		EmailVerified: false,
	}
	if err := uc.repo.CreateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile document: %w", err)
	}

	if uc.mailer != nil {
		if err := uc.mailer.SendVerificationEmail(ctx, profile); err != nil {
			// Verification dispatch is best effort; the account stands either way.
			uc.log.Warnf("Failed to send verification email to %s: %v", email, err)
		}
	}

	user.PasswordHash = ""
	return user, nil
}

// Login authenticates a user and issues a session token. The profile
// document is consulted on the way: a missing document and a false
// isAdmin flag are both logged and neither blocks sign-in.
func (uc *AuthUsecase) Login(ctx context.Context, req LoginRequest) (*model.User, string, error) {
	if err := uc.validateEmail(req.Email); err != nil {
		return nil, "", err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := uc.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if err == ErrUserNotFound {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	uc.checkProfile(ctx, user.ID)

	token, err := uc.issueSession(ctx, user)
	if err != nil {
		return nil, "", err
	}

	user.PasswordHash = ""
	return user, token, nil
}

// FederatedLogin performs the federated-identity handshake: the
// provider assertion is verified, an account is created on first sight
// and a session token is issued.
func (uc *AuthUsecase) FederatedLogin(ctx context.Context, providerToken string) (*model.User, string, error) {
	if uc.identity == nil {
		return nil, "", ErrFederatedRejected
	}

	identity, err := uc.identity.Verify(ctx, providerToken)
	if err != nil {
		return nil, "", ErrFederatedRejected
	}

	email := strings.ToLower(strings.TrimSpace(identity.Email))

	user, err := uc.repo.GetUserByEmail(ctx, email)
	if err != nil && err != ErrUserNotFound {
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	if user == nil {
		user = &model.User{
			ID:          uuid.New().String(),
			Email:       email,
			DisplayName: strings.TrimSpace(fmt.Sprintf("%s %s", identity.FirstName, identity.LastName)),
			Provider:    "federated",
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		if err := uc.repo.CreateUser(ctx, user); err != nil {
			return nil, "", fmt.Errorf("failed to create user: %w", err)
		}
		profile := &model.Profile{
			UID:           user.ID,
			FirstName:     identity.FirstName,
			LastName:      identity.LastName,
			Email:         email,
			IsAdmin:       false,
			EmailVerified: true,
		}
		if err := uc.repo.CreateProfile(ctx, profile); err != nil {
			return nil, "", fmt.Errorf("failed to create profile document: %w", err)
		}
	}

	uc.checkProfile(ctx, user.ID)

	token, err := uc.issueSession(ctx, user)
	if err != nil {
		return nil, "", err
	}

	user.PasswordHash = ""
	return user, token, nil
}

// checkProfile reads the users/{uid} document. The isAdmin flag is
// observed and logged only; no action is gated on it.
func (uc *AuthUsecase) checkProfile(ctx context.Context, uid string) {
	profile, err := uc.repo.GetProfile(ctx, uid)
	if err != nil {
		if err == ErrProfileNotFound {
			uc.log.Warnf("Profile document does not exist for user %s", uid)
			return
		}
		uc.log.Warnf("Failed to read profile document for user %s: %v", uid, err)
		return
	}
	if !profile.IsAdmin {
		uc.log.Warnf("User %s is not an admin", uid)
	}
}

func (uc *AuthUsecase) issueSession(ctx context.Context, user *model.User) (string, error) {
	token, err := uc.tokenSvc.GenerateToken(ctx, user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	session := &model.Session{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(uc.config.AccessTokenTTL),
	}
	if err := uc.repo.CreateSession(ctx, session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return token, nil
}

// Logout invalidates all of the caller's sessions
func (uc *AuthUsecase) Logout(ctx context.Context, tokenString string) error {
	claims, err := uc.tokenSvc.ValidateToken(ctx, tokenString)
	if err != nil {
		return ErrTokenInvalid
	}

	if err := uc.repo.DeleteUserSessions(ctx, claims.UserID); err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}

	return nil
}

// ValidateToken validates a JWT string
func (uc *AuthUsecase) ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error) {
	claims, err := uc.tokenSvc.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// GetUserFromToken validates a token and fetches the associated user
func (uc *AuthUsecase) GetUserFromToken(ctx context.Context, tokenString string) (*model.User, error) {
	claims, err := uc.tokenSvc.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	user, err := uc.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	user.PasswordHash = ""
	return user, nil
}

// GetProfile returns the users/{uid} profile document
func (uc *AuthUsecase) GetProfile(ctx context.Context, uid string) (*model.Profile, error) {
	if uid == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	return uc.repo.GetProfile(ctx, uid)
}

// Ensure AuthUsecase implements AuthUsecaseInterface
var _ AuthUsecaseInterface = (*AuthUsecase)(nil)
