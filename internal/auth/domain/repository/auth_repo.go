package repository

import (
	"context"

	"stocktrack/internal/auth/domain/model"
)

// AuthRepository defines the interface for authentication data operations
type AuthRepository interface {
	// User operations
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)

	// Profile document operations (the users/{uid} document)
	CreateProfile(ctx context.Context, profile *model.Profile) error
	GetProfile(ctx context.Context, uid string) (*model.Profile, error)

	// Session operations
	CreateSession(ctx context.Context, session *model.Session) error
	DeleteUserSessions(ctx context.Context, userID string) error
}
