package mongodb

import (
	"context"
	"time"

	"stocktrack/internal/auth/domain/model"
	"stocktrack/internal/auth/usecase"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAuthRepository implements the AuthRepository interface using MongoDB
type MongoAuthRepository struct {
	db                 *mongo.Database
	usersCollection    *mongo.Collection
	profilesCollection *mongo.Collection
	sessionsCollection *mongo.Collection
}

// NewMongoAuthRepository creates a new MongoDB auth repository
func NewMongoAuthRepository(db *mongo.Database) (*MongoAuthRepository, error) {
	repo := &MongoAuthRepository{
		db:                 db,
		usersCollection:    db.Collection("users"),
		profilesCollection: db.Collection("profiles"),
		sessionsCollection: db.Collection("sessions"),
	}

	ctx := context.Background()

	// Email index for users (unique)
	emailIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := repo.usersCollection.Indexes().CreateOne(ctx, emailIndex); err != nil {
		return nil, err
	}

	// ID index for users (for UUID lookups)
	idIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetSparse(true),
	}
	if _, err := repo.usersCollection.Indexes().CreateOne(ctx, idIndex); err != nil {
		return nil, err
	}

	// UID index for profile documents (one profile per user)
	uidIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "uid", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := repo.profilesCollection.Indexes().CreateOne(ctx, uidIndex); err != nil {
		return nil, err
	}

	// Token index for sessions
	tokenIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "token", Value: 1}},
	}
	if _, err := repo.sessionsCollection.Indexes().CreateOne(ctx, tokenIndex); err != nil {
		return nil, err
	}

	// TTL index for sessions
	expiresAtIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	if _, err := repo.sessionsCollection.Indexes().CreateOne(ctx, expiresAtIndex); err != nil {
		return nil, err
	}

	return repo, nil
}

// CreateUser creates a new user in the database
func (r *MongoAuthRepository) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if user.ID == "" {
		user.ID = primitive.NewObjectID().Hex()
	}

	doc := bson.M{
		"id":         user.ID,
		"email":      user.Email,
		"created_at": user.CreatedAt,
		"updated_at": user.UpdatedAt,
	}
	if user.PasswordHash != "" {
		doc["password_hash"] = user.PasswordHash
	}
	if user.DisplayName != "" {
		doc["display_name"] = user.DisplayName
	}
	if user.Provider != "" {
		doc["provider"] = user.Provider
	}

	if _, err := r.usersCollection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return usecase.ErrEmailTaken
		}
		return err
	}

	return nil
}

// GetUserByEmail retrieves a user by email
func (r *MongoAuthRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.usersCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}

	if user.ID == "" && !user.ObjectID.IsZero() {
		user.ID = user.ObjectID.Hex()
	}

	return &user, nil
}

// GetUserByID retrieves a user by ID
func (r *MongoAuthRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.usersCollection.FindOne(ctx, bson.M{"id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}

	if user.ID == "" && !user.ObjectID.IsZero() {
		user.ID = user.ObjectID.Hex()
	}

	return &user, nil
}

// CreateProfile writes the users/{uid} profile document
func (r *MongoAuthRepository) CreateProfile(ctx context.Context, profile *model.Profile) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.profilesCollection.ReplaceOne(ctx, bson.M{"uid": profile.UID}, profile, opts)
	return err
}

// GetProfile reads the users/{uid} profile document. Absence is reported
// as ErrProfileNotFound so sign-in can treat it as a warning.
func (r *MongoAuthRepository) GetProfile(ctx context.Context, uid string) (*model.Profile, error) {
	var profile model.Profile
	err := r.profilesCollection.FindOne(ctx, bson.M{"uid": uid}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, usecase.ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// CreateSession creates a new session
func (r *MongoAuthRepository) CreateSession(ctx context.Context, session *model.Session) error {
	session.CreatedAt = time.Now()

	result, err := r.sessionsCollection.InsertOne(ctx, bson.M{
		"user_id":    session.UserID,
		"token":      session.Token,
		"created_at": session.CreatedAt,
		"expires_at": session.ExpiresAt,
	})
	if err != nil {
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		session.ID = oid.Hex()
	}

	return nil
}

// DeleteUserSessions deletes all sessions for a user
func (r *MongoAuthRepository) DeleteUserSessions(ctx context.Context, userID string) error {
	_, err := r.sessionsCollection.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
