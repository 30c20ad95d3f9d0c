package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a credential record in the auth store.
type User struct {
	ID           string             `json:"id" bson:"id,omitempty"`
	ObjectID     primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"password_hash,omitempty"`
	DisplayName  string             `json:"displayName,omitempty" bson:"display_name,omitempty"`
	Provider     string             `json:"provider,omitempty" bson:"provider,omitempty"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// Profile is the users/{uid} document written alongside the credential
// record at sign-up. IsAdmin is read and logged at sign-in but never
// enforced against any action.
type Profile struct {
	UID           string `json:"uid" bson:"uid"`
	FirstName     string `json:"firstName" bson:"firstName"`
	LastName      string `json:"lastName" bson:"lastName"`
	Email         string `json:"email" bson:"email"`
	IsAdmin       bool   `json:"isAdmin" bson:"isAdmin"`
	EmailVerified bool   `json:"emailVerified" bson:"emailVerified"`
}

// FederatedIdentity is the assertion produced by the federated
// sign-in handshake.
type FederatedIdentity struct {
	Subject   string
	Email     string
	FirstName string
	LastName  string
}
