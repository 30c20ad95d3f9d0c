package model

import "time"

// Session represents a server-side session record tied to an issued token.
type Session struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	UserID    string    `json:"userID" bson:"user_id"`
	Token     string    `json:"-" bson:"token"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
}
