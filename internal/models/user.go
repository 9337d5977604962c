package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account in the system. The password hash is never
// serialized to clients.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	IsAdmin      bool               `bson:"is_admin" json:"is_admin"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}
