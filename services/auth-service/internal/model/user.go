package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User represents a local account. Email is unique across all users.
type User struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Email     string        `bson:"email"`
	Name      string        `bson:"name"`
	Image     string        `bson:"image,omitempty"`
	CreatedAt time.Time     `bson:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at"`
}
