package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vasapolrittideah/blob-api/shared/provider"
)

// OAuthAccount links an external provider identity to a local user.
// The pair (ProviderID, ProviderUserID) is unique.
type OAuthAccount struct {
	ID             bson.ObjectID `bson:"_id,omitempty"`
	UserID         string        `bson:"user_id"`
	ProviderID     provider.ID   `bson:"provider_id"`
	ProviderUserID string        `bson:"provider_user_id"`
	LastLoginAt    time.Time     `bson:"last_login_at"`
	CreatedAt      time.Time     `bson:"created_at"`
	UpdatedAt      time.Time     `bson:"updated_at"`
}
