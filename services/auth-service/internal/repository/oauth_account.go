package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/blob-api/services/auth-service/internal/model"
	"github.com/vasapolrittideah/blob-api/shared/provider"
)

// OAuthAccountRepository defines the interface for provider account link operations.
type OAuthAccountRepository interface {
	// GetAccountByProvider finds the link for an external identity.
	GetAccountByProvider(
		ctx context.Context,
		providerID provider.ID,
		providerUserID string,
	) (*model.OAuthAccount, error)

	// UpsertAccount inserts the link or refreshes its owner and login timestamps.
	UpsertAccount(ctx context.Context, account *model.OAuthAccount) error
}

const oauthAccountCollection = "oauth_accounts"

type oauthAccountMongoRepository struct {
	db *mongo.Database
}

func NewOAuthAccountMongoRepository(
	ctx context.Context,
	logger *zerolog.Logger,
	db *mongo.Database,
) OAuthAccountRepository {
	collection := db.Collection(oauthAccountCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "provider_id", Value: 1}, {Key: "provider_user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create oauth account indexes")
	}

	return &oauthAccountMongoRepository{db: db}
}

func (r *oauthAccountMongoRepository) GetAccountByProvider(
	ctx context.Context,
	providerID provider.ID,
	providerUserID string,
) (*model.OAuthAccount, error) {
	result := r.db.Collection(oauthAccountCollection).FindOne(ctx, bson.M{
		"provider_id":      providerID,
		"provider_user_id": providerUserID,
	})
	if result.Err() != nil {
		return nil, translateError(result.Err())
	}

	var account model.OAuthAccount
	if err := result.Decode(&account); err != nil {
		return nil, err
	}

	return &account, nil
}

func (r *oauthAccountMongoRepository) UpsertAccount(ctx context.Context, account *model.OAuthAccount) error {
	now := time.Now()
	if account.LastLoginAt.IsZero() {
		account.LastLoginAt = now
	}
	account.UpdatedAt = now

	_, err := r.db.Collection(oauthAccountCollection).UpdateOne(
		ctx,
		bson.M{
			"provider_id":      account.ProviderID,
			"provider_user_id": account.ProviderUserID,
		},
		bson.M{
			"$set": bson.M{
				"user_id":       account.UserID,
				"last_login_at": account.LastLoginAt,
				"updated_at":    account.UpdatedAt,
			},
			"$setOnInsert": bson.M{
				"created_at": now,
			},
		},
		options.UpdateOne().SetUpsert(true),
	)

	return translateError(err)
}
