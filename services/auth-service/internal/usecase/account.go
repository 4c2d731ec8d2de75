package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vasapolrittideah/blob-api/services/auth-service/internal/model"
	"github.com/vasapolrittideah/blob-api/services/auth-service/internal/repository"
	"github.com/vasapolrittideah/blob-api/shared/provider"
)

const fallbackUserName = "Blob user"

// AccountResolver links a verified external identity to exactly one local user.
type AccountResolver interface {
	ResolveOrCreate(ctx context.Context, identity *provider.Identity) (*model.User, error)
}

type accountResolver struct {
	userRepo    repository.UserRepository
	accountRepo repository.OAuthAccountRepository
	now         func() time.Time
}

// NewAccountResolver creates an AccountResolver backed by the given repositories.
func NewAccountResolver(
	userRepo repository.UserRepository,
	accountRepo repository.OAuthAccountRepository,
) AccountResolver {
	return &accountResolver{
		userRepo:    userRepo,
		accountRepo: accountRepo,
		now:         time.Now,
	}
}

// ResolveOrCreate finds or creates the user for identity and records the login.
// A unique index violation means a concurrent sign-in won the race, so the
// whole sequence is replayed once against the now existing records.
func (r *accountResolver) ResolveOrCreate(ctx context.Context, identity *provider.Identity) (*model.User, error) {
	user, err := r.resolve(ctx, identity)
	if errors.Is(err, repository.ErrDuplicateKey) {
		user, err = r.resolve(ctx, identity)
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *accountResolver) resolve(ctx context.Context, identity *provider.Identity) (*model.User, error) {
	user, err := r.findLinkedUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	if user == nil {
		user, err = r.userRepo.GetUserByEmail(ctx, identity.Email)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("find user by email: %w", err)
		}
	}

	if user == nil {
		user, err = r.userRepo.CreateUser(ctx, &model.User{
			Email: identity.Email,
			Name:  displayName(identity),
			Image: identity.Picture,
		})
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
	} else {
		user, err = r.refreshProfile(ctx, user, identity)
		if err != nil {
			return nil, err
		}
	}

	if err := r.accountRepo.UpsertAccount(ctx, &model.OAuthAccount{
		UserID:         user.ID.Hex(),
		ProviderID:     identity.Provider,
		ProviderUserID: identity.ProviderUserID,
		LastLoginAt:    r.now(),
	}); err != nil {
		return nil, fmt.Errorf("upsert oauth account: %w", err)
	}

	return user, nil
}

// findLinkedUser returns the owner of the account linked to identity, or nil
// when no account exists or the linked user has since disappeared.
func (r *accountResolver) findLinkedUser(ctx context.Context, identity *provider.Identity) (*model.User, error) {
	account, err := r.accountRepo.GetAccountByProvider(ctx, identity.Provider, identity.ProviderUserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find oauth account: %w", err)
	}

	user, err := r.userRepo.GetUser(ctx, account.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find linked user: %w", err)
	}

	return user, nil
}

// refreshProfile copies a changed name or picture onto the stored user.
// Empty incoming values never clear stored ones.
func (r *accountResolver) refreshProfile(
	ctx context.Context,
	user *model.User,
	identity *provider.Identity,
) (*model.User, error) {
	var params repository.UpdateUserParams
	if identity.Name != "" && identity.Name != user.Name {
		params.Name = &identity.Name
	}
	if identity.Picture != "" && identity.Picture != user.Image {
		params.Image = &identity.Picture
	}
	if params.Name == nil && params.Image == nil {
		return user, nil
	}

	updated, err := r.userRepo.UpdateUser(ctx, user.ID.Hex(), params)
	if err != nil {
		return nil, fmt.Errorf("update user profile: %w", err)
	}

	return updated, nil
}

func displayName(identity *provider.Identity) string {
	if identity.Name != "" {
		return identity.Name
	}
	if local, _, _ := strings.Cut(identity.Email, "@"); local != "" {
		return local
	}
	return fallbackUserName
}
