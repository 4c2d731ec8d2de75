package usecase

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vasapolrittideah/blob-api/services/auth-service/internal/model"
	"github.com/vasapolrittideah/blob-api/services/auth-service/internal/repository"
	"github.com/vasapolrittideah/blob-api/shared/provider"
)

// memUserRepo enforces the unique email index in memory.
type memUserRepo struct {
	mu      sync.Mutex
	users   map[bson.ObjectID]model.User
	creates int
	updates int

	// beforeCreate runs before every insert, letting tests simulate a concurrent writer.
	beforeCreate func(user *model.User)
	getErr       error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[bson.ObjectID]model.User)}
}

func (r *memUserRepo) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	if r.beforeCreate != nil {
		r.beforeCreate(user)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.creates++
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, repository.ErrDuplicateKey
		}
	}

	now := time.Now()
	user.ID = bson.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user

	out := *user
	return &out, nil
}

// seed stores a user directly, bypassing hooks and counters.
func (r *memUserRepo) seed(user model.User) model.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	r.users[user.ID] = user
	return user
}

func (r *memUserRepo) GetUser(_ context.Context, id string) (*model.User, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}

	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[objectID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *memUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			out := user
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) UpdateUser(
	_ context.Context,
	id string,
	params repository.UpdateUserParams,
) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[objectID]
	if !ok {
		return nil, repository.ErrNotFound
	}

	r.updates++
	if params.Name != nil {
		user.Name = *params.Name
	}
	if params.Image != nil {
		user.Image = *params.Image
	}
	user.UpdatedAt = time.Now()
	r.users[objectID] = user

	out := user
	return &out, nil
}

func (r *memUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

type accountKey struct {
	provider       provider.ID
	providerUserID string
}

// memAccountRepo keys accounts on the unique (provider, provider user id) pair.
type memAccountRepo struct {
	mu       sync.Mutex
	accounts map[accountKey]model.OAuthAccount
	upserts  int

	upsertErrs []error
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{accounts: make(map[accountKey]model.OAuthAccount)}
}

func (r *memAccountRepo) GetAccountByProvider(
	_ context.Context,
	providerID provider.ID,
	providerUserID string,
) (*model.OAuthAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[accountKey{providerID, providerUserID}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &account, nil
}

func (r *memAccountRepo) UpsertAccount(_ context.Context, account *model.OAuthAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.upserts++
	if len(r.upsertErrs) > 0 {
		err := r.upsertErrs[0]
		r.upsertErrs = r.upsertErrs[1:]
		if err != nil {
			return err
		}
	}

	key := accountKey{account.ProviderID, account.ProviderUserID}
	now := time.Now()
	existing, ok := r.accounts[key]
	if !ok {
		existing = model.OAuthAccount{
			ID:             bson.NewObjectID(),
			ProviderID:     account.ProviderID,
			ProviderUserID: account.ProviderUserID,
			CreatedAt:      now,
		}
	}
	existing.UserID = account.UserID
	existing.LastLoginAt = account.LastLoginAt
	existing.UpdatedAt = now
	r.accounts[key] = existing

	return nil
}

func (r *memAccountRepo) seed(account model.OAuthAccount) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[accountKey{account.ProviderID, account.ProviderUserID}] = account
}

func (r *memAccountRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.accounts)
}
