// Package session keeps the signed-in state of a client device.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/blob-api/services/auth-service/pkg/types"
)

// Keys under which the session is persisted.
const (
	TokenKey = "blob.sessionToken"
	UserKey  = "blob.sessionUser"
)

var ErrEmptyToken = errors.New("session token is empty")

type Option func(*Store)

// WithLogger sets the logger used to report recoverable storage problems.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Store is the client session state machine backed by SecureStorage.
// It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	storage SecureStorage
	state   State
	logger  *zerolog.Logger
}

func NewStore(storage SecureStorage, opts ...Option) *Store {
	nop := zerolog.Nop()
	s := &Store{
		storage: storage,
		state:   Unhydrated{},
		logger:  &nop,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Token returns the session token when authenticated.
func (s *Store) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	auth, ok := s.state.(Authenticated)
	return auth.Token, ok
}

// Hydrate loads the persisted session once. Later calls return the current
// state without touching storage. The token is not re-verified with the server.
func (s *Store) Hydrate() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.(Unhydrated); !ok {
		return s.state, nil
	}

	token, ok, err := s.storage.GetItem(TokenKey)
	if err != nil {
		return s.state, fmt.Errorf("read session token: %w", err)
	}
	if !ok || token == "" {
		s.state = Anonymous{}
		return s.state, nil
	}

	user, err := s.loadUser()
	if err != nil {
		return s.state, err
	}

	s.state = Authenticated{Token: token, User: user}
	return s.state, nil
}

func (s *Store) loadUser() (*types.PublicUser, error) {
	raw, ok, err := s.storage.GetItem(UserKey)
	if err != nil {
		return nil, fmt.Errorf("read session user: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}

	var user types.PublicUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn().Err(err).Msg("dropping unreadable cached session user")
		return nil, nil
	}
	return &user, nil
}

// SetSession persists token and user, then switches to Authenticated.
// On a storage error the in-memory state is left unchanged.
func (s *Store) SetSession(token string, user *types.PublicUser) error {
	if strings.TrimSpace(token) == "" {
		return ErrEmptyToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.SetItem(TokenKey, token); err != nil {
		return fmt.Errorf("write session token: %w", err)
	}

	if user == nil {
		if err := s.storage.DeleteItem(UserKey); err != nil {
			return fmt.Errorf("clear session user: %w", err)
		}
	} else {
		raw, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("encode session user: %w", err)
		}
		if err := s.storage.SetItem(UserKey, string(raw)); err != nil {
			return fmt.Errorf("write session user: %w", err)
		}
	}

	s.state = Authenticated{Token: token, User: user}
	return nil
}

// Logout deletes both persisted keys and switches to Anonymous. Both deletes
// are attempted even if the first fails; the state becomes Anonymous either way.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if err := s.storage.DeleteItem(TokenKey); err != nil {
		errs = append(errs, fmt.Errorf("delete session token: %w", err))
	}
	if err := s.storage.DeleteItem(UserKey); err != nil {
		errs = append(errs, fmt.Errorf("delete session user: %w", err))
	}

	s.state = Anonymous{}
	return errors.Join(errs...)
}
