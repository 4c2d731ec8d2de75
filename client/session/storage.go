package session

import (
	"errors"
	"sync"

	"github.com/zalando/go-keyring"
)

// SecureStorage is device-local key/value storage for secrets.
// GetItem reports a missing key with ok == false and a nil error.
type SecureStorage interface {
	SetItem(key, value string) error
	GetItem(key string) (value string, ok bool, err error)
	DeleteItem(key string) error
}

// KeyringStorage stores items in the OS keyring under one service name.
type KeyringStorage struct {
	service string
}

func NewKeyringStorage(service string) *KeyringStorage {
	return &KeyringStorage{service: service}
}

func (s *KeyringStorage) SetItem(key, value string) error {
	return keyring.Set(s.service, key, value)
}

func (s *KeyringStorage) GetItem(key string) (string, bool, error) {
	value, err := keyring.Get(s.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// DeleteItem removes key. Deleting a missing key is not an error.
func (s *KeyringStorage) DeleteItem(key string) error {
	if err := keyring.Delete(s.service, key); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}

// MemoryStorage keeps items in process memory.
type MemoryStorage struct {
	mu    sync.Mutex
	items map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]string)}
}

func (s *MemoryStorage) SetItem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

func (s *MemoryStorage) GetItem(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.items[key]
	return value, ok, nil
}

func (s *MemoryStorage) DeleteItem(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}
