// internal/infrastructure/localstore/storage.go
package localstore

import (
	"context"
	"errors"
)

// Keys used inside a browser's local storage
const (
	KeyAuthToken      = "authToken"
	KeyUser           = "user"
	KeyCart           = "wouhouch_cart"
	KeySiteSettings   = "siteSettings"
	KeySignupEmail    = "signupEmail"
	KeySignupPassword = "signupPassword"
	KeySignupFullName = "signupFullName"
)

// SiteNamespace holds state shared by every visitor of the gateway
const SiteNamespace = "site"

// ErrEmptyNamespace is returned when a storage is bound to no namespace
var ErrEmptyNamespace = errors.New("localstore: empty namespace")

// Backend is a namespaced key/value store. Writes are not transactional and
// the last writer wins.
type Backend interface {
	Get(ctx context.Context, namespace, key string) (string, bool, error)
	Set(ctx context.Context, namespace, key, value string) error
	Delete(ctx context.Context, namespace, key string) error
	Clear(ctx context.Context, namespace string) error
}

// Storage is one namespace of a backend, the server-side equivalent of a
// browser's localStorage.
type Storage struct {
	backend   Backend
	namespace string
}

// New binds a backend to a namespace
func New(backend Backend, namespace string) (*Storage, error) {
	if namespace == "" {
		return nil, ErrEmptyNamespace
	}
	return &Storage{backend: backend, namespace: namespace}, nil
}

// Namespace returns the namespace this storage is bound to
func (s *Storage) Namespace() string {
	return s.namespace
}

// GetItem returns the value stored under key and whether it exists
func (s *Storage) GetItem(ctx context.Context, key string) (string, bool, error) {
	return s.backend.Get(ctx, s.namespace, key)
}

// SetItem stores value under key
func (s *Storage) SetItem(ctx context.Context, key, value string) error {
	return s.backend.Set(ctx, s.namespace, key, value)
}

// RemoveItem deletes key; removing a missing key is not an error
func (s *Storage) RemoveItem(ctx context.Context, key string) error {
	return s.backend.Delete(ctx, s.namespace, key)
}

// RemoveItems deletes every key, stopping at the first failure
func (s *Storage) RemoveItems(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if err := s.RemoveItem(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// Clear wipes the whole namespace
func (s *Storage) Clear(ctx context.Context) error {
	return s.backend.Clear(ctx, s.namespace)
}
