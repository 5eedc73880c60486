// internal/domain/identity/tokens.go
package identity

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/wouhouch/hub/internal/infrastructure/localstore"
)

// Tokens keeps the backend bearer token under the authToken key.
// It satisfies apiclient.TokenStore.
type Tokens struct {
	storage *localstore.Storage
	log     logrus.FieldLogger
}

// NewTokens creates a token accessor over storage
func NewTokens(storage *localstore.Storage, log logrus.FieldLogger) *Tokens {
	return &Tokens{storage: storage, log: log}
}

// Token returns the stored token, or "" when absent or unreadable
func (t *Tokens) Token(ctx context.Context) string {
	token, ok, err := t.storage.GetItem(ctx, localstore.KeyAuthToken)
	if err != nil {
		t.log.WithError(err).Warn("Failed to read auth token")
		return ""
	}
	if !ok {
		return ""
	}
	return token
}

// SetToken stores a freshly issued token
func (t *Tokens) SetToken(ctx context.Context, token string) error {
	return t.storage.SetItem(ctx, localstore.KeyAuthToken, token)
}

// ClearToken removes the token together with the pending sign-up fields
func (t *Tokens) ClearToken(ctx context.Context) {
	err := t.storage.RemoveItems(ctx,
		localstore.KeyAuthToken,
		localstore.KeySignupEmail,
		localstore.KeySignupPassword,
		localstore.KeySignupFullName,
	)
	if err != nil {
		t.log.WithError(err).Warn("Failed to clear auth token")
	}
}
