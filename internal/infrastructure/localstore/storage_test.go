package localstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsEmptyNamespace(t *testing.T) {
	_, err := New(NewMemoryBackend(), "")
	assert.ErrorIs(t, err, ErrEmptyNamespace)
}

func TestStorage_MemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()

	a, err := New(backend, "browser-a")
	require.NoError(t, err)
	b, err := New(backend, "browser-b")
	require.NoError(t, err)

	require.NoError(t, a.SetItem(ctx, KeyAuthToken, "token-a"))

	value, ok, err := a.GetItem(ctx, KeyAuthToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "token-a", value)

	// Namespaces never see each other's keys
	_, ok, err = b.GetItem(ctx, KeyAuthToken)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, a.RemoveItem(ctx, KeyAuthToken))
	require.NoError(t, a.RemoveItem(ctx, KeyAuthToken))
	_, ok, _ = a.GetItem(ctx, KeyAuthToken)
	assert.False(t, ok)
}

func TestStorage_RemoveItemsAndClear(t *testing.T) {
	ctx := context.Background()
	s, err := New(NewMemoryBackend(), "browser")
	require.NoError(t, err)

	for _, key := range []string{KeySignupEmail, KeySignupPassword, KeySignupFullName, KeyCart} {
		require.NoError(t, s.SetItem(ctx, key, "v"))
	}

	require.NoError(t, s.RemoveItems(ctx, KeySignupEmail, KeySignupPassword, KeySignupFullName))
	_, ok, _ := s.GetItem(ctx, KeySignupPassword)
	assert.False(t, ok)
	_, ok, _ = s.GetItem(ctx, KeyCart)
	assert.True(t, ok)

	require.NoError(t, s.Clear(ctx))
	_, ok, _ = s.GetItem(ctx, KeyCart)
	assert.False(t, ok)
}
