package identity

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wouhouch/hub/internal/infrastructure/localstore"
	"github.com/wouhouch/hub/internal/pkg/apiclient"
	"github.com/wouhouch/hub/internal/pkg/apiclient/apitest"
	"github.com/wouhouch/hub/internal/pkg/logger"
)

type fixture struct {
	storage *localstore.Storage
	tokens  *Tokens
	api     *apitest.Fake
	store   *Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	storage, err := localstore.New(localstore.NewMemoryBackend(), "browser-1")
	require.NoError(t, err)

	log := logger.Discard()
	tokens := NewTokens(storage, log)
	api := apitest.New()
	return &fixture{
		storage: storage,
		tokens:  tokens,
		api:     api,
		store:   NewStore(storage, tokens, api, log),
	}
}

func waitFinal(t *testing.T, s *Store) State {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	state, err := s.Wait(ctx)
	require.NoError(t, err)
	require.True(t, state.Final())
	return state
}

func TestRole_UnmarshalNormalizes(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{in: `"admin"`, want: RoleAdmin},
		{in: `"Coach"`, want: RoleCoach},
		{in: `"CUSTOMER"`, want: RoleCustomer},
		{in: `""`, want: RoleCustomer},
		{in: `null`, want: RoleCustomer},
		{in: `"superuser"`, wantErr: true},
		{in: `42`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var r Role
			err := json.Unmarshal([]byte(tt.in), &r)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, r)
		})
	}
}

func TestPrincipal_MissingRoleAndNameAlias(t *testing.T) {
	var p Principal
	require.NoError(t, json.Unmarshal([]byte(`{"id":"u1","email":"a@b.c","name":"Amine"}`), &p))
	assert.Equal(t, RoleCustomer, p.Role)
	assert.Equal(t, "Amine", p.FullName)
	assert.True(t, p.IsCustomer())
	assert.False(t, p.IsAdmin())

	var nilP *Principal
	assert.False(t, nilP.IsAdmin())
}

func TestInit_NoTokenIsAnonymousWithoutNetwork(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.storage.SetItem(ctx, localstore.KeyUser, `{"id":"u1","role":"ADMIN"}`))

	f.store.Init(ctx)
	state := waitFinal(t, f.store)

	assert.Equal(t, PhaseAnonymous, state.Phase)
	assert.Nil(t, state.Principal)
	assert.Empty(t, f.api.Calls())

	_, ok, _ := f.storage.GetItem(ctx, localstore.KeyUser)
	assert.False(t, ok)
}

func TestInit_ExpiredJWTIsAnonymous(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	require.NoError(t, f.tokens.SetToken(ctx, expired))

	f.store.Init(ctx)
	state := waitFinal(t, f.store)

	assert.Equal(t, PhaseAnonymous, state.Phase)
	assert.Empty(t, f.api.Calls())
	assert.Empty(t, f.tokens.Token(ctx))
}

func TestInit_ConfirmsAndCachesPrincipal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.tokens.SetToken(ctx, "opaque-token"))
	f.api.On("GET", "/auth/me", `{"data":{"id":"u1","email":"coach@wouhouch.tn","fullName":"Yassine","role":"coach","enabled":true}}`)

	f.store.Init(ctx)
	state := waitFinal(t, f.store)

	require.Equal(t, PhaseConfirmed, state.Phase)
	assert.Equal(t, RoleCoach, state.Principal.Role)
	assert.True(t, f.store.IsCoach())
	assert.True(t, f.store.IsAuthenticated())

	raw, ok, err := f.storage.GetItem(ctx, localstore.KeyUser)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, `"role":"COACH"`)
}

func TestInit_CachedPhaseBeforeConfirmation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.tokens.SetToken(ctx, "opaque-token"))
	require.NoError(t, f.storage.SetItem(ctx, localstore.KeyUser, `{"id":"u1","role":"admin"}`))

	// Block the backend until the test has observed the cached phase
	release := make(chan struct{})
	blocking := &blockingRequester{Requester: f.api, release: release}
	f.api.On("GET", "/auth/me", `{"id":"u1","role":"ADMIN","enabled":true}`)
	store := NewStore(f.storage, f.tokens, blocking, logger.Discard())

	store.Init(ctx)
	state := store.State()
	assert.Equal(t, PhaseCached, state.Phase)
	assert.True(t, state.Principal.IsAdmin())
	assert.False(t, state.Final())

	close(release)
	state = waitFinal(t, store)
	assert.Equal(t, PhaseConfirmed, state.Phase)
}

func TestInit_FailureClearsPrincipalAndCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.tokens.SetToken(ctx, "opaque-token"))
	require.NoError(t, f.storage.SetItem(ctx, localstore.KeyUser, `{"id":"u1","role":"ADMIN"}`))
	f.api.Fail("GET", "/auth/me", apiclient.ErrUnauthorized)

	f.store.Init(ctx)
	state := waitFinal(t, f.store)

	assert.Equal(t, PhaseAnonymous, state.Phase)
	_, ok, _ := f.storage.GetItem(ctx, localstore.KeyUser)
	assert.False(t, ok)
}

func TestInit_CorruptCacheIsDiscarded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.storage.SetItem(ctx, localstore.KeyUser, `{"role":"pirate"}`))
	require.NoError(t, f.tokens.SetToken(ctx, "opaque-token"))
	f.api.On("GET", "/auth/me", `{"id":"u2","role":"CUSTOMER"}`)

	f.store.Init(ctx)
	state := waitFinal(t, f.store)
	assert.Equal(t, "u2", state.Principal.ID)
}

func TestSetUser_SupersedesInflightCheck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.tokens.SetToken(ctx, "opaque-token"))

	release := make(chan struct{})
	f.api.Fail("GET", "/auth/me", apiclient.ErrUnauthorized)
	store := NewStore(f.storage, f.tokens, &blockingRequester{Requester: f.api, release: release}, logger.Discard())

	store.Init(ctx)
	store.SetUser(ctx, &Principal{ID: "u9", Role: RoleAdmin})
	close(release)

	// Let the stale failure land
	assert.Eventually(t, func() bool { return f.api.Count("GET", "/auth/me") == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	assert.True(t, store.IsAdmin())
	assert.Equal(t, PhaseConfirmed, store.State().Phase)
}

func TestInit_StaleCheckDoesNotOverwriteNewerSignIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.tokens.SetToken(ctx, "old-token"))
	f.api.On("GET", "/auth/me", `{"id":"u1","fullName":"Old","role":"CUSTOMER"}`)

	release := make(chan struct{})
	earlier := NewStore(f.storage, f.tokens, &blockingRequester{Requester: f.api, release: release}, logger.Discard())
	earlier.Init(ctx)

	// A later request signs in as someone else on the same browser
	require.NoError(t, f.tokens.SetToken(ctx, "new-token"))
	f.store.SetUser(ctx, &Principal{ID: "u2", FullName: "New", Role: RoleAdmin})

	close(release)
	waitFinal(t, earlier)

	raw, ok, err := f.storage.GetItem(ctx, localstore.KeyUser)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, `"id":"u2"`)
}

func TestSetUser_NilClearsCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.SetUser(ctx, &Principal{ID: "u1", Role: RoleCustomer})

	_, ok, _ := f.storage.GetItem(ctx, localstore.KeyUser)
	assert.True(t, ok)

	f.store.SetUser(ctx, nil)
	_, ok, _ = f.storage.GetItem(ctx, localstore.KeyUser)
	assert.False(t, ok)
	assert.Equal(t, PhaseAnonymous, f.store.State().Phase)
}

func TestRefresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.SetUser(ctx, &Principal{ID: "u1", FullName: "Old", Role: RoleCustomer})
	f.api.On("GET", "/auth/me", `{"id":"u1","fullName":"New","role":"CUSTOMER"}`)

	state, err := f.store.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, "New", state.Principal.FullName)
}

func TestTokens_ClearRemovesSignupStash(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.tokens.SetToken(ctx, "t"))
	require.NoError(t, f.storage.SetItem(ctx, localstore.KeySignupEmail, "a@b.c"))

	f.tokens.ClearToken(ctx)

	assert.Empty(t, f.tokens.Token(ctx))
	_, ok, _ := f.storage.GetItem(ctx, localstore.KeySignupEmail)
	assert.False(t, ok)
}

func TestWait_ContextEnds(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	state, err := f.store.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, PhaseLoading, state.Phase)
}

type blockingRequester struct {
	apiclient.Requester
	release chan struct{}
}

func (b *blockingRequester) Get(ctx context.Context, path string) (json.RawMessage, error) {
	<-b.release
	return b.Requester.Get(ctx, path)
}
