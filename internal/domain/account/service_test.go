package account

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wouhouch/hub/internal/domain/identity"
	"github.com/wouhouch/hub/internal/infrastructure/localstore"
	"github.com/wouhouch/hub/internal/pkg/apiclient"
	"github.com/wouhouch/hub/internal/pkg/apiclient/apitest"
	"github.com/wouhouch/hub/internal/pkg/auth"
	"github.com/wouhouch/hub/internal/pkg/logger"
	"github.com/wouhouch/hub/internal/pkg/notify"
	"github.com/wouhouch/hub/internal/pkg/validation"
)

type fixture struct {
	api      *apitest.Fake
	storage  *localstore.Storage
	tokens   *identity.Tokens
	identity *identity.Store
	notes    *notify.Collector
	svc      *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	storage, err := localstore.New(localstore.NewMemoryBackend(), "browser-1")
	require.NoError(t, err)
	sealer, err := auth.NewSealer("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	log := logger.Discard()
	api := apitest.New()
	tokens := identity.NewTokens(storage, log)
	id := identity.NewStore(storage, tokens, api, log)
	notes := notify.NewCollector()

	return &fixture{
		api: api, storage: storage, tokens: tokens, identity: id, notes: notes,
		svc: NewService(Deps{
			API: api, Storage: storage, Tokens: tokens, Identity: id,
			Sealer: sealer, Notifier: notes, Logger: log, VerifyDelay: 2 * time.Second,
		}),
	}
}

func TestSignIn_StoresTokenAndPrincipal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.api.On("POST", "/auth/signin", `{"token":"tok-1"}`).
		On("GET", "/auth/me", `{"data":{"id":"u1","email":"a@b.tn","fullName":"Amine"}}`)

	p, redirect, err := f.svc.SignIn(ctx, SignInForm{Email: " a@b.tn ", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "/home", redirect.To)
	assert.Equal(t, identity.RoleCustomer, p.Role)
	assert.Equal(t, "tok-1", f.tokens.Token(ctx))
	assert.Equal(t, identity.PhaseConfirmed, f.identity.State().Phase)

	call, _ := f.api.Last("POST", "/auth/signin")
	assert.JSONEq(t, `{"email":"a@b.tn","password":"secret123"}`, string(call.Body))
}

func TestSignIn_MeFailureKeepsToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.api.On("POST", "/auth/signin", `{"token":"tok-1"}`).
		Fail("GET", "/auth/me", &apiclient.Error{StatusCode: 500, Message: "boom"})

	p, _, err := f.svc.SignIn(ctx, SignInForm{Email: "a@b.tn", Password: "secret123"})
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Equal(t, "tok-1", f.tokens.Token(ctx))
}

func TestSignIn_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.SignIn(ctx, SignInForm{Email: "nope"})
	_, isValidation := validation.AsErrors(err)
	assert.True(t, isValidation)
	assert.Empty(t, f.api.Calls())

	f.api.On("POST", "/auth/signin", `{}`)
	_, _, err = f.svc.SignIn(ctx, SignInForm{Email: "a@b.tn", Password: "x"})
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestSignUp_ValidatesBeforeNetwork(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SignUp(context.Background(), SignUpForm{
		FullName: "Amine", Email: "a@b.tn", Password: "short", ConfirmPassword: "other",
	})
	ve, ok := validation.AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Password must be at least 8 characters", ve["password"])
	assert.Equal(t, "Passwords do not match", ve["confirmPassword"])
	assert.Equal(t, "You must agree to the terms", ve["terms"])
	assert.Empty(t, f.api.Calls())
}

func TestSignUp_StashesSealedPasswordAndResend(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.api.On("POST", "/auth/signup", `{"message":"ok"}`)

	redirect, err := f.svc.SignUp(ctx, SignUpForm{
		FullName: "Amine", Email: "a@b.tn", Password: "longpassword", ConfirmPassword: "longpassword", AcceptTerms: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "/verify", redirect.To)

	stored, ok, err := f.storage.GetItem(ctx, localstore.KeySignupPassword)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEqual(t, "longpassword", stored)

	require.NoError(t, f.svc.ResendCode(ctx))
	assert.Equal(t, 2, f.api.Count("POST", "/auth/signup"))

	call, _ := f.api.Last("POST", "/auth/signup")
	var body map[string]string
	require.NoError(t, json.Unmarshal(call.Body, &body))
	assert.Equal(t, map[string]string{"email": "a@b.tn", "password": "longpassword", "fullName": "Amine"}, body)
}

func TestResendCode_WithoutStash(t *testing.T) {
	f := newFixture(t)
	err := f.svc.ResendCode(context.Background())
	ve, ok := validation.AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Email not found. Please sign up again.", ve["email"])
}

func TestVerify(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, bad := range []string{"", "12345", "1234567", "12a456"} {
		_, err := f.svc.Verify(ctx, bad)
		_, ok := validation.AsErrors(err)
		assert.True(t, ok, bad)
	}
	assert.Empty(t, f.api.Calls())

	f.api.On("POST", "/auth/verify", "")
	redirect, err := f.svc.Verify(ctx, "123456")
	require.NoError(t, err)
	assert.Equal(t, "/sign-in", redirect.To)
	assert.Equal(t, 2*time.Second, redirect.After)

	call, _ := f.api.Last("POST", "/auth/verify")
	assert.JSONEq(t, `{"code":"123456"}`, string(call.Body))
}

func TestForgotAndReset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.api.On("POST", "/auth/forgot", "").On("POST", "/auth/reset", "")

	require.NoError(t, f.svc.ForgotPassword(ctx, "a@b.tn"))
	assert.Error(t, f.svc.ForgotPassword(ctx, "bad"))

	_, err := f.svc.ResetPassword(ctx, ResetForm{Password: "longpassword", ConfirmPassword: "longpassword"})
	ve, ok := validation.AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid reset link", ve["code"])

	redirect, err := f.svc.ResetPassword(ctx, ResetForm{Code: "abc", Password: "longpassword", ConfirmPassword: "longpassword"})
	require.NoError(t, err)
	assert.Equal(t, "/sign-in", redirect.To)

	call, _ := f.api.Last("POST", "/auth/reset")
	assert.JSONEq(t, `{"code":"abc","newPassword":"longpassword"}`, string(call.Body))
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.tokens.SetToken(ctx, "tok"))
	f.identity.SetUser(ctx, &identity.Principal{ID: "u1", Role: identity.RoleAdmin})

	redirect := f.svc.Logout(ctx)
	assert.Equal(t, "/sign-in", redirect.To)
	assert.Empty(t, f.tokens.Token(ctx))
	assert.False(t, f.identity.IsAuthenticated())
	_, ok, _ := f.storage.GetItem(ctx, localstore.KeyUser)
	assert.False(t, ok)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.UpdateProfile(ctx, ProfileForm{FullName: "A", Email: "a@b.tn"})
	assert.ErrorIs(t, err, ErrNoPrincipal)

	_, err = f.svc.UpdateProfile(ctx, ProfileForm{FullName: " ", Email: "bad", Phone: "abc"})
	ve, ok := validation.AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Full name is required", ve["fullName"])
	assert.Equal(t, "Invalid email format", ve["email"])
	assert.Equal(t, "Invalid phone format", ve["phone"])

	f.identity.SetUser(ctx, &identity.Principal{ID: "u1", FullName: "Old", Role: identity.RoleCustomer})
	f.api.On("PUT", "/users/u1", `{"id":"u1"}`).
		On("GET", "/auth/me", `{"id":"u1","fullName":"New Name","phone":"+216 1","role":"CUSTOMER"}`)

	p, err := f.svc.UpdateProfile(ctx, ProfileForm{FullName: "New Name", Email: "a@b.tn", Phone: "+216 1"})
	require.NoError(t, err)
	assert.Equal(t, "New Name", p.FullName)
	assert.Contains(t, f.notes.Drain(), notify.Notification{Level: notify.LevelSuccess, Message: "Profile updated successfully"})
}
