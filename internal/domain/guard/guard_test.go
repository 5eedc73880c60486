package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wouhouch/hub/internal/domain/identity"
)

var (
	anonymous = Session{}
	loading   = Session{Loading: true}
	customer  = Session{Authenticated: true, Role: identity.RoleCustomer}
	admin     = Session{Authenticated: true, Role: identity.RoleAdmin}
)

func TestProtected(t *testing.T) {
	tests := []struct {
		name    string
		session Session
		opts    RouteOptions
		want    Decision
	}{
		{name: "loading wins on protected", session: loading, opts: RouteOptions{AuthRequired: true}, want: Wait},
		{name: "loading wins on auth-free", session: loading, opts: RouteOptions{}, want: Wait},
		{name: "anonymous on protected", session: anonymous, opts: RouteOptions{AuthRequired: true}, want: RedirectSignIn},
		{name: "anonymous on auth-free", session: anonymous, opts: RouteOptions{}, want: Render},
		{name: "signed in on auth-free", session: customer, opts: RouteOptions{}, want: RedirectHome},
		{name: "signed in allowed on auth-free", session: customer, opts: RouteOptions{AllowAuthenticated: true}, want: Render},
		{name: "signed in on protected", session: customer, opts: RouteOptions{AuthRequired: true}, want: Render},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Protected(tt.session, tt.opts))
		})
	}
}

func TestAdmin(t *testing.T) {
	assert.Equal(t, Wait, Admin(loading))
	assert.Equal(t, RedirectSignIn, Admin(anonymous))
	assert.Equal(t, RedirectHome, Admin(customer))
	assert.Equal(t, RedirectHome, Admin(Session{Authenticated: true, Role: identity.RoleCoach}))
	assert.Equal(t, Render, Admin(admin))
}

func TestOptimisticSessionNeverRedirects(t *testing.T) {
	cachedCustomer := Session{Optimistic: true, Authenticated: true, Role: identity.RoleCustomer}
	cachedAdmin := Session{Optimistic: true, Authenticated: true, Role: identity.RoleAdmin}

	assert.Equal(t, Wait, Admin(cachedCustomer))
	assert.Equal(t, Render, Admin(cachedAdmin))
	assert.Equal(t, Render, Protected(cachedCustomer, RouteOptions{AuthRequired: true}))
	assert.Equal(t, Wait, Protected(cachedCustomer, RouteOptions{}))
}

func TestConfirmed(t *testing.T) {
	cachedAdmin := Session{Optimistic: true, Authenticated: true, Role: identity.RoleAdmin}

	assert.Equal(t, Wait, Confirmed(cachedAdmin, Admin(cachedAdmin)))
	assert.Equal(t, Render, Confirmed(admin, Admin(admin)))
	assert.Equal(t, RedirectSignIn, Confirmed(anonymous, Admin(anonymous)))
}

func TestScenario_SignInThenProtectedRenders(t *testing.T) {
	assert.Equal(t, RedirectSignIn, Decide(Authenticated, anonymous))
	assert.Equal(t, SignInPath, Decide(Authenticated, anonymous).Target())

	signedIn := FromState(identity.State{
		Phase:     identity.PhaseConfirmed,
		Principal: &identity.Principal{ID: "u1", Role: identity.RoleCustomer},
	})
	assert.Equal(t, Render, Decide(Authenticated, signedIn))
}

func TestScenario_NonAdminGoesHomeNotSignIn(t *testing.T) {
	d := Decide(AdminOnly, customer)
	assert.Equal(t, RedirectHome, d)
	assert.Equal(t, HomePath, d.Target())
}

func TestFromState(t *testing.T) {
	assert.True(t, FromState(identity.State{Phase: identity.PhaseLoading}).Loading)
	assert.False(t, FromState(identity.State{Phase: identity.PhaseAnonymous}).Authenticated)

	s := FromState(identity.State{Phase: identity.PhaseCached, Principal: &identity.Principal{Role: identity.RoleAdmin}})
	assert.True(t, s.Optimistic)
	assert.Equal(t, identity.RoleAdmin, s.Role)
}

func TestPagesTable(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range Pages {
		assert.False(t, seen[r.Path], "duplicate route %s", r.Path)
		seen[r.Path] = true
	}
	assert.True(t, seen[HomePath])
	assert.True(t, seen[SignInPath])
}
