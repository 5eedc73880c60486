// internal/domain/identity/store.go
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wouhouch/hub/internal/infrastructure/localstore"
	"github.com/wouhouch/hub/internal/pkg/apiclient"
	"github.com/wouhouch/hub/internal/pkg/auth"
)

const mePath = "/auth/me"

// Store tracks the current principal of one browser.
//
// Phases: Loading -> Cached (optimistic, from the user key) -> Confirmed | Anonymous.
// Init starts the backend check in the background; Wait blocks until it ends.
type Store struct {
	storage *localstore.Storage
	tokens  *Tokens
	api     apiclient.Requester
	log     logrus.FieldLogger
	now     func() time.Time

	mu    sync.RWMutex
	state State
	gen   uint64
	done  chan struct{}
}

// NewStore creates a store in the Loading phase
func NewStore(storage *localstore.Storage, tokens *Tokens, api apiclient.Requester, log logrus.FieldLogger) *Store {
	return &Store{
		storage: storage,
		tokens:  tokens,
		api:     api,
		log:     log.WithField("component", "identity"),
		now:     time.Now,
		state:   State{Phase: PhaseLoading},
		done:    make(chan struct{}),
	}
}

// Init loads the cached principal and starts the authoritative check.
// Without a usable token it resolves to Anonymous without a network call.
func (s *Store) Init(ctx context.Context) {
	cached := s.loadCache(ctx)

	token := s.tokens.Token(ctx)
	if token == "" || auth.TokenExpired(token, s.now()) {
		if token != "" {
			s.log.Debug("Stored token has expired")
			s.tokens.ClearToken(ctx)
		}
		s.removeCache(ctx)
		s.resolve(s.currentGen(), State{Phase: PhaseAnonymous})
		return
	}

	s.mu.Lock()
	gen := s.gen
	if cached != nil {
		s.state = State{Phase: PhaseCached, Principal: cached}
	}
	s.mu.Unlock()

	// The check outlives the request that started it, like a page that keeps
	// loading after the user navigates
	bg := context.WithoutCancel(ctx)
	go func() {
		state, action := s.fetch(bg, cached)
		s.apply(bg, gen, token, state, action)
	}()
}

// State returns the current state without blocking
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Principal returns the current principal, or nil
func (s *Store) Principal() *Principal {
	return s.State().Principal
}

// Wait blocks until the backend check resolves or ctx ends
func (s *Store) Wait(ctx context.Context) (State, error) {
	s.mu.RLock()
	done := s.done
	s.mu.RUnlock()

	select {
	case <-done:
		return s.State(), nil
	case <-ctx.Done():
		return s.State(), ctx.Err()
	}
}

// Refresh repeats the backend check synchronously, e.g. after a profile edit
func (s *Store) Refresh(ctx context.Context) (State, error) {
	gen := s.currentGen()
	token := s.tokens.Token(ctx)
	state, action := s.fetch(ctx, s.Principal())
	s.apply(ctx, gen, token, state, action)
	return s.State(), ctx.Err()
}

// SetUser assigns the principal directly, as sign-in and sign-out do.
// It supersedes any backend check still in flight.
func (s *Store) SetUser(ctx context.Context, p *Principal) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	if p == nil {
		s.removeCache(ctx)
		s.resolve(gen, State{Phase: PhaseAnonymous})
		return
	}

	s.saveCache(ctx, p)
	s.resolve(gen, State{Phase: PhaseConfirmed, Principal: p})
}

func (s *Store) IsAuthenticated() bool { return s.State().Authenticated() }
func (s *Store) IsAdmin() bool         { return s.Principal().IsAdmin() }
func (s *Store) IsCoach() bool         { return s.Principal().IsCoach() }
func (s *Store) IsCustomer() bool      { return s.Principal().IsCustomer() }

// FetchPrincipal calls /auth/me and decodes the principal, unwrapping a data envelope
func FetchPrincipal(ctx context.Context, api apiclient.Requester) (*Principal, error) {
	raw, err := api.Get(ctx, mePath)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	var p Principal
	if err := json.Unmarshal(apiclient.UnwrapData(raw), &p); err != nil {
		return nil, fmt.Errorf("failed to decode principal: %w", err)
	}
	return &p, nil
}

// cacheAction says what a resolved check does to the user key
type cacheAction int

const (
	cacheKeep cacheAction = iota
	cacheSave
	cacheRemove
)

// fetch runs the backend check and maps its outcome to a final state
func (s *Store) fetch(ctx context.Context, cached *Principal) (State, cacheAction) {
	p, err := FetchPrincipal(ctx, s.api)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Nobody is left to act on the answer; keep what we had
			if cached != nil {
				return State{Phase: PhaseConfirmed, Principal: cached}, cacheKeep
			}
			return State{Phase: PhaseAnonymous}, cacheKeep
		}
		s.log.WithError(err).Info("Failed to fetch logged-in user")
		return State{Phase: PhaseAnonymous}, cacheRemove
	}

	// An empty answer leaves the cached principal in place
	if p == nil {
		if cached != nil {
			return State{Phase: PhaseConfirmed, Principal: cached}, cacheKeep
		}
		return State{Phase: PhaseAnonymous}, cacheKeep
	}

	return State{Phase: PhaseConfirmed, Principal: p}, cacheSave
}

// apply publishes a check's outcome and its cache write, unless a newer
// SetUser superseded gen. A principal is only cached while the token the
// check ran with is still the stored one.
func (s *Store) apply(ctx context.Context, gen uint64, token string, state State, action cacheAction) {
	if s.currentGen() == gen {
		switch action {
		case cacheSave:
			if s.tokens.Token(ctx) != token {
				s.log.Debug("Token changed during check; not caching user")
				break
			}
			s.saveCache(ctx, state.Principal)
		case cacheRemove:
			s.removeCache(ctx)
		}
	}
	s.resolve(gen, state)
}

// resolve publishes a final state unless a newer SetUser superseded gen
func (s *Store) resolve(gen uint64, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen == s.gen {
		s.state = state
	}
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}

func (s *Store) currentGen() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

func (s *Store) loadCache(ctx context.Context) *Principal {
	raw, ok, err := s.storage.GetItem(ctx, localstore.KeyUser)
	if err != nil {
		s.log.WithError(err).Warn("Failed to read cached user")
		return nil
	}
	if !ok || raw == "" {
		return nil
	}

	var p Principal
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		s.log.WithError(err).Warn("Discarding corrupt cached user")
		s.removeCache(ctx)
		return nil
	}
	return &p
}

func (s *Store) saveCache(ctx context.Context, p *Principal) {
	payload, err := json.Marshal(p)
	if err != nil {
		s.log.WithError(err).Error("Failed to serialize user")
		return
	}
	if err := s.storage.SetItem(ctx, localstore.KeyUser, string(payload)); err != nil {
		s.log.WithError(err).Warn("Unable to store user in local storage")
	}
}

func (s *Store) removeCache(ctx context.Context) {
	if err := s.storage.RemoveItem(ctx, localstore.KeyUser); err != nil {
		s.log.WithError(err).Warn("Failed to remove cached user")
	}
}
