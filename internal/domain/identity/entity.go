// internal/domain/identity/entity.go
package identity

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role is the closed set of principal roles
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCoach    Role = "COACH"
	RoleCustomer Role = "CUSTOMER"
)

// ParseRole normalizes s to a Role. An empty role is a customer.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleCoach, RoleCustomer:
		return r, nil
	case "":
		return RoleCustomer, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// UnmarshalJSON normalizes the role once, at the boundary
func (r *Role) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = RoleCustomer
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("role must be a string: %w", err)
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Principal is the signed-in user as reported by the backend
type Principal struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone,omitempty"`
	Role     Role   `json:"role"`
	Enabled  bool   `json:"enabled"`
}

// UnmarshalJSON fills a missing role with CUSTOMER and accepts "name" for fullName
func (p *Principal) UnmarshalJSON(data []byte) error {
	type plain Principal
	aux := struct {
		*plain
		Name string `json:"name"`
	}{plain: (*plain)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if p.Role == "" {
		p.Role = RoleCustomer
	}
	if p.FullName == "" {
		p.FullName = aux.Name
	}
	return nil
}

func (p *Principal) IsAdmin() bool    { return p != nil && p.Role == RoleAdmin }
func (p *Principal) IsCoach() bool    { return p != nil && p.Role == RoleCoach }
func (p *Principal) IsCustomer() bool { return p != nil && p.Role == RoleCustomer }

// Phase is where the store is in resolving the principal
type Phase int

const (
	// PhaseLoading: nothing is known yet
	PhaseLoading Phase = iota
	// PhaseCached: an optimistic principal from local storage, backend check in flight
	PhaseCached
	// PhaseConfirmed: the backend vouched for the principal
	PhaseConfirmed
	// PhaseAnonymous: no session
	PhaseAnonymous
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseCached:
		return "cached"
	case PhaseConfirmed:
		return "confirmed"
	case PhaseAnonymous:
		return "anonymous"
	}
	return "unknown"
}

// State is an immutable read of the store
type State struct {
	Phase     Phase
	Principal *Principal
}

// Final reports whether the backend check is over
func (s State) Final() bool {
	return s.Phase == PhaseConfirmed || s.Phase == PhaseAnonymous
}

// Authenticated reports whether a principal is present, confirmed or not
func (s State) Authenticated() bool {
	return s.Principal != nil
}
