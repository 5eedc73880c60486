// internal/domain/user/entity.go
package user

import (
	"encoding/json"
	"time"

	"github.com/wouhouch/hub/internal/domain/identity"
	"github.com/wouhouch/hub/internal/pkg/apiclient"
)

// User is an account as listed on the admin users page
type User struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone,omitempty"`
	Role      identity.Role `json:"role"`
	Enabled   bool          `json:"enabled"`
	CreatedAt time.Time     `json:"createdAt"`

	// record is the backend's full JSON, sent back verbatim on role updates
	record json.RawMessage
}

// UnmarshalJSON keeps the full record, reads fullName as an alias of name
// and defaults a missing role to CUSTOMER
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	aux := struct {
		*plain
		FullName  string         `json:"fullName"`
		Role      *identity.Role `json:"role"`
		Enabled   *bool          `json:"enabled"`
		CreatedAt apiclient.Time `json:"createdAt"`
	}{plain: (*plain)(u)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if u.Name == "" {
		u.Name = aux.FullName
	}
	u.Role = identity.RoleCustomer
	if aux.Role != nil && *aux.Role != "" {
		u.Role = *aux.Role
	}
	u.Enabled = aux.Enabled == nil || *aux.Enabled
	u.CreatedAt = aux.CreatedAt.Time
	u.record = append(json.RawMessage(nil), data...)
	return nil
}

// withRole returns the full record with role replaced
func (u *User) withRole(role identity.Role) (map[string]json.RawMessage, error) {
	fields := map[string]json.RawMessage{}
	if len(u.record) > 0 {
		if err := json.Unmarshal(u.record, &fields); err != nil {
			return nil, err
		}
	} else {
		b, err := json.Marshal(u)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(b, &fields); err != nil {
			return nil, err
		}
	}

	encoded, err := json.Marshal(role)
	if err != nil {
		return nil, err
	}
	fields["role"] = encoded
	return fields, nil
}
