// internal/domain/user/admin_service.go
package user

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/wouhouch/hub/internal/domain/identity"
	"github.com/wouhouch/hub/internal/pkg/apiclient"
	"github.com/wouhouch/hub/internal/pkg/notify"
	"github.com/wouhouch/hub/internal/pkg/validation"
)

// AdminService handles admin user management operations
type AdminService struct {
	api      apiclient.Requester
	notifier notify.Notifier
	now      func() time.Time
}

// NewAdminService creates a new admin user service
func NewAdminService(api apiclient.Requester, notifier notify.Notifier) *AdminService {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &AdminService{api: api, notifier: notifier, now: time.Now}
}

// List retrieves every user. The backend answers with an array or a page.
func (s *AdminService) List(ctx context.Context) ([]User, error) {
	raw, err := s.api.Get(ctx, "/users")
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}
	return apiclient.DecodeList[User](raw)
}

// Filter keeps users whose name or email contain query, case-insensitively
func Filter(users []User, query string) []User {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return users
	}
	out := make([]User, 0, len(users))
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Email), q) {
			out = append(out, u)
		}
	}
	return out
}

// UpdateRole sends the user's full record back with a new role and returns
// the backend's copy
func (s *AdminService) UpdateRole(ctx context.Context, u User, role string) (*User, error) {
	r, err := identity.ParseRole(role)
	if err != nil || strings.TrimSpace(role) == "" {
		return nil, validation.Field("role", "Role must be one of: ADMIN COACH CUSTOMER")
	}

	body, err := u.withRole(r)
	if err != nil {
		return nil, fmt.Errorf("failed to build user record: %w", err)
	}

	raw, err := s.api.Put(ctx, "/users/"+url.PathEscape(u.ID), body)
	if err != nil {
		return nil, fmt.Errorf("failed to update user role: %w", err)
	}

	updated := u
	updated.Role = r
	if raw != nil {
		if err := apiclient.Decode(raw, &updated); err != nil {
			return nil, err
		}
	}

	s.notifier.Success(fmt.Sprintf("User role updated to %s", r))
	return &updated, nil
}

// Delete removes a user
func (s *AdminService) Delete(ctx context.Context, id string) error {
	if _, err := s.api.Delete(ctx, "/users/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.notifier.Success("User deleted successfully!")
	return nil
}

// ExportCSV exports users and returns the file name to download it as
func (s *AdminService) ExportCSV(users []User) ([]byte, string, error) {
	records := [][]string{{"ID", "Name", "Email", "Phone", "Role", "Enabled", "Created At"}}

	for _, u := range users {
		created := ""
		if !u.CreatedAt.IsZero() {
			created = u.CreatedAt.Format("2006-01-02 15:04:05")
		}
		records = append(records, []string{
			u.ID,
			u.Name,
			u.Email,
			u.Phone,
			string(u.Role),
			fmt.Sprintf("%t", u.Enabled),
			created,
		})
	}

	var csvData strings.Builder
	writer := csv.NewWriter(&csvData)
	if err := writer.WriteAll(records); err != nil {
		return nil, "", fmt.Errorf("failed to write CSV: %w", err)
	}

	filename := fmt.Sprintf("users_export_%s.csv", s.now().Format("2006-01-02_15-04-05"))
	return []byte(csvData.String()), filename, nil
}
