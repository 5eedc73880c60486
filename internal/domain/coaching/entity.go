// internal/domain/coaching/entity.go
package coaching

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/wouhouch/hub/internal/pkg/apiclient"
)

// DefaultSubject is sent for inquiries from the coaching page
const DefaultSubject = "Coaching Inquiry"

// LeadStatus tracks a lead through the coach's pipeline
type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadConverted LeadStatus = "converted"
	LeadClosed    LeadStatus = "closed"
)

// ParseLeadStatus accepts any case
func ParseLeadStatus(s string) (LeadStatus, error) {
	switch st := LeadStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case LeadNew, LeadContacted, LeadConverted, LeadClosed:
		return st, nil
	}
	return "", fmt.Errorf("unknown lead status %q", s)
}

// Lead is a coaching inquiry stored by the backend
type Lead struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Message   string     `json:"message"`
	Program   string     `json:"program,omitempty"`
	Status    LeadStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
}

// UnmarshalJSON reads timestamps leniently and treats a missing status as new
func (l *Lead) UnmarshalJSON(data []byte) error {
	type plain Lead
	aux := struct {
		*plain
		Status    string         `json:"status"`
		CreatedAt apiclient.Time `json:"createdAt"`
	}{plain: (*plain)(l)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	l.CreatedAt = aux.CreatedAt.Time
	l.Status = LeadNew
	if aux.Status != "" {
		st, err := ParseLeadStatus(aux.Status)
		if err != nil {
			return err
		}
		l.Status = st
	}
	return nil
}

// ContactForm is shared by the coaching and contact pages
type ContactForm struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"phone"`
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}
