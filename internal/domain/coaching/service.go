// internal/domain/coaching/service.go
package coaching

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/wouhouch/hub/internal/pkg/apiclient"
	"github.com/wouhouch/hub/internal/pkg/notify"
	"github.com/wouhouch/hub/internal/pkg/validation"
)

// Source tells which page a contact form was sent from
type Source int

const (
	SourceCoaching Source = iota
	SourceContact
)

func (s Source) successMessage() string {
	if s == SourceCoaching {
		return "Thank you! Coach Yassine will contact you within 24 hours."
	}
	return "Message sent! We'll get back to you soon."
}

// Service sends inquiries and manages coaching leads
type Service struct {
	api      apiclient.Requester
	notifier notify.Notifier
}

// NewService creates a new coaching service
func NewService(api apiclient.Requester, notifier notify.Notifier) *Service {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Service{api: api, notifier: notifier}
}

// SubmitContact posts an inquiry. Coaching inquiries default their subject.
func (s *Service) SubmitContact(ctx context.Context, src Source, form ContactForm) error {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.Phone = strings.TrimSpace(form.Phone)
	form.Subject = strings.TrimSpace(form.Subject)
	if form.Subject == "" && src == SourceCoaching {
		form.Subject = DefaultSubject
	}

	if err := validation.Struct(form); err != nil {
		return err
	}

	if _, err := s.api.Post(ctx, "/contact", form); err != nil {
		s.notifier.Error("Failed to send message. Please try again.")
		return fmt.Errorf("failed to send message: %w", err)
	}

	s.notifier.Success(src.successMessage())
	return nil
}

// Leads returns every lead, newest first
func (s *Service) Leads(ctx context.Context) ([]Lead, error) {
	raw, err := s.api.Get(ctx, "/leads")
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}

	leads, err := apiclient.DecodeList[Lead](raw)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(leads, func(i, j int) bool {
		return leads[i].CreatedAt.After(leads[j].CreatedAt)
	})
	return leads, nil
}

// UpdateLeadStatus moves a lead along the pipeline
func (s *Service) UpdateLeadStatus(ctx context.Context, id, status string) error {
	st, err := ParseLeadStatus(status)
	if err != nil {
		return validation.Field("status", "Must be one of: new contacted converted closed")
	}

	if _, err := s.api.Patch(ctx, "/leads/"+url.PathEscape(id), map[string]LeadStatus{"status": st}); err != nil {
		return fmt.Errorf("failed to update lead: %w", err)
	}

	s.notifier.Success(fmt.Sprintf("Lead marked as %s", st))
	return nil
}

// FilterLeads keeps leads whose name, email or message contain query
func FilterLeads(leads []Lead, query string) []Lead {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return leads
	}
	out := make([]Lead, 0, len(leads))
	for _, l := range leads {
		if strings.Contains(strings.ToLower(l.Name), q) ||
			strings.Contains(strings.ToLower(l.Email), q) ||
			strings.Contains(strings.ToLower(l.Message), q) {
			out = append(out, l)
		}
	}
	return out
}

// LeadsCSV exports every lead
func (s *Service) LeadsCSV(ctx context.Context) ([]byte, error) {
	leads, err := s.Leads(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"Name", "Email", "Phone", "Program", "Message", "Status", "Created At"})
	for _, l := range leads {
		created := ""
		if !l.CreatedAt.IsZero() {
			created = l.CreatedAt.Format(time.RFC3339)
		}
		w.Write([]string{l.Name, l.Email, l.Phone, l.Program, l.Message, string(l.Status), created})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write leads csv: %w", err)
	}

	s.notifier.Success("Leads exported to CSV")
	return buf.Bytes(), nil
}
