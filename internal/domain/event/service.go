// internal/domain/event/service.go
package event

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wouhouch/hub/internal/pkg/apiclient"
	"github.com/wouhouch/hub/internal/pkg/notify"
	"github.com/wouhouch/hub/internal/pkg/validation"
)

// HomeLimit is how many upcoming events the home page shows
const HomeLimit = 3

var (
	// ErrEventNotFound is returned when the backend has no such event
	ErrEventNotFound = errors.New("event not found")

	// ErrEventPast is returned when registering for an event that already happened
	ErrEventPast = errors.New("This event has already taken place")

	// ErrEventFull is returned when registrations reached capacity
	ErrEventFull = errors.New("This event is full")
)

// Service reads events and registers attendees through the backend API
type Service struct {
	api      apiclient.Requester
	notifier notify.Notifier
	now      func() time.Time
}

// NewService creates a new event service
func NewService(api apiclient.Requester, notifier notify.Notifier) *Service {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Service{api: api, notifier: notifier, now: time.Now}
}

// List returns every event, classified against the current day
func (s *Service) List(ctx context.Context) ([]Event, error) {
	raw, err := s.api.Get(ctx, "/events")
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events, err := apiclient.DecodeList[Event](raw)
	if err != nil {
		return nil, err
	}
	return ClassifyAll(events, s.now()), nil
}

// Upcoming returns at most limit upcoming events
func (s *Service) Upcoming(ctx context.Context, limit int) ([]Event, error) {
	events, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return Upcoming(events, limit), nil
}

// Get returns one classified event
func (s *Service) Get(ctx context.Context, id string) (*Event, error) {
	raw, err := s.api.Get(ctx, "/events/"+url.PathEscape(id))
	if err != nil {
		if apiclient.StatusCode(err) == 404 {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if raw == nil {
		return nil, ErrEventNotFound
	}

	e, err := decodeEvent(raw)
	if err != nil {
		return nil, err
	}
	e.Status = Classify(*e, s.now())
	return e, nil
}

// Register signs an attendee up for an upcoming event that still has room
func (s *Service) Register(ctx context.Context, form RegistrationForm) (*Registration, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.Phone = strings.TrimSpace(form.Phone)

	errs := validation.Errors{}
	if err := validation.Struct(form); err != nil {
		ve, ok := validation.AsErrors(err)
		if !ok {
			return nil, err
		}
		errs = ve
	}
	if !form.AcceptedTerms {
		errs.Add("acceptedTerms", "Please accept the terms and conditions")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	e, err := s.Get(ctx, form.EventID)
	if err != nil {
		return nil, err
	}
	if e.Status == StatusPast {
		return nil, ErrEventPast
	}
	if e.IsFull() {
		return nil, ErrEventFull
	}

	raw, err := s.api.Post(ctx, "/event-registrations", form)
	if err != nil {
		return nil, fmt.Errorf("failed to register for event: %w", err)
	}

	reg := &Registration{
		EventID:          form.EventID,
		Name:             form.Name,
		Email:            form.Email,
		Phone:            form.Phone,
		EmergencyContact: form.EmergencyContact,
		AcceptedTerms:    true,
	}
	if raw != nil {
		if err := apiclient.Decode(raw, reg); err != nil {
			return nil, err
		}
	}

	s.notifier.Success("Registration successful! Check your email for confirmation.")
	return reg, nil
}

// Create adds an event
func (s *Service) Create(ctx context.Context, in Input) (*Event, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	raw, err := s.api.Post(ctx, "/events", in)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return s.classified(raw)
}

// Update replaces an event
func (s *Service) Update(ctx context.Context, id string, in Input) (*Event, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	raw, err := s.api.Put(ctx, "/events/"+url.PathEscape(id), in)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return s.classified(raw)
}

// Delete removes an event
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.api.Delete(ctx, "/events/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// Registrations lists the attendees of one event
func (s *Service) Registrations(ctx context.Context, eventID string) ([]Registration, error) {
	raw, err := s.api.Get(ctx, "/admin/events/"+url.PathEscape(eventID)+"/registrations")
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	return apiclient.DecodeList[Registration](raw)
}

// RegistrationsCSV exports the attendees of one event
func (s *Service) RegistrationsCSV(ctx context.Context, eventID string) ([]byte, error) {
	regs, err := s.Registrations(ctx, eventID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"Name", "Email", "Phone", "Emergency Contact", "Accepted Terms", "Registered At"})
	for _, r := range regs {
		registered := ""
		if !r.CreatedAt.IsZero() {
			registered = r.CreatedAt.Format(time.RFC3339)
		}
		w.Write([]string{
			r.Name,
			r.Email,
			r.Phone,
			r.EmergencyContact,
			strconv.FormatBool(r.AcceptedTerms),
			registered,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write registrations csv: %w", err)
	}

	s.notifier.Success("Registrations exported to CSV")
	return buf.Bytes(), nil
}

func (s *Service) classified(raw []byte) (*Event, error) {
	e, err := decodeEvent(raw)
	if err != nil {
		return nil, err
	}
	e.Status = Classify(*e, s.now())
	return e, nil
}

func decodeEvent(raw []byte) (*Event, error) {
	var e Event
	if err := apiclient.Decode(raw, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func validateInput(in Input) error {
	errs := validation.Errors{}
	if err := validation.Struct(in); err != nil {
		ve, ok := validation.AsErrors(err)
		if !ok {
			return err
		}
		errs = ve
	}

	if in.EndAt != nil && !in.EndAt.After(in.StartAt) {
		errs.Add("endAt", "End time must be after the start time")
	}
	if !in.IsFree && !in.Price.IsPositive() {
		errs.Add("price", "Price must be greater than 0 for paid events")
	}
	if in.IsFree && !in.Price.IsZero() {
		errs.Add("price", "Free events cannot have a price")
	}

	return errs.Err()
}
