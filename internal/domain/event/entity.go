// internal/domain/event/entity.go
package event

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wouhouch/hub/internal/pkg/apiclient"
)

// Status is derived from the start date and never persisted
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusPast     Status = "past"
)

// Event is a workshop, seminar or bootcamp owned by the backend
type Event struct {
	ID                 string          `json:"id"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	StartAt            time.Time       `json:"startAt"`
	EndAt              *time.Time      `json:"endAt,omitempty"`
	Location           string          `json:"location"`
	Capacity           int             `json:"capacity"`
	RegistrationsCount int             `json:"registrationsCount"`
	Price              decimal.Decimal `json:"price"`
	IsFree             bool            `json:"isFree"`
	CoverImageURL      string          `json:"coverImageUrl"`
	Images             []string        `json:"images,omitempty"`
	Status             Status          `json:"status"`
}

// UnmarshalJSON reads backend timestamps leniently and accepts
// currentRegistrations as an alias of registrationsCount
func (e *Event) UnmarshalJSON(data []byte) error {
	type plain Event
	aux := struct {
		*plain
		StartAt               apiclient.Time  `json:"startAt"`
		EndAt                 *apiclient.Time `json:"endAt"`
		CurrentRegistrations  *int            `json:"currentRegistrations"`
		RegistrationsCountRaw *int            `json:"registrationsCount"`
	}{plain: (*plain)(e)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	e.StartAt = aux.StartAt.Time
	e.EndAt = nil
	if aux.EndAt != nil && !aux.EndAt.IsZero() {
		end := aux.EndAt.Time
		e.EndAt = &end
	}

	switch {
	case aux.RegistrationsCountRaw != nil:
		e.RegistrationsCount = *aux.RegistrationsCountRaw
	case aux.CurrentRegistrations != nil:
		e.RegistrationsCount = *aux.CurrentRegistrations
	}
	return nil
}

// IsFull reports whether registrations reached capacity
func (e *Event) IsFull() bool {
	return e.RegistrationsCount >= e.Capacity
}

// SpotsLeft is the remaining capacity, never negative
func (e *Event) SpotsLeft() int {
	if left := e.Capacity - e.RegistrationsCount; left > 0 {
		return left
	}
	return 0
}

// Registration is one attendee's sign-up for an event
type Registration struct {
	ID               string    `json:"id"`
	EventID          string    `json:"eventId"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	EmergencyContact string    `json:"emergencyContact,omitempty"`
	AcceptedTerms    bool      `json:"acceptedTerms"`
	CreatedAt        time.Time `json:"createdAt"`
}

// UnmarshalJSON reads the creation timestamp leniently
func (r *Registration) UnmarshalJSON(data []byte) error {
	type plain Registration
	aux := struct {
		*plain
		CreatedAt apiclient.Time `json:"createdAt"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.CreatedAt = aux.CreatedAt.Time
	return nil
}

// RegistrationForm is the event detail page form
type RegistrationForm struct {
	EventID          string `json:"eventId" validate:"required"`
	Name             string `json:"name" validate:"required,max=120"`
	Email            string `json:"email" validate:"required,email"`
	Phone            string `json:"phone" validate:"required,phone"`
	EmergencyContact string `json:"emergencyContact,omitempty" validate:"max=120"`
	AcceptedTerms    bool   `json:"acceptedTerms"`
}

// Input is the admin form for creating or editing an event
type Input struct {
	Title         string          `json:"title" validate:"required,max=200"`
	Description   string          `json:"description" validate:"required"`
	StartAt       time.Time       `json:"startAt" validate:"required"`
	EndAt         *time.Time      `json:"endAt,omitempty"`
	Location      string          `json:"location" validate:"required"`
	Capacity      int             `json:"capacity" validate:"gt=0"`
	Price         decimal.Decimal `json:"price"`
	IsFree        bool            `json:"isFree"`
	CoverImageURL string          `json:"coverImageUrl" validate:"omitempty,url"`
	Images        []string        `json:"images,omitempty" validate:"dive,url"`
}
