package event

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wouhouch/hub/internal/pkg/apiclient"
	"github.com/wouhouch/hub/internal/pkg/apiclient/apitest"
	"github.com/wouhouch/hub/internal/pkg/notify"
	"github.com/wouhouch/hub/internal/pkg/validation"
)

var fixedNow = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

func newTestService(api *apitest.Fake) (*Service, *notify.Collector) {
	n := notify.NewCollector()
	svc := NewService(api, n)
	svc.now = func() time.Time { return fixedNow }
	return svc, n
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		want  Status
	}{
		{name: "earlier today is still upcoming", start: fixedNow.Add(-10 * time.Hour), want: StatusUpcoming},
		{name: "later today", start: fixedNow.Add(5 * time.Hour), want: StatusUpcoming},
		{name: "yesterday", start: fixedNow.AddDate(0, 0, -1), want: StatusPast},
		{name: "last year", start: fixedNow.AddDate(-1, 0, 0), want: StatusPast},
		{name: "tomorrow", start: fixedNow.AddDate(0, 0, 1), want: StatusUpcoming},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(Event{StartAt: tt.start}, fixedNow))
		})
	}
}

func TestClassify_UsesNowLocation(t *testing.T) {
	casablanca := time.FixedZone("WEST", 1*60*60)
	now := time.Date(2025, 3, 10, 0, 30, 0, 0, casablanca)
	// 23:45 UTC on the 9th is 00:45 on the 10th in Casablanca
	start := time.Date(2025, 3, 9, 23, 45, 0, 0, time.UTC)
	assert.Equal(t, StatusUpcoming, Classify(Event{StartAt: start}, now))
}

func TestEvent_UnmarshalAliases(t *testing.T) {
	var e Event
	require.NoError(t, json.Unmarshal([]byte(`{
		"id":"e1","title":"Beach Bootcamp","startAt":"2025-03-12T09:00:00",
		"capacity":20,"currentRegistrations":20,"price":0,"isFree":true}`), &e))

	assert.Equal(t, 20, e.RegistrationsCount)
	assert.True(t, e.IsFull())
	assert.Equal(t, 0, e.SpotsLeft())
	assert.Equal(t, 12, e.StartAt.Day())
	assert.Nil(t, e.EndAt)

	var explicit Event
	require.NoError(t, json.Unmarshal([]byte(`{"registrationsCount":3,"currentRegistrations":9,"capacity":10}`), &explicit))
	assert.Equal(t, 3, explicit.RegistrationsCount)
	assert.Equal(t, 7, explicit.SpotsLeft())
}

const eventsJSON = `[
 {"id":"old","title":"Winter Camp","startAt":"2025-01-05T09:00:00Z","capacity":10},
 {"id":"e1","title":"Beach Bootcamp","startAt":"2025-03-10T07:00:00Z","capacity":10},
 {"id":"e2","title":"Mobility Seminar","startAt":"2025-03-20T18:00:00Z","capacity":30},
 {"id":"e3","title":"Strength Workshop","startAt":"2025-04-02T10:00:00Z","capacity":12},
 {"id":"e4","title":"Summer Camp","startAt":"2025-07-01T08:00:00Z","capacity":40}
]`

func TestList_ClassifiesAndUpcomingLimits(t *testing.T) {
	api := apitest.New().On("GET", "/events", eventsJSON)
	svc, _ := newTestService(api)

	events, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 5)
	assert.Equal(t, StatusPast, events[0].Status)
	assert.Equal(t, StatusUpcoming, events[1].Status)

	upcoming, err := svc.Upcoming(context.Background(), HomeLimit)
	require.NoError(t, err)
	require.Len(t, upcoming, 3)
	assert.Equal(t, "e1", upcoming[0].ID)
	assert.Equal(t, "e3", upcoming[2].ID)
}

func TestGet_NotFound(t *testing.T) {
	api := apitest.New().Fail("GET", "/events/nope", &apiclient.Error{StatusCode: 404, Message: "Not found"})
	svc, _ := newTestService(api)

	_, err := svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func validForm(eventID string) RegistrationForm {
	return RegistrationForm{
		EventID:       eventID,
		Name:          " Salma Idrissi ",
		Email:         "salma@example.com",
		Phone:         "+212 600 000 000",
		AcceptedTerms: true,
	}
}

func TestRegister_Success(t *testing.T) {
	api := apitest.New().
		On("GET", "/events/e2", `{"data":{"id":"e2","title":"Mobility Seminar","startAt":"2025-03-20T18:00:00Z","capacity":30,"registrationsCount":4}}`).
		On("POST", "/event-registrations", `{"id":"r1","eventId":"e2","name":"Salma Idrissi","createdAt":"2025-03-10T15:00:00Z"}`)
	svc, n := newTestService(api)

	reg, err := svc.Register(context.Background(), validForm("e2"))
	require.NoError(t, err)
	assert.Equal(t, "r1", reg.ID)
	assert.Equal(t, "Salma Idrissi", reg.Name)

	call, ok := api.Last("POST", "/event-registrations")
	require.True(t, ok)
	assert.JSONEq(t, `{"eventId":"e2","name":"Salma Idrissi","email":"salma@example.com","phone":"+212 600 000 000","acceptedTerms":true}`, string(call.Body))

	notes := n.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, "Registration successful! Check your email for confirmation.", notes[0].Message)
}

func TestRegister_Validation(t *testing.T) {
	api := apitest.New()
	svc, _ := newTestService(api)

	form := validForm("e2")
	form.AcceptedTerms = false
	form.Phone = "call me"
	form.Email = ""

	_, err := svc.Register(context.Background(), form)
	ve, ok := validation.AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Please accept the terms and conditions", ve["acceptedTerms"])
	assert.Contains(t, ve, "phone")
	assert.Contains(t, ve, "email")
	assert.Empty(t, api.Calls())
}

func TestRegister_RejectsPastAndFull(t *testing.T) {
	api := apitest.New().
		On("GET", "/events/old", `{"id":"old","startAt":"2025-01-05T09:00:00Z","capacity":10}`).
		On("GET", "/events/full", `{"id":"full","startAt":"2025-04-05T09:00:00Z","capacity":10,"currentRegistrations":10}`)
	svc, _ := newTestService(api)

	_, err := svc.Register(context.Background(), validForm("old"))
	assert.ErrorIs(t, err, ErrEventPast)

	_, err = svc.Register(context.Background(), validForm("full"))
	assert.ErrorIs(t, err, ErrEventFull)

	assert.Equal(t, 0, api.Count("POST", "/event-registrations"))
}

func TestCalendar(t *testing.T) {
	end := time.Date(2025, 3, 20, 21, 0, 0, 0, time.UTC)
	e := Event{
		ID:          "e2",
		Title:       "Mobility  Seminar, Casablanca",
		Description: "Bring a mat;\nwater",
		Location:    "Ain Diab",
		StartAt:     time.Date(2025, 3, 20, 18, 0, 0, 0, time.UTC),
	}

	ics := string(Calendar(e, fixedNow))
	assert.True(t, strings.HasPrefix(ics, "BEGIN:VCALENDAR\r\n"))
	assert.Contains(t, ics, "DTSTART:20250320T180000Z\r\n")
	assert.Contains(t, ics, "DTEND:20250320T200000Z\r\n")
	assert.Contains(t, ics, `SUMMARY:Mobility  Seminar\, Casablanca`)
	assert.Contains(t, ics, `DESCRIPTION:Bring a mat\;\nwater`)
	assert.Contains(t, ics, "END:VEVENT\r\nEND:VCALENDAR\r\n")

	e.EndAt = &end
	assert.Contains(t, string(Calendar(e, fixedNow)), "DTEND:20250320T210000Z")

	assert.Equal(t, "Mobility-Seminar,-Casablanca.ics", CalendarFilename(e))
	assert.Equal(t, "event.ics", CalendarFilename(Event{Title: "  "}))
}

func TestRegistrationsCSV(t *testing.T) {
	api := apitest.New().On("GET", "/admin/events/e2/registrations", `{"content":[
		{"id":"r1","name":"Salma","email":"s@example.com","phone":"0600","acceptedTerms":true,"createdAt":"2025-03-01T10:00:00Z"},
		{"id":"r2","name":"Karim, Jr","email":"k@example.com","phone":"0700","acceptedTerms":true}
	]}`)
	svc, n := newTestService(api)

	out, err := svc.RegistrationsCSV(context.Background(), "e2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Name,Email,Phone,Emergency Contact,Accepted Terms,Registered At", lines[0])
	assert.Equal(t, "Salma,s@example.com,0600,,true,2025-03-01T10:00:00Z", lines[1])
	assert.Equal(t, `"Karim, Jr",k@example.com,0700,,true,`, lines[2])

	notes := n.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, "Registrations exported to CSV", notes[0].Message)
}

func TestCreate_ValidatesInput(t *testing.T) {
	api := apitest.New()
	svc, _ := newTestService(api)

	_, err := svc.Create(context.Background(), Input{Title: "Camp"})
	ve, ok := validation.AsErrors(err)
	require.True(t, ok)
	assert.Contains(t, ve, "description")
	assert.Contains(t, ve, "startAt")
	assert.Contains(t, ve, "price")
	assert.Empty(t, api.Calls())
}
