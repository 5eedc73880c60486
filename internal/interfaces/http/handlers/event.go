// internal/interfaces/http/handlers/event.go
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wouhouch/hub/internal/domain/event"
)

// EventHandler handles events and their registrations
type EventHandler struct {
	deps Deps
}

// NewEventHandler creates a new event handler
func NewEventHandler(deps Deps) *EventHandler {
	return &EventHandler{deps: deps}
}

func (h *EventHandler) service(c *gin.Context) *event.Service {
	b := browser(c)
	return event.NewService(b.API, b.Notes)
}

// GetEvents handles GET /api/events?status=upcoming|past
func (h *EventHandler) GetEvents(c *gin.Context) {
	events, err := h.service(c).List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve events")
		return
	}

	upcoming := make([]event.Event, 0, len(events))
	past := make([]event.Event, 0, len(events))
	for _, e := range events {
		if e.Status == event.StatusPast {
			past = append(past, e)
		} else {
			upcoming = append(upcoming, e)
		}
	}

	data := gin.H{"upcoming": upcoming, "past": past}
	switch event.Status(c.Query("status")) {
	case event.StatusUpcoming:
		data = gin.H{"upcoming": upcoming}
	case event.StatusPast:
		data = gin.H{"past": past}
	}
	respond(c, http.StatusOK, "Events retrieved successfully", data)
}

// GetEvent handles GET /api/events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	e, err := h.service(c).Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve event")
		return
	}

	respond(c, http.StatusOK, "Event retrieved successfully", gin.H{
		"event":     e,
		"isFull":    e.IsFull(),
		"spotsLeft": e.SpotsLeft(),
	})
}

// Register handles POST /api/events/:id/registrations
func (h *EventHandler) Register(c *gin.Context) {
	var form event.RegistrationForm
	if !bind(c, &form) {
		return
	}
	form.EventID = c.Param("id")

	reg, err := h.service(c).Register(c.Request.Context(), form)
	if err != nil {
		respondError(c, err, "Registration failed. Please try again.")
		return
	}
	respond(c, http.StatusCreated, "Registration successful", reg)
}

// DownloadCalendar handles GET /api/events/:id/calendar.ics
func (h *EventHandler) DownloadCalendar(c *gin.Context) {
	e, err := h.service(c).Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve event")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", event.CalendarFilename(*e)))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", event.Calendar(*e, time.Now()))
}

// AdminCreateEvent handles POST /api/admin/events
func (h *EventHandler) AdminCreateEvent(c *gin.Context) {
	var in event.Input
	if !bind(c, &in) {
		return
	}

	e, err := h.service(c).Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "Failed to create event")
		return
	}
	browser(c).Notes.Success("Event created successfully")
	respond(c, http.StatusCreated, "Event created successfully", e)
}

// AdminUpdateEvent handles PUT /api/admin/events/:id
func (h *EventHandler) AdminUpdateEvent(c *gin.Context) {
	var in event.Input
	if !bind(c, &in) {
		return
	}

	e, err := h.service(c).Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err, "Failed to update event")
		return
	}
	browser(c).Notes.Success("Event updated successfully")
	respond(c, http.StatusOK, "Event updated successfully", e)
}

// AdminDeleteEvent handles DELETE /api/admin/events/:id
func (h *EventHandler) AdminDeleteEvent(c *gin.Context) {
	if err := h.service(c).Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete event")
		return
	}
	browser(c).Notes.Success("Event deleted successfully")
	respond(c, http.StatusOK, "Event deleted successfully", nil)
}

// AdminGetRegistrations handles GET /api/admin/events/:id/registrations
func (h *EventHandler) AdminGetRegistrations(c *gin.Context) {
	regs, err := h.service(c).Registrations(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve registrations")
		return
	}
	respond(c, http.StatusOK, "Registrations retrieved successfully", gin.H{
		"registrations": regs,
		"total":         len(regs),
	})
}

// AdminExportRegistrations handles GET /api/admin/events/:id/registrations/export
func (h *EventHandler) AdminExportRegistrations(c *gin.Context) {
	id := c.Param("id")
	body, err := h.service(c).RegistrationsCSV(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to export registrations")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=registrations_%s.csv", id))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}
