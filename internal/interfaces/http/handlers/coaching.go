// internal/interfaces/http/handlers/coaching.go
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wouhouch/hub/internal/domain/coaching"
)

// CoachingHandler handles inquiries and the admin leads board
type CoachingHandler struct {
	deps Deps
}

// NewCoachingHandler creates a new coaching handler
func NewCoachingHandler(deps Deps) *CoachingHandler {
	return &CoachingHandler{deps: deps}
}

// UpdateLeadStatusRequest carries the new lead status
type UpdateLeadStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *CoachingHandler) service(c *gin.Context) *coaching.Service {
	return coaching.NewService(browser(c).API, browser(c).Notes)
}

func (h *CoachingHandler) submit(c *gin.Context, src coaching.Source) {
	var form coaching.ContactForm
	if !bind(c, &form) {
		return
	}

	if err := h.service(c).SubmitContact(c.Request.Context(), src, form); err != nil {
		respondError(c, err, "Failed to send message. Please try again.")
		return
	}
	respond(c, http.StatusOK, "Message sent", nil)
}

// SubmitCoaching handles POST /api/coaching
func (h *CoachingHandler) SubmitCoaching(c *gin.Context) {
	h.submit(c, coaching.SourceCoaching)
}

// SubmitContact handles POST /api/contact
func (h *CoachingHandler) SubmitContact(c *gin.Context) {
	h.submit(c, coaching.SourceContact)
}

// AdminGetLeads handles GET /api/admin/leads?q=
func (h *CoachingHandler) AdminGetLeads(c *gin.Context) {
	leads, err := h.service(c).Leads(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve leads")
		return
	}

	leads = coaching.FilterLeads(leads, c.Query("q"))
	respond(c, http.StatusOK, "Leads retrieved successfully", gin.H{
		"leads": leads,
		"total": len(leads),
	})
}

// AdminUpdateLeadStatus handles PATCH /api/admin/leads/:id
func (h *CoachingHandler) AdminUpdateLeadStatus(c *gin.Context) {
	var req UpdateLeadStatusRequest
	if !bind(c, &req) {
		return
	}

	if err := h.service(c).UpdateLeadStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		respondError(c, err, "Failed to update lead")
		return
	}
	respond(c, http.StatusOK, "Lead updated successfully", nil)
}

// AdminExportLeads handles GET /api/admin/leads/export
func (h *CoachingHandler) AdminExportLeads(c *gin.Context) {
	body, err := h.service(c).LeadsCSV(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to export leads")
		return
	}

	filename := fmt.Sprintf("leads_export_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}
