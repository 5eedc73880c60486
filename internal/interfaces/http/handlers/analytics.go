// internal/interfaces/http/handlers/analytics.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wouhouch/hub/internal/domain/coaching"
	"github.com/wouhouch/hub/internal/domain/dashboard"
	"github.com/wouhouch/hub/internal/domain/event"
	"github.com/wouhouch/hub/internal/domain/order"
)

// AnalyticsHandler handles the admin dashboard
type AnalyticsHandler struct {
	deps Deps
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(deps Deps) *AnalyticsHandler {
	return &AnalyticsHandler{deps: deps}
}

// GetDashboard handles GET /api/admin/dashboard
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	b := browser(c)
	src := dashboard.Sources{
		Events:   event.NewService(b.API, nil),
		Orders:   order.NewService(b.API, nil, nil, b.Log),
		Coaching: coaching.NewService(b.API, nil),
	}

	stats, err := dashboard.Load(c.Request.Context(), src, time.Now())
	if err != nil {
		respondError(c, err, "Failed to retrieve dashboard statistics")
		return
	}

	respond(c, http.StatusOK, "Dashboard statistics retrieved successfully", gin.H{
		"newLeads":       stats.NewLeads,
		"upcomingEvents": stats.UpcomingEvents,
		"registrations":  stats.Registrations,
		"pendingOrders":  stats.PendingOrders,
		"revenueMtd":     stats.RevenueMTD.StringFixed(2),
		"recentLeads":    stats.RecentLeads,
		"recentOrders":   stats.RecentOrders,
	})
}
