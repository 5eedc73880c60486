// internal/interfaces/http/handlers/settings.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wouhouch/hub/internal/domain/settings"
)

// SettingsHandler handles the site settings
type SettingsHandler struct {
	deps  Deps
	store *settings.Store
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(deps Deps, store *settings.Store) *SettingsHandler {
	return &SettingsHandler{deps: deps, store: store}
}

// GetSettings handles GET /api/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	respond(c, http.StatusOK, "Settings retrieved successfully", h.store.Reload(c.Request.Context()))
}

// UpdateSettings handles PUT /api/admin/settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var next settings.SiteSettings
	if !bind(c, &next) {
		return
	}

	saved, err := h.store.Update(c.Request.Context(), next)
	if err != nil {
		respondError(c, err, "Failed to save settings")
		return
	}
	browser(c).Notes.Success("Settings saved successfully")
	respond(c, http.StatusOK, "Settings saved successfully", saved)
}

// ResetSettings handles DELETE /api/admin/settings
func (h *SettingsHandler) ResetSettings(c *gin.Context) {
	defaults, err := h.store.Reset(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to reset settings")
		return
	}
	browser(c).Notes.Success("Settings reset to defaults")
	respond(c, http.StatusOK, "Settings reset to defaults", defaults)
}
