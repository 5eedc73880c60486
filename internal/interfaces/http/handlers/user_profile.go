// internal/interfaces/http/handlers/user_profile.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wouhouch/hub/internal/domain/account"
)

// UserProfileHandler handles the signed-in user's profile
type UserProfileHandler struct {
	deps Deps
}

// NewUserProfileHandler creates a new user profile handler
func NewUserProfileHandler(deps Deps) *UserProfileHandler {
	return &UserProfileHandler{deps: deps}
}

// GetProfile handles GET /api/profile
func (h *UserProfileHandler) GetProfile(c *gin.Context) {
	p := browser(c).Identity.Principal()
	if p == nil {
		respondError(c, account.ErrNoPrincipal, "")
		return
	}
	respond(c, http.StatusOK, "Profile retrieved successfully", p)
}

// UpdateProfile handles PUT /api/profile
func (h *UserProfileHandler) UpdateProfile(c *gin.Context) {
	var form account.ProfileForm
	if !bind(c, &form) {
		return
	}

	b := browser(c)
	svc := account.NewService(account.Deps{
		API:      b.API,
		Storage:  b.Storage,
		Tokens:   b.Tokens,
		Identity: b.Identity,
		Notifier: b.Notes,
		Logger:   b.Log,
	})

	p, err := svc.UpdateProfile(c.Request.Context(), form)
	if err != nil {
		respondError(c, err, "Failed to update profile")
		return
	}
	respond(c, http.StatusOK, "Profile updated successfully", p)
}
