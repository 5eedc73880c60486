// internal/interfaces/http/handlers/user_admin.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wouhouch/hub/internal/domain/user"
	"github.com/wouhouch/hub/internal/interfaces/http/middleware"
)

// UserAdminHandler handles admin user management endpoints
type UserAdminHandler struct {
	deps Deps
}

// NewUserAdminHandler creates a new user admin handler
func NewUserAdminHandler(deps Deps) *UserAdminHandler {
	return &UserAdminHandler{deps: deps}
}

// UpdateUserRoleRequest carries the new role
type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h *UserAdminHandler) service(c *gin.Context) *user.AdminService {
	return user.NewAdminService(browser(c).API, browser(c).Notes)
}

// GetUsers handles GET /api/admin/users?q=
func (h *UserAdminHandler) GetUsers(c *gin.Context) {
	users, err := h.service(c).List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve users")
		return
	}

	users = user.Filter(users, c.Query("q"))
	respond(c, http.StatusOK, "Users retrieved successfully", gin.H{
		"users": users,
		"total": len(users),
	})
}

// UpdateUserRole handles PUT /api/admin/users/:id/role. The backend replaces
// the whole record, so the current one is read first.
func (h *UserAdminHandler) UpdateUserRole(c *gin.Context) {
	var req UpdateUserRoleRequest
	if !bind(c, &req) {
		return
	}

	svc := h.service(c)
	users, err := svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve users")
		return
	}

	id := c.Param("id")
	var target *user.User
	for i := range users {
		if users[i].ID == id {
			target = &users[i]
			break
		}
	}
	if target == nil {
		abortWith(c, http.StatusNotFound, "User not found")
		return
	}

	updated, err := svc.UpdateRole(c.Request.Context(), *target, req.Role)
	if err != nil {
		respondError(c, err, "Failed to update user role")
		return
	}
	respond(c, http.StatusOK, "User role updated successfully", updated)
}

// DeleteUser handles DELETE /api/admin/users/:id
func (h *UserAdminHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if self, ok := middleware.GetPrincipalID(c); ok && self == id {
		abortWith(c, http.StatusBadRequest, "You cannot delete your own account")
		return
	}

	if err := h.service(c).Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete user")
		return
	}
	respond(c, http.StatusOK, "User deleted successfully!", nil)
}

// ExportUsers handles GET /api/admin/users/export?q=
func (h *UserAdminHandler) ExportUsers(c *gin.Context) {
	svc := h.service(c)
	users, err := svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve users")
		return
	}

	body, filename, err := svc.ExportCSV(user.Filter(users, c.Query("q")))
	if err != nil {
		respondError(c, err, "Failed to export users")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}
