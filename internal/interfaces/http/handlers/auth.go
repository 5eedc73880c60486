// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wouhouch/hub/internal/domain/account"
	"github.com/wouhouch/hub/internal/pkg/auth"
)

// AuthHandler handles sign-in, sign-up and password recovery
type AuthHandler struct {
	deps   Deps
	sealer *auth.Sealer
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(deps Deps, sealer *auth.Sealer) *AuthHandler {
	return &AuthHandler{deps: deps, sealer: sealer}
}

func (h *AuthHandler) service(c *gin.Context) *account.Service {
	b := browser(c)
	return account.NewService(account.Deps{
		API:         b.API,
		Storage:     b.Storage,
		Tokens:      b.Tokens,
		Identity:    b.Identity,
		Sealer:      h.sealer,
		Notifier:    b.Notes,
		Logger:      b.Log,
		VerifyDelay: h.deps.Config.Site.VerifyRedirectDelay,
	})
}

func redirectBody(r account.Redirect) gin.H {
	return gin.H{
		"redirect":        r.To,
		"redirectAfterMs": r.After.Milliseconds(),
	}
}

// SignIn handles POST /api/auth/sign-in
func (h *AuthHandler) SignIn(c *gin.Context) {
	var form account.SignInForm
	if !bind(c, &form) {
		return
	}

	principal, redirect, err := h.service(c).SignIn(c.Request.Context(), form)
	if err != nil {
		respondError(c, err, "Sign in failed")
		return
	}

	body := redirectBody(redirect)
	body["user"] = principal
	respond(c, http.StatusOK, "Signed in", body)
}

// SignUp handles POST /api/auth/sign-up
func (h *AuthHandler) SignUp(c *gin.Context) {
	var form account.SignUpForm
	if !bind(c, &form) {
		return
	}

	redirect, err := h.service(c).SignUp(c.Request.Context(), form)
	if err != nil {
		respondError(c, err, "Sign up failed")
		return
	}

	respond(c, http.StatusCreated, "Account created", redirectBody(redirect))
}

// Verify handles POST /api/auth/verify
func (h *AuthHandler) Verify(c *gin.Context) {
	var req struct {
		Code string `json:"code"`
	}
	if !bind(c, &req) {
		return
	}

	redirect, err := h.service(c).Verify(c.Request.Context(), req.Code)
	if err != nil {
		respondError(c, err, "Verification failed")
		return
	}

	respond(c, http.StatusOK, "Email verified", redirectBody(redirect))
}

// ResendCode handles POST /api/auth/resend
func (h *AuthHandler) ResendCode(c *gin.Context) {
	if err := h.service(c).ResendCode(c.Request.Context()); err != nil {
		respondError(c, err, "Failed to resend code")
		return
	}
	respond(c, http.StatusOK, "Code resent", nil)
}

// ForgotPassword handles POST /api/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if !bind(c, &req) {
		return
	}

	if err := h.service(c).ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, err, "Failed to send reset link")
		return
	}
	respond(c, http.StatusOK, "Reset link sent", nil)
}

// ResetPassword handles POST /api/auth/reset-password. The code comes from the
// reset link, either in the body or as ?code=
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var form account.ResetForm
	if !bind(c, &form) {
		return
	}
	if form.Code == "" {
		form.Code = c.Query("code")
	}

	redirect, err := h.service(c).ResetPassword(c.Request.Context(), form)
	if err != nil {
		respondError(c, err, "Password reset failed")
		return
	}
	respond(c, http.StatusOK, "Password reset", redirectBody(redirect))
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	redirect := h.service(c).Logout(c.Request.Context())
	respond(c, http.StatusOK, "Logged out", redirectBody(redirect))
}

// Me handles GET /api/auth/me, the resolved identity of this browser
func (h *AuthHandler) Me(c *gin.Context) {
	b := browser(c)
	state, err := b.Identity.Wait(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load session")
		return
	}

	respond(c, http.StatusOK, "Session retrieved successfully", gin.H{
		"phase":         state.Phase.String(),
		"authenticated": state.Authenticated(),
		"user":          state.Principal,
	})
}

// Page handles GET on the auth-free pages
func (h *AuthHandler) Page(c *gin.Context) {
	respond(c, http.StatusOK, "Page loaded", gin.H{
		"page": c.FullPath(),
		"code": c.Query("code"),
	})
}
