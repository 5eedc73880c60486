// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wouhouch/hub/internal/domain/guard"
)

// DecisionRecorder counts guard outcomes
type DecisionRecorder interface {
	RecordGuardDecision(decision string)
}

// Guard applies the route guard for access. A pending identity check is
// awaited, then the guard decides again. Admin writes need a confirmed principal.
func Guard(access guard.Access, recorder DecisionRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		decide := func(s guard.Session) guard.Decision {
			d := guard.Decide(access, s)
			if access == guard.AdminOnly && !safeMethod(c.Request.Method) {
				d = guard.Confirmed(s, d)
			}
			return d
		}

		b := GetBrowser(c)
		if b == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Session not initialised",
			})
			return
		}

		d := decide(guard.FromState(b.Identity.State()))
		if d == guard.Wait {
			state, err := b.Identity.Wait(c.Request.Context())
			if err != nil {
				c.AbortWithStatusJSON(http.StatusGatewayTimeout, gin.H{
					"error": "Timed out confirming your session",
				})
				return
			}
			d = decide(guard.FromState(state))
		}

		if recorder != nil {
			recorder.RecordGuardDecision(d.String())
		}

		if d != guard.Render {
			Redirect(c, d.Target())
			return
		}

		c.Next()
	}
}

func safeMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

// Redirect sends page loads to target with 303, and tells API callers where
// to go with a JSON body
func Redirect(c *gin.Context, target string) {
	if safeMethod(c.Request.Method) {
		c.Redirect(http.StatusSeeOther, target)
		c.Abort()
		return
	}

	status := http.StatusForbidden
	if target == guard.SignInPath {
		status = http.StatusUnauthorized
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error":    http.StatusText(status),
		"redirect": target,
	})
}

// GetPrincipalID returns the signed-in user's id
func GetPrincipalID(c *gin.Context) (string, bool) {
	b := GetBrowser(c)
	if b == nil {
		return "", false
	}
	p := b.Identity.Principal()
	if p == nil {
		return "", false
	}
	return p.ID, true
}

// IsAdminFromContext checks if the signed-in user is an admin
func IsAdminFromContext(c *gin.Context) bool {
	b := GetBrowser(c)
	return b != nil && b.Identity.IsAdmin()
}
