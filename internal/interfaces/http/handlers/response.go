// internal/interfaces/http/handlers/response.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/wouhouch/hub/internal/config"
	"github.com/wouhouch/hub/internal/domain/account"
	"github.com/wouhouch/hub/internal/domain/catalog"
	"github.com/wouhouch/hub/internal/domain/event"
	"github.com/wouhouch/hub/internal/domain/guard"
	"github.com/wouhouch/hub/internal/domain/order"
	"github.com/wouhouch/hub/internal/interfaces/http/middleware"
	"github.com/wouhouch/hub/internal/pkg/apiclient"
	"github.com/wouhouch/hub/internal/pkg/metrics"
	"github.com/wouhouch/hub/internal/pkg/notify"
	"github.com/wouhouch/hub/internal/pkg/validation"
)

// Deps are shared by every handler
type Deps struct {
	Config  *config.Config
	Logger  *logrus.Logger
	Metrics *metrics.Metrics
}

func (d Deps) orderRecorder() order.Recorder {
	if d.Metrics == nil {
		return nil
	}
	return d.Metrics
}

// respond writes the success envelope with the toasts raised while handling
func respond(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{
		"message":       message,
		"notifications": drainNotes(c),
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// respondError maps a domain or backend error to a status code
func respondError(c *gin.Context, err error, fallback string) {
	b := middleware.GetBrowser(c)

	if ve, ok := validation.AsErrors(err); ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":         "Please fix the highlighted fields",
			"fields":        ve,
			"notifications": drainNotes(c),
		})
		return
	}

	switch {
	case errors.Is(err, apiclient.ErrUnauthorized):
		// The client already cleared the token
		middleware.Redirect(c, guard.SignInPath)
		return
	case errors.Is(err, apiclient.ErrForbidden):
		abortWith(c, http.StatusForbidden, apiclient.ErrForbidden.Error())
		return
	case errors.Is(err, apiclient.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		abortWith(c, http.StatusGatewayTimeout, apiclient.ErrTimeout.Error())
		return
	case errors.Is(err, apiclient.ErrNetwork):
		abortWith(c, http.StatusBadGateway, "Unable to reach the server. Please try again.")
		return
	}

	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		status := http.StatusBadGateway
		if apiErr.StatusCode == http.StatusNotFound {
			status = http.StatusNotFound
		}
		abortWith(c, status, apiErr.Message)
		return
	}

	switch {
	case errors.Is(err, catalog.ErrProductNotFound), errors.Is(err, event.ErrEventNotFound):
		abortWith(c, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, event.ErrEventPast), errors.Is(err, event.ErrEventFull),
		errors.Is(err, order.ErrEmptyCart):
		abortWith(c, http.StatusConflict, err.Error())
		return
	case errors.Is(err, account.ErrNoToken), errors.Is(err, order.ErrNoOrderID):
		abortWith(c, http.StatusBadGateway, "Unexpected response from the server")
		return
	case errors.Is(err, account.ErrNoPrincipal):
		middleware.Redirect(c, guard.SignInPath)
		return
	}

	if b != nil {
		b.Log.WithError(err).Error(fallback)
	}
	abortWith(c, http.StatusInternalServerError, fallback)
}

func abortWith(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"error":         message,
		"notifications": drainNotes(c),
	})
}

func drainNotes(c *gin.Context) []notify.Notification {
	b := middleware.GetBrowser(c)
	if b == nil {
		return []notify.Notification{}
	}
	return b.Notes.Drain()
}

// bind decodes the JSON body into v, answering 400 on malformed input
func bind(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return false
	}
	return true
}

// browser returns the request's browser; Session always runs first
func browser(c *gin.Context) *middleware.Browser {
	return middleware.GetBrowser(c)
}
