// internal/interfaces/http/handlers/home.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/wouhouch/hub/internal/domain/catalog"
	"github.com/wouhouch/hub/internal/domain/event"
	"github.com/wouhouch/hub/internal/domain/settings"
	"github.com/wouhouch/hub/internal/interfaces/http/middleware"
	"github.com/wouhouch/hub/internal/pkg/apiclient"
)

// featuredLimit caps the products shown on the home page
const featuredLimit = 4

// HomeHandler serves the page routes
type HomeHandler struct {
	deps     Deps
	settings *settings.Store
}

// NewHomeHandler creates a new home handler
func NewHomeHandler(deps Deps, store *settings.Store) *HomeHandler {
	return &HomeHandler{deps: deps, settings: store}
}

// GetHome handles GET /home: upcoming events, featured products and branding.
// A failing section is left empty rather than failing the page.
func (h *HomeHandler) GetHome(c *gin.Context) {
	b := browser(c)
	ctx := c.Request.Context()

	var (
		events                 []event.Event
		products               []catalog.Product
		eventsErr, productsErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		events, eventsErr = event.NewService(b.API, nil).Upcoming(ctx, event.HomeLimit)
		return nil
	})
	g.Go(func() error {
		products, productsErr = catalog.NewService(b.API).List(ctx, "")
		return nil
	})
	g.Wait()

	if err := apiclient.Decisive(eventsErr, productsErr); err != nil {
		// 401 still has to reach the sign-in redirect
		if apiclient.StatusCode(err) == http.StatusUnauthorized {
			respondError(c, err, "")
			return
		}
		b.Log.WithError(err).Warn("Home page section failed to load")
	}
	if len(products) > featuredLimit {
		products = products[:featuredLimit]
	}

	respond(c, http.StatusOK, "Home retrieved successfully", gin.H{
		"settings":       h.settings.Reload(ctx),
		"upcomingEvents": nonNil(events),
		"products":       nonNil(products),
		"user":           b.Identity.Principal(),
		"cartCount":      b.Cart.ItemCount(),
	})
}

// Page handles GET on pages without data of their own
func (h *HomeHandler) Page(c *gin.Context) {
	b := browser(c)
	respond(c, http.StatusOK, "Page loaded", gin.H{
		"page":      c.FullPath(),
		"user":      b.Identity.Principal(),
		"isAdmin":   middleware.IsAdminFromContext(c),
		"cartCount": b.Cart.ItemCount(),
		"settings":  h.settings.Get(),
	})
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
