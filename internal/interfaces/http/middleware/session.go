// internal/interfaces/http/middleware/session.go
package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wouhouch/hub/internal/config"
	"github.com/wouhouch/hub/internal/domain/cart"
	"github.com/wouhouch/hub/internal/domain/identity"
	"github.com/wouhouch/hub/internal/infrastructure/localstore"
	"github.com/wouhouch/hub/internal/pkg/apiclient"
	"github.com/wouhouch/hub/internal/pkg/notify"
)

const browserKey = "browser"

// Browser is everything one visitor's tab would hold: its local storage and
// the stores built on top of it
type Browser struct {
	ID       string
	Storage  *localstore.Storage
	Tokens   *identity.Tokens
	API      *apiclient.Session
	Identity *identity.Store
	Cart     *cart.Store
	Notes    *notify.Collector
	Log      logrus.FieldLogger
}

// SessionDeps are the shared collaborators every browser is built from
type SessionDeps struct {
	Config   *config.Config
	Backend  localstore.Backend
	Client   *apiclient.Client
	Logger   *logrus.Logger
	Recorder cart.MutationRecorder
}

// Session identifies the browser by cookie and builds its stores for the request
func Session(deps SessionDeps) gin.HandlerFunc {
	cookie := deps.Config.Session

	return func(c *gin.Context) {
		id, err := c.Cookie(cookie.CookieName)
		if _, parseErr := uuid.Parse(id); err != nil || parseErr != nil {
			id = uuid.NewString()
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookie.CookieName, id, cookie.MaxAge, "/", "", cookie.Secure, true)

		storage, err := localstore.New(deps.Backend, id)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to open session storage",
			})
			return
		}

		ctx := c.Request.Context()
		log := deps.Logger.WithFields(logrus.Fields{
			"session_id": id,
			"request_id": c.GetString(RequestIDKey),
		})
		notes := notify.NewCollector()

		tokens := identity.NewTokens(storage, log)
		api := deps.Client.Session(tokens)
		principal := identity.NewStore(storage, tokens, api, log)
		api.OnUnauthorized(func(ctx context.Context) {
			principal.SetUser(ctx, nil)
		})
		principal.Init(ctx)

		var opts []cart.Option
		if deps.Recorder != nil {
			opts = append(opts, cart.WithRecorder(deps.Recorder))
		}

		c.Set(browserKey, &Browser{
			ID:       id,
			Storage:  storage,
			Tokens:   tokens,
			API:      api,
			Identity: principal,
			Cart:     cart.NewStore(ctx, storage, notes, log, opts...),
			Notes:    notes,
			Log:      log,
		})

		c.Next()
	}
}

// GetBrowser returns the browser built by Session
func GetBrowser(c *gin.Context) *Browser {
	b, exists := c.Get(browserKey)
	if !exists {
		return nil
	}
	return b.(*Browser)
}
