// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/wouhouch/hub/internal/domain/guard"
	"github.com/wouhouch/hub/internal/domain/settings"
	"github.com/wouhouch/hub/internal/interfaces/http/handlers"
	"github.com/wouhouch/hub/internal/interfaces/http/middleware"
	"github.com/wouhouch/hub/internal/pkg/auth"
	"github.com/wouhouch/hub/internal/pkg/pdf"
)

// Dependencies are the shared services the handlers are built from
type Dependencies struct {
	Handlers handlers.Deps
	Sealer   *auth.Sealer
	Settings *settings.Store
	PDF      *pdf.Service
}

func (d Dependencies) guard(access guard.Access) gin.HandlerFunc {
	if d.Handlers.Metrics == nil {
		return middleware.Guard(access, nil)
	}
	return middleware.Guard(access, d.Handlers.Metrics)
}

// SetupRoutes registers the page routes and the /api actions
func SetupRoutes(r gin.IRouter, d Dependencies) {
	SetupPageRoutes(r, d)

	api := r.Group("/api")
	SetupAuthRoutes(api, d)
	SetupShopRoutes(api, d)
	SetupEventRoutes(api, d)
	SetupCoachingRoutes(api, d)
	SetupAdminRoutes(api, d)
}

// SetupPageRoutes registers every page behind its guard. A page answers with
// the data it renders.
func SetupPageRoutes(r gin.IRouter, d Dependencies) {
	authHandler := handlers.NewAuthHandler(d.Handlers, d.Sealer)
	homeHandler := handlers.NewHomeHandler(d.Handlers, d.Settings)
	productHandler := handlers.NewProductHandler(d.Handlers)
	cartHandler := handlers.NewCartHandler(d.Handlers)
	checkoutHandler := handlers.NewCheckoutHandler(d.Handlers)
	eventHandler := handlers.NewEventHandler(d.Handlers)
	profileHandler := handlers.NewUserProfileHandler(d.Handlers)
	analyticsHandler := handlers.NewAnalyticsHandler(d.Handlers)
	coachingHandler := handlers.NewCoachingHandler(d.Handlers)
	userAdminHandler := handlers.NewUserAdminHandler(d.Handlers)
	settingsHandler := handlers.NewSettingsHandler(d.Handlers, d.Settings)

	pages := map[string]gin.HandlerFunc{
		"/":                authHandler.Page,
		"/sign-up":         authHandler.Page,
		"/sign-in":         authHandler.Page,
		"/verify":          authHandler.Page,
		"/forgot-password": authHandler.Page,
		"/reset-password":  authHandler.Page,

		"/home":       homeHandler.GetHome,
		"/events":     eventHandler.GetEvents,
		"/events/:id": eventHandler.GetEvent,
		"/shop":       productHandler.GetProducts,
		"/shop/:id":   productHandler.GetProduct,
		"/cart":       cartHandler.GetCart,
		"/checkout":   checkoutHandler.GetCheckout,
		"/profile":    profileHandler.GetProfile,

		"/admin":          analyticsHandler.GetDashboard,
		"/admin/coaching": coachingHandler.AdminGetLeads,
		"/admin/events":   eventHandler.GetEvents,
		"/admin/shop":     productHandler.AdminGetProducts,
		"/admin/users":    userAdminHandler.GetUsers,
		"/admin/settings": settingsHandler.GetSettings,
	}

	for _, page := range guard.Pages {
		h, ok := pages[page.Path]
		if !ok {
			h = homeHandler.Page
		}
		r.GET(page.Path, d.guard(page.Access), h)
	}
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, d Dependencies) {
	authHandler := handlers.NewAuthHandler(d.Handlers, d.Sealer)
	settingsHandler := handlers.NewSettingsHandler(d.Handlers, d.Settings)

	rg.GET("/settings", settingsHandler.GetSettings)

	authRoutes := rg.Group("/auth")
	{
		authRoutes.GET("/me", authHandler.Me)

		// Visitors only; a signed-in browser is sent home
		visitor := authRoutes.Group("")
		visitor.Use(d.guard(guard.AuthFree))
		{
			visitor.POST("/sign-in", authHandler.SignIn)
			visitor.POST("/sign-up", authHandler.SignUp)
			visitor.POST("/verify", authHandler.Verify)
			visitor.POST("/resend", authHandler.ResendCode)
			visitor.POST("/forgot-password", authHandler.ForgotPassword)
			visitor.POST("/reset-password", authHandler.ResetPassword)
		}

		protected := authRoutes.Group("")
		protected.Use(d.guard(guard.Authenticated))
		{
			protected.POST("/logout", authHandler.Logout)
		}
	}

	profileHandler := handlers.NewUserProfileHandler(d.Handlers)
	profile := rg.Group("/profile")
	profile.Use(d.guard(guard.Authenticated))
	{
		profile.GET("", profileHandler.GetProfile)
		profile.PUT("", profileHandler.UpdateProfile)
	}
}

// SetupShopRoutes sets up product, cart and checkout routes
func SetupShopRoutes(rg *gin.RouterGroup, d Dependencies) {
	productHandler := handlers.NewProductHandler(d.Handlers)
	cartHandler := handlers.NewCartHandler(d.Handlers)
	checkoutHandler := handlers.NewCheckoutHandler(d.Handlers)

	products := rg.Group("/products")
	products.Use(d.guard(guard.Authenticated))
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/:id", productHandler.GetProduct)
	}

	cart := rg.Group("/cart")
	cart.Use(d.guard(guard.Authenticated))
	{
		cart.GET("", cartHandler.GetCart)
		cart.GET("/count", cartHandler.GetCartCount)
		cart.POST("/items", cartHandler.AddToCart)
		cart.PUT("/items/:id", cartHandler.UpdateCartItem)
		cart.DELETE("/items/:id", cartHandler.RemoveFromCart)
		cart.DELETE("", cartHandler.ClearCart)
	}

	checkout := rg.Group("/checkout")
	checkout.Use(d.guard(guard.Authenticated))
	{
		checkout.GET("", checkoutHandler.GetCheckout)
		checkout.POST("", checkoutHandler.PlaceOrder)
	}
}

// SetupEventRoutes sets up event and registration routes
func SetupEventRoutes(rg *gin.RouterGroup, d Dependencies) {
	eventHandler := handlers.NewEventHandler(d.Handlers)

	events := rg.Group("/events")
	events.Use(d.guard(guard.Authenticated))
	{
		events.GET("", eventHandler.GetEvents)
		events.GET("/:id", eventHandler.GetEvent)
		events.GET("/:id/calendar.ics", eventHandler.DownloadCalendar)
		events.POST("/:id/registrations", eventHandler.Register)
	}
}

// SetupCoachingRoutes sets up the coaching and contact forms
func SetupCoachingRoutes(rg *gin.RouterGroup, d Dependencies) {
	coachingHandler := handlers.NewCoachingHandler(d.Handlers)

	forms := rg.Group("")
	forms.Use(d.guard(guard.Authenticated))
	{
		forms.POST("/coaching", coachingHandler.SubmitCoaching)
		forms.POST("/contact", coachingHandler.SubmitContact)
	}
}

// SetupAdminRoutes sets up admin routes
func SetupAdminRoutes(rg *gin.RouterGroup, d Dependencies) {
	analyticsHandler := handlers.NewAnalyticsHandler(d.Handlers)
	productHandler := handlers.NewProductHandler(d.Handlers)
	orderHandler := handlers.NewOrderHandler(d.Handlers)
	invoiceHandler := handlers.NewInvoiceHandler(d.Handlers, d.PDF)
	eventHandler := handlers.NewEventHandler(d.Handlers)
	userAdminHandler := handlers.NewUserAdminHandler(d.Handlers)
	coachingHandler := handlers.NewCoachingHandler(d.Handlers)
	settingsHandler := handlers.NewSettingsHandler(d.Handlers, d.Settings)

	admin := rg.Group("/admin")
	admin.Use(d.guard(guard.AdminOnly))
	{
		admin.GET("/dashboard", analyticsHandler.GetDashboard)

		// Product management
		admin.GET("/products", productHandler.AdminGetProducts)
		admin.POST("/products", productHandler.AdminCreateProduct)
		admin.PUT("/products/:id", productHandler.AdminUpdateProduct)
		admin.DELETE("/products/:id", productHandler.AdminDeleteProduct)

		// Order management
		admin.GET("/orders", orderHandler.AdminGetOrders)
		admin.GET("/orders/export", orderHandler.AdminExportOrders)
		admin.GET("/orders/:id", orderHandler.AdminGetOrder)
		admin.PATCH("/orders/:id/status", orderHandler.AdminUpdateOrderStatus)
		admin.GET("/orders/:id/receipt", invoiceHandler.GenerateReceipt)
		admin.GET("/orders/:id/receipt/preview", invoiceHandler.GetReceiptPreview)

		// Event management
		admin.POST("/events", eventHandler.AdminCreateEvent)
		admin.PUT("/events/:id", eventHandler.AdminUpdateEvent)
		admin.DELETE("/events/:id", eventHandler.AdminDeleteEvent)
		admin.GET("/events/:id/registrations", eventHandler.AdminGetRegistrations)
		admin.GET("/events/:id/registrations/export", eventHandler.AdminExportRegistrations)

		// User management
		admin.GET("/users", userAdminHandler.GetUsers)
		admin.GET("/users/export", userAdminHandler.ExportUsers)
		admin.PUT("/users/:id/role", userAdminHandler.UpdateUserRole)
		admin.DELETE("/users/:id", userAdminHandler.DeleteUser)

		// Coaching leads
		admin.GET("/leads", coachingHandler.AdminGetLeads)
		admin.GET("/leads/export", coachingHandler.AdminExportLeads)
		admin.PATCH("/leads/:id", coachingHandler.AdminUpdateLeadStatus)

		// Site settings
		admin.PUT("/settings", settingsHandler.UpdateSettings)
		admin.DELETE("/settings", settingsHandler.ResetSettings)
	}
}
