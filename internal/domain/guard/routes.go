// internal/domain/guard/routes.go
package guard

// Access is the guard a page route sits behind
type Access int

const (
	// AuthFree pages are for visitors; signed-in users are sent home
	AuthFree Access = iota
	// Authenticated pages need a session
	Authenticated
	// AdminOnly pages need the ADMIN role
	AdminOnly
)

// Route is one page of the storefront
type Route struct {
	Path   string
	Access Access
}

// Pages lists every page route and its guard
var Pages = []Route{
	{Path: "/", Access: AuthFree},
	{Path: "/sign-up", Access: AuthFree},
	{Path: "/sign-in", Access: AuthFree},
	{Path: "/verify", Access: AuthFree},
	{Path: "/forgot-password", Access: AuthFree},
	{Path: "/reset-password", Access: AuthFree},

	{Path: "/home", Access: Authenticated},
	{Path: "/coaching", Access: Authenticated},
	{Path: "/events", Access: Authenticated},
	{Path: "/events/:id", Access: Authenticated},
	{Path: "/shop", Access: Authenticated},
	{Path: "/shop/:id", Access: Authenticated},
	{Path: "/cart", Access: Authenticated},
	{Path: "/checkout", Access: Authenticated},
	{Path: "/about", Access: Authenticated},
	{Path: "/contact", Access: Authenticated},
	{Path: "/profile", Access: Authenticated},

	{Path: "/admin", Access: AdminOnly},
	{Path: "/admin/coaching", Access: AdminOnly},
	{Path: "/admin/events", Access: AdminOnly},
	{Path: "/admin/shop", Access: AdminOnly},
	{Path: "/admin/users", Access: AdminOnly},
	{Path: "/admin/settings", Access: AdminOnly},
}

// Decide applies the guard for access
func Decide(access Access, s Session) Decision {
	switch access {
	case AuthFree:
		return Protected(s, RouteOptions{AuthRequired: false})
	case AdminOnly:
		return Admin(s)
	default:
		return Protected(s, RouteOptions{AuthRequired: true})
	}
}
