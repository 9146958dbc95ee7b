package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"campusissues/internal/adapter/api/handler"
	"campusissues/internal/adapter/api/middleware"
)

// Gates bundles the middleware routes are composed from. Every gated route
// runs Authenticate first, then the role gate, then the handler.
type Gates struct {
	Auth      *middleware.AuthMiddleware
	Role      *middleware.RoleMiddleware
	LoginRate echo.MiddlewareFunc
}

// Setup mounts the whole route table. metrics may be nil.
func Setup(e *echo.Echo, h *handler.Handlers, g Gates, metrics http.Handler) {
	SetupHealthRouter(e, h.Health, metrics)
	SetupAuthRouter(e, h.Auth, g)
	SetupUserRouter(e, h.User, g)
	SetupIssueRouter(e, h.Issue, g)
	SetupReactionRouter(e, h.Reaction, g)
}
