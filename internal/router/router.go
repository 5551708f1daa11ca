package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/easy-search/internal/handler"
    "github.com/iliyamo/easy-search/internal/middleware"
    "github.com/iliyamo/easy-search/internal/model"
)

// APIPrefix is the global prefix for versioned endpoints.
const APIPrefix = "/api/v1"

// Deps bundles what the routes need.
type Deps struct {
    Auth      *handler.AuthHandler
    Users     *handler.UserHandler
    Guard     middleware.TokenChecker
    RateLimit echo.MiddlewareFunc
}

// RegisterRoutes registers the unauthenticated welcome and health routes.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/", handler.Root)
    e.GET("/healthz", handler.Health)
}

// RegisterAPI mounts auth and user routes under APIPrefix.  Register, login
// and refresh are open but rate limited; everything else needs an access
// token.
func RegisterAPI(e *echo.Echo, d Deps) {
    api := e.Group(APIPrefix)
    requireAuth := middleware.Authenticate(d.Guard)

    auth := api.Group("/auth")
    if d.RateLimit != nil {
        auth.Use(d.RateLimit)
    }
    auth.POST("/register", d.Auth.Register)
    auth.POST("/login", d.Auth.Login)
    auth.POST("/refresh-token", d.Auth.RefreshToken)
    auth.POST("/logout", d.Auth.Logout, requireAuth)

    users := api.Group("/users", requireAuth)
    users.GET("/me", d.Users.Me)
    admin := middleware.RequireRole(model.RoleAdmin)
    users.POST("/admin", d.Users.CreateAdmin, admin)
    users.PATCH("/:id/status", d.Users.SetStatus, admin)
}
