package middleware

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/easy-search/internal/utils"
)

// CurrentUser returns the payload stored by Authenticate.
func CurrentUser(c echo.Context) (utils.Payload, bool) {
    p, ok := c.Get(ContextUser).(utils.Payload)
    return p, ok && p.UserID != ""
}

// userID returns the authenticated user id, or "guest".
func userID(c echo.Context) string {
    if p, ok := CurrentUser(c); ok {
        return p.UserID
    }
    return "guest"
}
