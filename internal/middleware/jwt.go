package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "context"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/easy-search/internal/utils"
)

// Context keys set by Authenticate.
const (
    ContextUser   = "user"
    ContextUserID = "user_id"
    ContextRole   = "role"
)

// TokenChecker authorizes an Authorization header value.  service.Guard
// implements it.
type TokenChecker interface {
    Check(ctx context.Context, authorization string) (utils.Payload, error)
}

// Authenticate rejects requests whose access token the checker refuses and
// otherwise exposes the token payload to handlers via c.Get("user"),
// c.Get("user_id") and c.Get("role").  Rejections are returned as errors so
// the HTTP error handler renders them.
func Authenticate(checker TokenChecker) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            p, err := checker.Check(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))
            if err != nil {
                return err
            }
            c.Set(ContextUser, p)
            c.Set(ContextUserID, p.UserID)
            c.Set(ContextRole, p.Role)
            return next(c)
        }
    }
}
