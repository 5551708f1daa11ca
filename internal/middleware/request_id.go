package middleware

import (
    "github.com/google/uuid"
    "github.com/labstack/echo/v4"
)

const requestIDHeader = echo.HeaderXRequestID

// RequestID echoes an incoming X-Request-Id or assigns a new one.
func RequestID() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            requestID := c.Request().Header.Get(requestIDHeader)
            if requestID == "" {
                requestID = uuid.NewString()
            }
            c.Set(requestIDHeader, requestID)
            c.Response().Header().Set(requestIDHeader, requestID)
            return next(c)
        }
    }
}
