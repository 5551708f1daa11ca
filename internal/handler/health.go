package handler // declare the package name; contains HTTP handlers

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// Root greets clients hitting the bare server address.
func Root(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{
        "code":    http.StatusOK,
        "success": true,
        "message": "Welcome to Easy Search server",
    })
}

// Health reports liveness for load balancers.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}
