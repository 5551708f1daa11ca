package handler

import (
    "context"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/easy-search/internal/middleware"
    "github.com/iliyamo/easy-search/internal/service"
)

// RefreshCookie carries the refresh token for browser clients.
const RefreshCookie = "refreshToken"

const requestTimeout = 5 * time.Second

// AuthHandler exposes the auth service over HTTP.
type AuthHandler struct {
    Auth *service.AuthService
}

func NewAuthHandler(a *service.AuthService) *AuthHandler {
    return &AuthHandler{Auth: a}
}

// ----- DTOs -----

type registerReq struct {
    Name          string `json:"name"`
    Email         string `json:"email"`
    ContactNumber string `json:"contactNumber"`
    Password      string `json:"password"`
    Role          string `json:"role"` // CUSTOMER | HOST
    ProfilePhoto  string `json:"profilePhoto"`
}

type loginReq struct {
    Name          string `json:"name"`
    Email         string `json:"email"`
    ContactNumber string `json:"contactNumber"`
    Password      string `json:"password"`
    Provider      string `json:"provider"`
    ProfilePhoto  string `json:"profilePhoto"`
}

type refreshReq struct {
    RefreshToken string `json:"refreshToken"`
}

type tokenResp struct {
    AccessToken  string `json:"accessToken"`
    RefreshToken string `json:"refreshToken"`
}

func requestMeta(c echo.Context) service.RequestMeta {
    return service.RequestMeta{UserAgent: c.Request().UserAgent(), IP: c.RealIP()}
}

func setRefreshCookie(c echo.Context, raw string) {
    c.SetCookie(&http.Cookie{
        Name:     RefreshCookie,
        Value:    raw,
        Path:     "/",
        MaxAge:   int(service.RefreshSessionTTL / time.Second),
        HttpOnly: true,
        Secure:   true,
        SameSite: http.SameSiteStrictMode,
    })
}

func clearRefreshCookie(c echo.Context) {
    c.SetCookie(&http.Cookie{
        Name:     RefreshCookie,
        Value:    "",
        Path:     "/",
        MaxAge:   -1,
        HttpOnly: true,
        Secure:   true,
        SameSite: http.SameSiteStrictMode,
    })
}

func invalidBody() error {
    return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
}

// Register creates an account and returns its first token pair.
func (h *AuthHandler) Register(c echo.Context) error {
    var req registerReq
    if err := c.Bind(&req); err != nil {
        return invalidBody()
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()

    pair, err := h.Auth.Register(ctx, service.RegisterInput{
        Name:          req.Name,
        Email:         req.Email,
        ContactNumber: req.ContactNumber,
        Password:      req.Password,
        Role:          req.Role,
        ProfilePhoto:  req.ProfilePhoto,
        Meta:          requestMeta(c),
    })
    if err != nil {
        return err
    }
    setRefreshCookie(c, pair.RefreshToken)
    return ok(c, "Account created successfully", tokenResp{pair.AccessToken, pair.RefreshToken})
}

// Login handles both password and google logins.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return invalidBody()
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()

    pair, err := h.Auth.Login(ctx, service.LoginInput{
        Name:          req.Name,
        Email:         req.Email,
        ContactNumber: req.ContactNumber,
        Password:      req.Password,
        Provider:      req.Provider,
        ProfilePhoto:  req.ProfilePhoto,
        Meta:          requestMeta(c),
    })
    if err != nil {
        return err
    }
    setRefreshCookie(c, pair.RefreshToken)
    return ok(c, "Login successful", tokenResp{pair.AccessToken, pair.RefreshToken})
}

// RefreshToken rotates the session.  The token comes from the body, or
// from the refresh cookie when the body has none.
func (h *AuthHandler) RefreshToken(c echo.Context) error {
    var req refreshReq
    // an empty or non-JSON body falls back to the cookie
    _ = c.Bind(&req)
    raw := strings.TrimSpace(req.RefreshToken)
    if raw == "" {
        if ck, err := c.Cookie(RefreshCookie); err == nil {
            raw = ck.Value
        }
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()

    pair, err := h.Auth.Refresh(ctx, raw, requestMeta(c))
    if err != nil {
        return err
    }
    setRefreshCookie(c, pair.RefreshToken)
    return ok(c, "Refresh token successful", tokenResp{pair.AccessToken, pair.RefreshToken})
}

// Logout ends the caller's session.  Requires Authenticate.
func (h *AuthHandler) Logout(c echo.Context) error {
    p, found := middleware.CurrentUser(c)
    if !found {
        return service.UnauthorizedError("User not found")
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()

    if err := h.Auth.Logout(ctx, p.UserID); err != nil {
        return err
    }
    clearRefreshCookie(c)
    return ok(c, "Logout successful", echo.Map{"message": "Logged out successfully"})
}
