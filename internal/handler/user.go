package handler

import (
    "context"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/easy-search/internal/middleware"
    "github.com/iliyamo/easy-search/internal/model"
    "github.com/iliyamo/easy-search/internal/service"
)

// UserHandler serves account endpoints for authenticated users.
type UserHandler struct {
    Users *service.UserService
}

func NewUserHandler(u *service.UserService) *UserHandler {
    return &UserHandler{Users: u}
}

type createAdminReq struct {
    Name          string `json:"name"`
    Email         string `json:"email"`
    ContactNumber string `json:"contactNumber"`
    Password      string `json:"password"`
}

type statusReq struct {
    Status string `json:"status"`
}

// userResp never carries the password hash.
type userResp struct {
    ID            string       `json:"id"`
    Email         string       `json:"email"`
    ContactNumber string       `json:"contactNumber"`
    Role          model.Role   `json:"role"`
    Status        model.Status `json:"status"`
    CreatedAt     time.Time    `json:"createdAt"`
    Profile       *profileResp `json:"profile,omitempty"`
}

type profileResp struct {
    Name         string `json:"name"`
    ProfilePhoto string `json:"profilePhoto,omitempty"`
}

func toUserResp(u model.User) userResp {
    return userResp{
        ID:            u.ID,
        Email:         u.Email,
        ContactNumber: u.ContactNumber,
        Role:          u.Role,
        Status:        u.Status,
        CreatedAt:     u.CreatedAt,
    }
}

// Me returns the authenticated account with its profile.
func (h *UserHandler) Me(c echo.Context) error {
    p, found := middleware.CurrentUser(c)
    if !found {
        return service.UnauthorizedError("User not found")
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()

    me, err := h.Users.GetMe(ctx, p.UserID)
    if err != nil {
        return err
    }
    resp := toUserResp(me.User)
    if me.Profile.UserID != "" {
        resp.Profile = &profileResp{Name: me.Profile.Name, ProfilePhoto: me.Profile.ProfilePhoto}
    }
    return ok(c, "User retrieved successfully", resp)
}

// CreateAdmin creates an ADMIN account.  Requires RequireRole(ADMIN).
func (h *UserHandler) CreateAdmin(c echo.Context) error {
    var req createAdminReq
    if err := c.Bind(&req); err != nil {
        return invalidBody()
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()

    u, err := h.Users.CreateAdmin(ctx, service.AdminInput{
        Name:          req.Name,
        Email:         req.Email,
        ContactNumber: req.ContactNumber,
        Password:      req.Password,
    })
    if err != nil {
        return err
    }
    return ok(c, "Admin created successfully", toUserResp(u))
}

// SetStatus changes the status of the user in the :id path parameter.
func (h *UserHandler) SetStatus(c echo.Context) error {
    var req statusReq
    if err := c.Bind(&req); err != nil {
        return invalidBody()
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()

    status := model.Status(strings.ToUpper(strings.TrimSpace(req.Status)))
    if err := h.Users.SetStatus(ctx, c.Param("id"), status); err != nil {
        return err
    }
    return ok(c, "User status updated", echo.Map{"id": c.Param("id"), "status": status})
}
