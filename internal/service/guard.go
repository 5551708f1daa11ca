package service

import (
    "context"
    "errors"
    "strings"

    "github.com/rs/zerolog"

    "github.com/iliyamo/easy-search/internal/model"
    "github.com/iliyamo/easy-search/internal/repository"
    "github.com/iliyamo/easy-search/internal/utils"
)

// Guard authorizes requests carrying an access token.  It only trusts
// tokens produced by the same access signer the AuthService uses.
type Guard struct {
    access Signer
    users  UserStore
    log    zerolog.Logger
}

func NewGuard(access Signer, users UserStore, log zerolog.Logger) *Guard {
    return &Guard{access: access, users: users, log: log}
}

// Check verifies the Authorization header value and the current status of
// the referenced user.  A missing header yields "No token provided"; every
// other failure yields the same "Unauthorized" error.
func (g *Guard) Check(ctx context.Context, authorization string) (utils.Payload, error) {
    raw := bearerToken(authorization)
    if raw == "" {
        return utils.Payload{}, UnauthorizedError("No token provided")
    }
    p, err := g.verify(ctx, raw)
    if err != nil {
        g.log.Debug().Err(err).Msg("guard rejected request")
        return utils.Payload{}, UnauthorizedError("Unauthorized")
    }
    return p, nil
}

func (g *Guard) verify(ctx context.Context, raw string) (utils.Payload, error) {
    p, err := g.access.Verify(raw)
    if err != nil {
        return utils.Payload{}, err
    }
    u, err := g.users.GetByID(ctx, p.UserID)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return utils.Payload{}, ErrUserNotFound
        }
        return utils.Payload{}, err
    }
    if u.Status == model.StatusBlocked || u.Status == model.StatusInactive {
        return utils.Payload{}, ErrUserDisabled
    }
    return p, nil
}

// bearerToken accepts "Bearer <token>" and, like earlier clients sent it,
// a bare token.
func bearerToken(header string) string {
    h := strings.TrimSpace(header)
    if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
        return strings.TrimSpace(h[7:])
    }
    if strings.EqualFold(h, "bearer") {
        return ""
    }
    return h
}
