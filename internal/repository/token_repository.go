package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/easy-search/internal/model"
)

// TokenRepo persists the single refresh token row per user.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// UpsertRefresh creates or replaces the user's refresh token row.  The
// user_id column is the primary key, so concurrent calls for the same user
// resolve as last writer wins.
func (r *TokenRepo) UpsertRefresh(ctx context.Context, t model.RefreshToken) error {
    now := time.Now().UTC()
    _, err := r.DB.ExecContext(ctx,
        `INSERT INTO refresh_tokens (user_id, token_hash, expires_at, user_agent, ip, created_at, updated_at)
         VALUES (?,?,?,?,?,?,?)
         ON DUPLICATE KEY UPDATE
            token_hash=VALUES(token_hash),
            expires_at=VALUES(expires_at),
            user_agent=VALUES(user_agent),
            ip=VALUES(ip),
            updated_at=VALUES(updated_at)`,
        t.UserID, t.TokenHash, t.ExpiresAt.UTC(), t.UserAgent, t.IP, now, now)
    return err
}

// FindRefresh returns the user's refresh token row or ErrNotFound.
func (r *TokenRepo) FindRefresh(ctx context.Context, userID string) (model.RefreshToken, error) {
    var t model.RefreshToken
    err := r.DB.QueryRowContext(ctx,
        "SELECT user_id, token_hash, expires_at, user_agent, ip, created_at, updated_at FROM refresh_tokens WHERE user_id=? LIMIT 1",
        userID).Scan(&t.UserID, &t.TokenHash, &t.ExpiresAt, &t.UserAgent, &t.IP, &t.CreatedAt, &t.UpdatedAt)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return model.RefreshToken{}, ErrNotFound
        }
        return model.RefreshToken{}, err
    }
    return t, nil
}

// DeleteRefresh removes the user's refresh token row.  Deleting a missing
// row is reported as ErrNotFound.
func (r *TokenRepo) DeleteRefresh(ctx context.Context, userID string) error {
    res, err := r.DB.ExecContext(ctx, "DELETE FROM refresh_tokens WHERE user_id=?", userID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrNotFound
    }
    return nil
}
