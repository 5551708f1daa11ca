package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"
    "strings"
    "time"

    "github.com/iliyamo/easy-search/internal/model"
)

// UserRepo reads and writes users and their role profiles in MySQL.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,contact_number,password_hash,role,status,created_at,updated_at"

// profileTable maps a role to the table holding its profile.
func profileTable(role model.Role) (string, error) {
    switch role {
    case model.RoleCustomer:
        return "customers", nil
    case model.RoleHost:
        return "hosts", nil
    case model.RoleAdmin:
        return "admins", nil
    }
    return "", fmt.Errorf("unknown role %q", role)
}

// CreateWithProfile inserts the user and its role profile in one
// transaction.  Either both rows exist afterwards or neither does.
func (r *UserRepo) CreateWithProfile(ctx context.Context, u *model.User, p model.Profile) error {
    table, err := profileTable(u.Role)
    if err != nil {
        return err
    }
    now := time.Now().UTC()
    u.CreatedAt, u.UpdatedAt = now, now
    p.UserID = u.ID

    return withTx(ctx, r.DB, func(tx *sql.Tx) error {
        _, err := tx.ExecContext(ctx,
            "INSERT INTO users ("+userColumns+") VALUES (?,?,?,?,?,?,?,?)",
            u.ID, nullable(u.Email), u.ContactNumber, nullable(u.PasswordHash),
            string(u.Role), string(u.Status), u.CreatedAt, u.UpdatedAt)
        if err != nil {
            if isDuplicate(err) {
                return ErrDuplicate
            }
            return fmt.Errorf("insert user: %w", err)
        }
        _, err = tx.ExecContext(ctx,
            "INSERT INTO "+table+" (user_id,name,email,contact_number,profile_photo,created_at) VALUES (?,?,?,?,?,?)",
            p.UserID, p.Name, nullable(p.Email), p.ContactNumber, nullable(p.ProfilePhoto), now)
        if err != nil {
            if isDuplicate(err) {
                return ErrDuplicate
            }
            return fmt.Errorf("insert %s profile: %w", table, err)
        }
        return nil
    })
}

// FindByEmailOrContact returns the first user matching either identifier.
// Empty identifiers are ignored; with both empty it returns ErrNotFound.
func (r *UserRepo) FindByEmailOrContact(ctx context.Context, email, contact string) (model.User, error) {
    var (
        conds []string
        args  []any
    )
    if email = strings.TrimSpace(email); email != "" {
        conds = append(conds, "email=?")
        args = append(args, email)
    }
    if contact = strings.TrimSpace(contact); contact != "" {
        conds = append(conds, "contact_number=?")
        args = append(args, contact)
    }
    if len(conds) == 0 {
        return model.User{}, ErrNotFound
    }
    row := r.DB.QueryRowContext(ctx,
        "SELECT "+userColumns+" FROM users WHERE "+strings.Join(conds, " OR ")+" LIMIT 1", args...)
    return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
    row := r.DB.QueryRowContext(ctx,
        "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
    return scanUser(row)
}

func scanUser(row *sql.Row) (model.User, error) {
    var (
        u            model.User
        email, pwd   sql.NullString
        role, status string
    )
    err := row.Scan(&u.ID, &email, &u.ContactNumber, &pwd, &role, &status, &u.CreatedAt, &u.UpdatedAt)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return model.User{}, ErrNotFound
        }
        return model.User{}, err
    }
    u.Email = email.String
    u.PasswordHash = pwd.String
    u.Role = model.Role(role)
    u.Status = model.Status(status)
    return u, nil
}

func nullable(s string) sql.NullString {
    return sql.NullString{String: s, Valid: s != ""}
}

// withTx runs fn inside a transaction, rolling back on error or panic.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
    tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
    if err != nil {
        return fmt.Errorf("begin tx: %w", err)
    }
    defer func() {
        if p := recover(); p != nil {
            _ = tx.Rollback()
            panic(p)
        } else if err != nil {
            _ = tx.Rollback()
        }
    }()
    if err = fn(tx); err != nil {
        return err
    }
    return tx.Commit()
}

// GetProfile loads the profile row belonging to u from its role's table.
func (r *UserRepo) GetProfile(ctx context.Context, u model.User) (model.Profile, error) {
    table, err := profileTable(u.Role)
    if err != nil {
        return model.Profile{}, err
    }
    var (
        p            model.Profile
        email, photo sql.NullString
    )
    err = r.DB.QueryRowContext(ctx,
        "SELECT user_id,name,email,contact_number,profile_photo,created_at FROM "+table+" WHERE user_id=? LIMIT 1",
        u.ID).Scan(&p.UserID, &p.Name, &email, &p.ContactNumber, &photo, &p.CreatedAt)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return model.Profile{}, ErrNotFound
        }
        return model.Profile{}, err
    }
    p.Email = email.String
    p.ProfilePhoto = photo.String
    return p, nil
}

// SetStatus updates the account status of a user.
func (r *UserRepo) SetStatus(ctx context.Context, id string, status model.Status) error {
    res, err := r.DB.ExecContext(ctx,
        "UPDATE users SET status=?, updated_at=? WHERE id=?", string(status), time.Now().UTC(), id)
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
