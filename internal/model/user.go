package model

import "time"

// Role is the immutable role assigned to a user at creation time.
type Role string

const (
    RoleCustomer Role = "CUSTOMER"
    RoleHost     Role = "HOST"
    RoleAdmin    Role = "ADMIN"
)

// Status describes whether a user may authenticate.  Only ACTIVE users pass
// the access guard.
type Status string

const (
    StatusActive   Status = "ACTIVE"
    StatusInactive Status = "INACTIVE"
    StatusBlocked  Status = "BLOCKED"
)

// User represents an identity record as stored in the `users` table.
// Email and PasswordHash are optional: accounts created through a
// federated provider have no local password, and the schema allows either
// the email or the contact number to identify a user.
//
// Fields:
//  ID            – opaque UUID string, primary key.
//  Email         – unique email address (empty when absent).
//  ContactNumber – unique contact number.
//  PasswordHash  – bcrypt digest of the password (empty for federated users).
//  Role          – CUSTOMER, HOST or ADMIN.
//  Status        – ACTIVE, INACTIVE or BLOCKED.
type User struct {
    ID            string    // users.id
    Email         string    // users.email (nullable)
    ContactNumber string    // users.contact_number
    PasswordHash  string    // users.password_hash (nullable)
    Role          Role      // users.role
    Status        Status    // users.status
    CreatedAt     time.Time // users.created_at
    UpdatedAt     time.Time // users.updated_at
}

// HasPassword reports whether the user can log in with a local password.
func (u User) HasPassword() bool { return u.PasswordHash != "" }

// Profile is the role-specific extension of a User.  Exactly one profile
// exists per user and it lives in the table matching the user's role
// (customers, hosts or admins).
type Profile struct {
    UserID        string
    Name          string
    Email         string
    ContactNumber string
    ProfilePhoto  string
    CreatedAt     time.Time
}

// RefreshToken models the single row of `refresh_tokens` owned by a user.
// Only a hash of the issued token is stored.  Issuing a new token
// overwrites the row, so at most one session is live per user.
type RefreshToken struct {
    UserID    string    // refresh_tokens.user_id (unique)
    TokenHash string    // refresh_tokens.token_hash
    ExpiresAt time.Time // refresh_tokens.expires_at
    UserAgent string    // refresh_tokens.user_agent
    IP        string    // refresh_tokens.ip
    CreatedAt time.Time
    UpdatedAt time.Time
}
