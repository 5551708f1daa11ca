package service

import (
    "errors"
    "fmt"
)

// Kind classifies a service failure for the transport layer.
type Kind int

const (
    KindInternal Kind = iota
    KindValidation
    KindConflict
    KindUnauthorized
    KindNotFound
)

func (k Kind) String() string {
    switch k {
    case KindValidation:
        return "validation"
    case KindConflict:
        return "conflict"
    case KindUnauthorized:
        return "unauthorized"
    case KindNotFound:
        return "not_found"
    }
    return "internal"
}

// Error is the only error type returned across the service boundary.
// Message is safe to show to clients; Err carries the underlying cause for
// logs and is never rendered.
type Error struct {
    Kind    Kind
    Field   string
    Message string
    Err     error
}

func (e *Error) Error() string {
    if e.Err != nil {
        return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
    }
    return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// ValidationError reports a missing or malformed field.
func ValidationError(field, msg string) *Error {
    return &Error{Kind: KindValidation, Field: field, Message: msg}
}

// ConflictError reports a duplicate identity.
func ConflictError(msg string) *Error {
    return &Error{Kind: KindConflict, Message: msg}
}

// UnauthorizedError carries a deliberately generic message.
func UnauthorizedError(msg string) *Error {
    return &Error{Kind: KindUnauthorized, Message: msg}
}

// NotFoundError reports a missing resource owned by an authenticated caller.
func NotFoundError(msg string) *Error {
    return &Error{Kind: KindNotFound, Message: msg}
}

// InternalError wraps an unexpected store or crypto failure.
func InternalError(op string, err error) *Error {
    return &Error{Kind: KindInternal, Message: "Internal Server Error", Err: fmt.Errorf("%s: %w", op, err)}
}

// Internal causes behind a rejected refresh or guard check.  They are logged
// but always surface to callers as one UnauthorizedError.
var (
    ErrSessionNotFound = errors.New("refresh session not found")
    ErrSessionExpired  = errors.New("refresh session expired")
    ErrSessionMismatch = errors.New("refresh token does not match session")
    ErrUserNotFound    = errors.New("token subject not found")
    ErrUserDisabled    = errors.New("user is blocked or inactive")
)
