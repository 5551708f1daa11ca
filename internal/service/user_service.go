package service

import (
    "context"
    "errors"
    "strings"

    "github.com/google/uuid"

    "github.com/iliyamo/easy-search/internal/model"
    "github.com/iliyamo/easy-search/internal/repository"
)

// UserDirectory extends UserStore with the profile and status operations
// needed by account management.
type UserDirectory interface {
    UserStore
    GetProfile(ctx context.Context, u model.User) (model.Profile, error)
    SetStatus(ctx context.Context, id string, status model.Status) error
}

// UserService manages accounts outside the login flow: admin creation,
// self lookup and status changes.
type UserService struct {
    users  UserDirectory
    hasher Hasher
}

func NewUserService(users UserDirectory, hasher Hasher) *UserService {
    return &UserService{users: users, hasher: hasher}
}

type AdminInput struct {
    Name          string
    Email         string
    ContactNumber string
    Password      string
}

// Me is the authenticated user's account and profile.
type Me struct {
    User    model.User
    Profile model.Profile
}

// CreateAdmin creates an ADMIN user together with its admin profile.
func (s *UserService) CreateAdmin(ctx context.Context, in AdminInput) (model.User, error) {
    in.Email = normalizeEmail(in.Email)
    in.ContactNumber = strings.TrimSpace(in.ContactNumber)
    if in.Email == "" {
        return model.User{}, ValidationError("email", "Email is required for Admin creation")
    }
    if in.ContactNumber == "" {
        return model.User{}, ValidationError("contactNumber", "Contact number is required")
    }
    if in.Password == "" {
        return model.User{}, ValidationError("password", "Password is required")
    }
    if err := validatePassword(in.Password); err != nil {
        return model.User{}, err
    }

    _, err := s.users.FindByEmailOrContact(ctx, in.Email, in.ContactNumber)
    if err == nil {
        return model.User{}, ConflictError("User with this email or phone already exists")
    }
    if !errors.Is(err, repository.ErrNotFound) {
        return model.User{}, InternalError("find user", err)
    }

    hash, err := s.hasher.HashPassword(in.Password)
    if err != nil {
        return model.User{}, InternalError("hash password", err)
    }
    u := &model.User{
        ID:            uuid.NewString(),
        Email:         in.Email,
        ContactNumber: in.ContactNumber,
        PasswordHash:  hash,
        Role:          model.RoleAdmin,
        Status:        model.StatusActive,
    }
    p := model.Profile{Name: strings.TrimSpace(in.Name), Email: in.Email, ContactNumber: in.ContactNumber}
    if err := s.users.CreateWithProfile(ctx, u, p); err != nil {
        if errors.Is(err, repository.ErrDuplicate) {
            return model.User{}, ConflictError("User with this email or phone already exists")
        }
        return model.User{}, InternalError("create admin", err)
    }
    return *u, nil
}

// GetMe returns the account and profile of userID.
func (s *UserService) GetMe(ctx context.Context, userID string) (Me, error) {
    u, err := s.users.GetByID(ctx, userID)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return Me{}, NotFoundError("User not found")
        }
        return Me{}, InternalError("get user", err)
    }
    p, err := s.users.GetProfile(ctx, u)
    if err != nil && !errors.Is(err, repository.ErrNotFound) {
        return Me{}, InternalError("get profile", err)
    }
    return Me{User: u, Profile: p}, nil
}

// SetStatus activates, deactivates or blocks a user.  Blocked and inactive
// users are rejected by the Guard on their next request.
func (s *UserService) SetStatus(ctx context.Context, userID string, status model.Status) error {
    switch status {
    case model.StatusActive, model.StatusInactive, model.StatusBlocked:
    default:
        return ValidationError("status", "Status must be ACTIVE, INACTIVE or BLOCKED")
    }
    if err := s.users.SetStatus(ctx, userID, status); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return NotFoundError("User not found")
        }
        return InternalError("set status", err)
    }
    return nil
}
