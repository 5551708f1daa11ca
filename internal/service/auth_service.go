package service

import (
    "context"
    "errors"
    "net/mail"
    "strings"
    "time"
    "unicode/utf8"

    "github.com/google/uuid"
    "github.com/rs/zerolog"
    "golang.org/x/sync/errgroup"

    "github.com/iliyamo/easy-search/internal/model"
    "github.com/iliyamo/easy-search/internal/queue"
    "github.com/iliyamo/easy-search/internal/repository"
    "github.com/iliyamo/easy-search/internal/utils"
)

// RefreshSessionTTL is the lifetime of a stored refresh session.  It is fixed
// and independent of the refresh token's signed ttl; configuration should
// keep the two equal.
const RefreshSessionTTL = 7 * 24 * time.Hour

// MinPasswordLength is the shortest password accepted at registration,
// counted in characters.
const MinPasswordLength = 8

// ProviderGoogle selects the federated login branch.
const ProviderGoogle = "google"

const unknownProvenance = "unknown"

// UserStore is the part of the credential store the auth core needs.
type UserStore interface {
    FindByEmailOrContact(ctx context.Context, email, contact string) (model.User, error)
    CreateWithProfile(ctx context.Context, u *model.User, p model.Profile) error
    GetByID(ctx context.Context, id string) (model.User, error)
}

// TokenStore persists the single refresh session of each user.
type TokenStore interface {
    UpsertRefresh(ctx context.Context, t model.RefreshToken) error
    FindRefresh(ctx context.Context, userID string) (model.RefreshToken, error)
    DeleteRefresh(ctx context.Context, userID string) error
}

// Signer signs and verifies tokens for one secret/ttl pair.
type Signer interface {
    Sign(p utils.Payload) (utils.SignedToken, error)
    Verify(raw string) (utils.Payload, error)
}

// Hasher hashes passwords and refresh tokens.
type Hasher interface {
    HashPassword(plain string) (string, error)
    VerifyPassword(plain, hash string) bool
    HashToken(raw string) (string, error)
    VerifyToken(raw, hash string) bool
}

// EventPublisher receives auth events after successful operations.
type EventPublisher interface {
    Publish(ctx context.Context, ev queue.AuthEvent) error
}

// RequestMeta is best-effort provenance stored with a refresh session.
type RequestMeta struct {
    UserAgent string
    IP        string
}

type RegisterInput struct {
    Name          string
    Email         string
    ContactNumber string
    Password      string
    Role          string
    ProfilePhoto  string
    Meta          RequestMeta
}

type LoginInput struct {
    Name          string
    Email         string
    ContactNumber string
    Password      string
    Provider      string
    ProfilePhoto  string
    Meta          RequestMeta
}

// TokenPair is returned to the caller in plaintext.  Only a hash of the
// refresh token is kept server side.
type TokenPair struct {
    AccessToken      string
    RefreshToken     string
    AccessExpiresAt  time.Time
    RefreshExpiresAt time.Time
}

// AuthService implements registration, login, refresh rotation and logout.
// It holds no state between calls besides its collaborators.
type AuthService struct {
    users   UserStore
    tokens  TokenStore
    access  Signer
    refresh Signer
    hasher  Hasher
    events  EventPublisher
    log     zerolog.Logger
    now     func() time.Time
}

// Option customizes an AuthService.
type Option func(*AuthService)

// WithEvents publishes auth events through p.
func WithEvents(p EventPublisher) Option {
    return func(s *AuthService) { s.events = p }
}

// WithClock overrides the clock used for session expiry.
func WithClock(now func() time.Time) Option {
    return func(s *AuthService) { s.now = now }
}

func NewAuthService(
    users UserStore,
    tokens TokenStore,
    access Signer,
    refresh Signer,
    hasher Hasher,
    log zerolog.Logger,
    opts ...Option,
) *AuthService {
    s := &AuthService{
        users:   users,
        tokens:  tokens,
        access:  access,
        refresh: refresh,
        hasher:  hasher,
        events:  queue.NopPublisher{},
        log:     log,
        now:     time.Now,
    }
    for _, opt := range opts {
        opt(s)
    }
    return s
}

// Register creates a local account with a role profile and returns its
// first token pair.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (TokenPair, error) {
    in.Email = normalizeEmail(in.Email)
    in.ContactNumber = strings.TrimSpace(in.ContactNumber)

    if in.Email == "" {
        return TokenPair{}, ValidationError("email", "Email is required")
    }
    if _, err := mail.ParseAddress(in.Email); err != nil {
        return TokenPair{}, ValidationError("email", "Must be a valid email")
    }
    if in.ContactNumber == "" {
        return TokenPair{}, ValidationError("contactNumber", "Contact number is required")
    }
    if in.Password == "" {
        return TokenPair{}, ValidationError("password", "Password is required")
    }
    if err := validatePassword(in.Password); err != nil {
        return TokenPair{}, err
    }

    if err := s.ensureAbsent(ctx, in.Email, in.ContactNumber); err != nil {
        return TokenPair{}, err
    }

    hash, err := s.hasher.HashPassword(in.Password)
    if err != nil {
        return TokenPair{}, InternalError("hash password", err)
    }
    role := model.RoleCustomer
    if in.Role == string(model.RoleHost) {
        role = model.RoleHost
    }

    u := &model.User{
        ID:            uuid.NewString(),
        Email:         in.Email,
        ContactNumber: in.ContactNumber,
        PasswordHash:  hash,
        Role:          role,
        Status:        model.StatusActive,
    }
    profile := model.Profile{
        Name:          strings.TrimSpace(in.Name),
        Email:         in.Email,
        ContactNumber: in.ContactNumber,
        ProfilePhoto:  in.ProfilePhoto,
    }
    if err := s.create(ctx, u, profile); err != nil {
        return TokenPair{}, err
    }

    pair, err := s.issueTokens(ctx, u.ID, u.Role, in.Meta)
    if err != nil {
        return TokenPair{}, err
    }
    s.emit(ctx, queue.AuthEvent{Type: queue.EventUserRegistered, UserID: u.ID, Role: string(u.Role), IP: in.Meta.IP})
    return pair, nil
}

// Login authenticates with a password, or trusts a federated assertion
// when Provider is "google" and signs the user up on first sight.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (TokenPair, error) {
    in.Email = normalizeEmail(in.Email)
    in.ContactNumber = strings.TrimSpace(in.ContactNumber)

    existing, err := s.users.FindByEmailOrContact(ctx, in.Email, in.ContactNumber)
    found := err == nil
    if err != nil && !errors.Is(err, repository.ErrNotFound) {
        return TokenPair{}, InternalError("find user", err)
    }

    var pair TokenPair
    if in.Provider == ProviderGoogle {
        if !found {
            return s.federatedSignup(ctx, in)
        }
        pair, err = s.issueTokens(ctx, existing.ID, existing.Role, in.Meta)
    } else {
        if !found {
            return TokenPair{}, UnauthorizedError("Invalid credentials")
        }
        // A federated-only account has no password; that is reported the
        // same way as a request without one.
        if in.Password == "" || !existing.HasPassword() {
            return TokenPair{}, ValidationError("password", "Password is required")
        }
        if !s.hasher.VerifyPassword(in.Password, existing.PasswordHash) {
            return TokenPair{}, UnauthorizedError("Invalid credentials")
        }
        pair, err = s.issueTokens(ctx, existing.ID, existing.Role, in.Meta)
    }
    if err != nil {
        return TokenPair{}, err
    }
    s.emit(ctx, queue.AuthEvent{
        Type:     queue.EventUserLoggedIn,
        UserID:   existing.ID,
        Role:     string(existing.Role),
        Provider: in.Provider,
        IP:       in.Meta.IP,
    })
    return pair, nil
}

func (s *AuthService) federatedSignup(ctx context.Context, in LoginInput) (TokenPair, error) {
    if in.Email == "" || in.ContactNumber == "" {
        return TokenPair{}, ValidationError("email", "Email and contact number are required for Google sign-up")
    }
    u := &model.User{
        ID:            uuid.NewString(),
        Email:         in.Email,
        ContactNumber: in.ContactNumber,
        Role:          model.RoleCustomer,
        Status:        model.StatusActive,
    }
    profile := model.Profile{
        Name:          strings.TrimSpace(in.Name),
        Email:         in.Email,
        ContactNumber: in.ContactNumber,
        ProfilePhoto:  in.ProfilePhoto,
    }
    if err := s.create(ctx, u, profile); err != nil {
        return TokenPair{}, err
    }
    pair, err := s.issueTokens(ctx, u.ID, u.Role, in.Meta)
    if err != nil {
        return TokenPair{}, err
    }
    s.emit(ctx, queue.AuthEvent{
        Type:     queue.EventUserRegistered,
        UserID:   u.ID,
        Role:     string(u.Role),
        Provider: ProviderGoogle,
        IP:       in.Meta.IP,
    })
    return pair, nil
}

// Refresh exchanges a refresh token for a new pair and supersedes the
// stored session.  Every failure is reported as the same UnauthorizedError.
func (s *AuthService) Refresh(ctx context.Context, raw string, meta RequestMeta) (TokenPair, error) {
    pair, err := s.rotate(ctx, strings.TrimSpace(raw), meta)
    if err != nil {
        s.log.Debug().Err(err).Msg("refresh rejected")
        return TokenPair{}, UnauthorizedError("Invalid refresh token")
    }
    return pair, nil
}

func (s *AuthService) rotate(ctx context.Context, raw string, meta RequestMeta) (TokenPair, error) {
    if raw == "" {
        return TokenPair{}, utils.ErrTokenInvalid
    }
    p, err := s.refresh.Verify(raw)
    if err != nil {
        return TokenPair{}, err
    }
    rec, err := s.tokens.FindRefresh(ctx, p.UserID)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return TokenPair{}, ErrSessionNotFound
        }
        return TokenPair{}, err
    }
    if !s.hasher.VerifyToken(raw, rec.TokenHash) {
        return TokenPair{}, ErrSessionMismatch
    }
    if !s.now().Before(rec.ExpiresAt) {
        return TokenPair{}, ErrSessionExpired
    }
    return s.issueTokens(ctx, p.UserID, model.Role(p.Role), meta)
}

// Logout deletes the user's refresh session.  A user without a session gets
// a NotFoundError; logout is not idempotent.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
    if userID == "" {
        return UnauthorizedError("User not found")
    }
    if err := s.tokens.DeleteRefresh(ctx, userID); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return NotFoundError("No active session")
        }
        return InternalError("delete refresh token", err)
    }
    s.emit(ctx, queue.AuthEvent{Type: queue.EventUserLoggedOut, UserID: userID})
    return nil
}

// issueTokens signs both tokens concurrently, stores the refresh token hash
// (overwriting any previous session) and returns the pair.
func (s *AuthService) issueTokens(ctx context.Context, userID string, role model.Role, meta RequestMeta) (TokenPair, error) {
    payload := utils.Payload{UserID: userID, Role: string(role)}

    var access, refresh utils.SignedToken
    g := new(errgroup.Group)
    g.Go(func() (err error) {
        access, err = s.access.Sign(payload)
        return err
    })
    g.Go(func() (err error) {
        refresh, err = s.refresh.Sign(payload)
        return err
    })
    if err := g.Wait(); err != nil {
        return TokenPair{}, InternalError("sign tokens", err)
    }

    hash, err := s.hasher.HashToken(refresh.Token)
    if err != nil {
        return TokenPair{}, InternalError("hash refresh token", err)
    }
    rec := model.RefreshToken{
        UserID:    userID,
        TokenHash: hash,
        ExpiresAt: s.now().UTC().Add(RefreshSessionTTL),
        UserAgent: orUnknown(meta.UserAgent),
        IP:        orUnknown(meta.IP),
    }
    if err := s.tokens.UpsertRefresh(ctx, rec); err != nil {
        return TokenPair{}, InternalError("save refresh token", err)
    }

    return TokenPair{
        AccessToken:      access.Token,
        RefreshToken:     refresh.Token,
        AccessExpiresAt:  access.ExpiresAt,
        RefreshExpiresAt: refresh.ExpiresAt,
    }, nil
}

// ensureAbsent fails with ConflictError when a user already owns the email
// or contact number.
func (s *AuthService) ensureAbsent(ctx context.Context, email, contact string) error {
    _, err := s.users.FindByEmailOrContact(ctx, email, contact)
    switch {
    case err == nil:
        return ConflictError("User with this email or phone already exists")
    case errors.Is(err, repository.ErrNotFound):
        return nil
    default:
        return InternalError("find user", err)
    }
}

// create runs the transactional user+profile insert.  A unique key
// violation from a concurrent registration is reported as a conflict.
func (s *AuthService) create(ctx context.Context, u *model.User, p model.Profile) error {
    if err := s.users.CreateWithProfile(ctx, u, p); err != nil {
        if errors.Is(err, repository.ErrDuplicate) {
            return ConflictError("User with this email or phone already exists")
        }
        return InternalError("create user", err)
    }
    return nil
}

func (s *AuthService) emit(ctx context.Context, ev queue.AuthEvent) {
    ev.OccurredAt = s.now().UTC()
    if err := s.events.Publish(ctx, ev); err != nil {
        s.log.Warn().Err(err).Str("event", ev.Type).Str("user_id", ev.UserID).Msg("publish auth event failed")
    }
}

func validatePassword(p string) error {
    if utf8.RuneCountInString(p) < MinPasswordLength {
        return ValidationError("password", "Password must be at least 8 characters")
    }
    if len(p) > utils.MaxPasswordBytes {
        return ValidationError("password", "Password must be at most 72 bytes")
    }
    return nil
}

func normalizeEmail(email string) string {
    return strings.ToLower(strings.TrimSpace(email))
}

func orUnknown(s string) string {
    if s = strings.TrimSpace(s); s == "" {
        return unknownProvenance
    }
    return s
}
