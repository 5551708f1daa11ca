package repository

import (
    "context"
    "sync"
    "time"

    "github.com/iliyamo/easy-search/internal/model"
)

// MemoryStore keeps users, profiles and refresh tokens in process memory.
// It enforces the same uniqueness and atomicity rules as the MySQL schema
// and is used for local development (STORE_DRIVER=memory) and tests.
type MemoryStore struct {
    mu       sync.RWMutex
    users    map[string]model.User
    profiles map[string]storedProfile
    tokens   map[string]model.RefreshToken

    // profileHook, when set, runs before a profile is stored; a non-nil
    // error aborts the whole creation.
    profileHook func(model.Profile) error
}

func NewMemoryStore() *MemoryStore {
    return &MemoryStore{
        users:    make(map[string]model.User),
        profiles: make(map[string]storedProfile),
        tokens:   make(map[string]model.RefreshToken),
    }
}

// storedProfile remembers which role table a profile was written to.
type storedProfile struct {
    table   string
    profile model.Profile
}

func ctxErr(ctx context.Context) error {
    select {
    case <-ctx.Done():
        return ctx.Err()
    default:
        return nil
    }
}

// CreateWithProfile stores the user and profile under one lock so no reader
// ever observes a user without its profile.
func (s *MemoryStore) CreateWithProfile(ctx context.Context, u *model.User, p model.Profile) error {
    if err := ctxErr(ctx); err != nil {
        return err
    }
    table, err := profileTable(u.Role)
    if err != nil {
        return err
    }
    s.mu.Lock()
    defer s.mu.Unlock()
    for _, existing := range s.users {
        if existing.ID == u.ID ||
            (u.Email != "" && existing.Email == u.Email) ||
            (u.ContactNumber != "" && existing.ContactNumber == u.ContactNumber) {
            return ErrDuplicate
        }
    }
    p.UserID = u.ID
    if s.profileHook != nil {
        if err := s.profileHook(p); err != nil {
            return err
        }
    }
    now := time.Now().UTC()
    u.CreatedAt, u.UpdatedAt = now, now
    p.CreatedAt = now
    s.users[u.ID] = *u
    s.profiles[u.ID] = storedProfile{table: table, profile: p}
    return nil
}

func (s *MemoryStore) FindByEmailOrContact(ctx context.Context, email, contact string) (model.User, error) {
    if err := ctxErr(ctx); err != nil {
        return model.User{}, err
    }
    if email == "" && contact == "" {
        return model.User{}, ErrNotFound
    }
    s.mu.RLock()
    defer s.mu.RUnlock()
    for _, u := range s.users {
        if (email != "" && u.Email == email) || (contact != "" && u.ContactNumber == contact) {
            return u, nil
        }
    }
    return model.User{}, ErrNotFound
}

func (s *MemoryStore) GetByID(ctx context.Context, id string) (model.User, error) {
    if err := ctxErr(ctx); err != nil {
        return model.User{}, err
    }
    s.mu.RLock()
    defer s.mu.RUnlock()
    u, ok := s.users[id]
    if !ok {
        return model.User{}, ErrNotFound
    }
    return u, nil
}

func (s *MemoryStore) GetProfile(ctx context.Context, u model.User) (model.Profile, error) {
    if err := ctxErr(ctx); err != nil {
        return model.Profile{}, err
    }
    table, err := profileTable(u.Role)
    if err != nil {
        return model.Profile{}, err
    }
    s.mu.RLock()
    defer s.mu.RUnlock()
    sp, ok := s.profiles[u.ID]
    if !ok || sp.table != table {
        return model.Profile{}, ErrNotFound
    }
    return sp.profile, nil
}

// ProfileTable returns the role table holding userID's profile.
func (s *MemoryStore) ProfileTable(userID string) (string, bool) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    sp, ok := s.profiles[userID]
    return sp.table, ok
}

// SetStatus changes a user's status.  The auth core never does this; it
// exists for administrative tooling and tests of the access guard.
func (s *MemoryStore) SetStatus(ctx context.Context, id string, status model.Status) error {
    if err := ctxErr(ctx); err != nil {
        return err
    }
    s.mu.Lock()
    defer s.mu.Unlock()
    u, ok := s.users[id]
    if !ok {
        return ErrNotFound
    }
    u.Status = status
    u.UpdatedAt = time.Now().UTC()
    s.users[id] = u
    return nil
}

// UserCount returns the number of stored users.
func (s *MemoryStore) UserCount() int {
    s.mu.RLock()
    defer s.mu.RUnlock()
    return len(s.users)
}

func (s *MemoryStore) UpsertRefresh(ctx context.Context, t model.RefreshToken) error {
    if err := ctxErr(ctx); err != nil {
        return err
    }
    s.mu.Lock()
    defer s.mu.Unlock()
    now := time.Now().UTC()
    if prev, ok := s.tokens[t.UserID]; ok {
        t.CreatedAt = prev.CreatedAt
    } else {
        t.CreatedAt = now
    }
    t.UpdatedAt = now
    s.tokens[t.UserID] = t
    return nil
}

func (s *MemoryStore) FindRefresh(ctx context.Context, userID string) (model.RefreshToken, error) {
    if err := ctxErr(ctx); err != nil {
        return model.RefreshToken{}, err
    }
    s.mu.RLock()
    defer s.mu.RUnlock()
    t, ok := s.tokens[userID]
    if !ok {
        return model.RefreshToken{}, ErrNotFound
    }
    return t, nil
}

func (s *MemoryStore) DeleteRefresh(ctx context.Context, userID string) error {
    if err := ctxErr(ctx); err != nil {
        return err
    }
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, ok := s.tokens[userID]; !ok {
        return ErrNotFound
    }
    delete(s.tokens, userID)
    return nil
}
