package repository

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/iliyamo/easy-search/internal/model"
)

func newUser(id, email, contact string, role model.Role) *model.User {
    return &model.User{ID: id, Email: email, ContactNumber: contact, Role: role, Status: model.StatusActive}
}

func TestMemoryStore_CreateWithProfile(t *testing.T) {
    ctx := context.Background()
    s := NewMemoryStore()
    u := newUser("u-1", "a@x.com", "+1000", model.RoleHost)
    if err := s.CreateWithProfile(ctx, u, model.Profile{Name: "Ann"}); err != nil {
        t.Fatalf("create: %v", err)
    }
    got, err := s.FindByEmailOrContact(ctx, "", "+1000")
    if err != nil || got.ID != "u-1" {
        t.Fatalf("find by contact: %+v %v", got, err)
    }
    p, err := s.GetProfile(ctx, got)
    if err != nil {
        t.Fatalf("profile: %v", err)
    }
    if p.UserID != "u-1" || p.Name != "Ann" {
        t.Fatalf("unexpected profile %+v", p)
    }
    if table, _ := s.ProfileTable("u-1"); table != "hosts" {
        t.Fatalf("host profile stored in %q", table)
    }
    got.Role = model.RoleCustomer
    if _, err := s.GetProfile(ctx, got); !errors.Is(err, ErrNotFound) {
        t.Fatalf("customer lookup found a host profile: %v", err)
    }
}

func TestMemoryStore_UniqueIdentifiers(t *testing.T) {
    ctx := context.Background()
    s := NewMemoryStore()
    _ = s.CreateWithProfile(ctx, newUser("u-1", "a@x.com", "+1000", model.RoleCustomer), model.Profile{})

    err := s.CreateWithProfile(ctx, newUser("u-2", "a@x.com", "+2000", model.RoleCustomer), model.Profile{})
    if !errors.Is(err, ErrDuplicate) {
        t.Fatalf("expected ErrDuplicate for email, got %v", err)
    }
    err = s.CreateWithProfile(ctx, newUser("u-3", "c@x.com", "+1000", model.RoleCustomer), model.Profile{})
    if !errors.Is(err, ErrDuplicate) {
        t.Fatalf("expected ErrDuplicate for contact, got %v", err)
    }
    if s.UserCount() != 1 {
        t.Fatalf("expected 1 user, got %d", s.UserCount())
    }
}

func TestMemoryStore_ProfileFailureLeavesNoUser(t *testing.T) {
    ctx := context.Background()
    s := NewMemoryStore()
    boom := errors.New("profile insert failed")
    s.profileHook = func(model.Profile) error { return boom }

    err := s.CreateWithProfile(ctx, newUser("u-1", "a@x.com", "+1000", model.RoleHost), model.Profile{})
    if !errors.Is(err, boom) {
        t.Fatalf("expected hook error, got %v", err)
    }
    if s.UserCount() != 0 {
        t.Fatal("user persisted without its profile")
    }
    if _, err := s.GetByID(ctx, "u-1"); !errors.Is(err, ErrNotFound) {
        t.Fatalf("expected ErrNotFound, got %v", err)
    }
}

func TestMemoryStore_RefreshUpsertAndDelete(t *testing.T) {
    ctx := context.Background()
    s := NewMemoryStore()
    exp := time.Now().Add(time.Hour)
    if err := s.UpsertRefresh(ctx, model.RefreshToken{UserID: "u-1", TokenHash: "h1", ExpiresAt: exp}); err != nil {
        t.Fatalf("upsert: %v", err)
    }
    if err := s.UpsertRefresh(ctx, model.RefreshToken{UserID: "u-1", TokenHash: "h2", ExpiresAt: exp}); err != nil {
        t.Fatalf("upsert: %v", err)
    }
    got, err := s.FindRefresh(ctx, "u-1")
    if err != nil || got.TokenHash != "h2" {
        t.Fatalf("expected latest hash h2, got %+v %v", got, err)
    }
    if err := s.DeleteRefresh(ctx, "u-1"); err != nil {
        t.Fatalf("delete: %v", err)
    }
    if err := s.DeleteRefresh(ctx, "u-1"); !errors.Is(err, ErrNotFound) {
        t.Fatalf("second delete should be ErrNotFound, got %v", err)
    }
}

func TestMemoryStore_CancelledContext(t *testing.T) {
    ctx, cancel := context.WithCancel(context.Background())
    cancel()
    s := NewMemoryStore()
    if _, err := s.GetByID(ctx, "u-1"); !errors.Is(err, context.Canceled) {
        t.Fatalf("expected context.Canceled, got %v", err)
    }
}
