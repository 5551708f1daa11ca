package service

import (
    "context"
    "testing"

    "github.com/iliyamo/easy-search/internal/model"
)

func TestCreateAdmin(t *testing.T) {
    h := newHarness(t)
    ctx := context.Background()

    u, err := h.users.CreateAdmin(ctx, AdminInput{Name: "Root", Email: "Root@x.com", ContactNumber: "+3000", Password: "password1"})
    if err != nil {
        t.Fatalf("create admin: %v", err)
    }
    if u.Role != model.RoleAdmin || u.Email != "root@x.com" {
        t.Fatalf("unexpected admin %+v", u)
    }
    p, err := h.store.GetProfile(ctx, u)
    if err != nil || p.Name != "Root" {
        t.Fatalf("expected admin profile, got %+v %v", p, err)
    }

    if _, err := h.auth.Login(ctx, LoginInput{Email: "root@x.com", Password: "password1"}); err != nil {
        t.Fatalf("admin login: %v", err)
    }

    _, err = h.users.CreateAdmin(ctx, AdminInput{Email: "root@x.com", ContactNumber: "+3001", Password: "password1"})
    requireKind(t, err, KindConflict)
}

func TestCreateAdmin_Validation(t *testing.T) {
    h := newHarness(t)
    cases := []AdminInput{
        {ContactNumber: "+1", Password: "password1"},
        {Email: "a@x.com", Password: "password1"},
        {Email: "a@x.com", ContactNumber: "+1"},
        {Email: "a@x.com", ContactNumber: "+1", Password: "short"},
        {Email: "a@x.com", ContactNumber: "+1", Password: "ääää"},
    }
    for _, in := range cases {
        _, err := h.users.CreateAdmin(context.Background(), in)
        requireKind(t, err, KindValidation)
    }
    if h.store.UserCount() != 0 {
        t.Fatal("invalid admin input created a user")
    }
}

func TestGetMe(t *testing.T) {
    h := newHarness(t)
    ctx := context.Background()
    pair, err := h.auth.Register(ctx, validRegistration())
    if err != nil {
        t.Fatalf("register: %v", err)
    }
    p, err := h.guard.Check(ctx, "Bearer "+pair.AccessToken)
    if err != nil {
        t.Fatalf("guard: %v", err)
    }

    me, err := h.users.GetMe(ctx, p.UserID)
    if err != nil {
        t.Fatalf("get me: %v", err)
    }
    if me.User.Email != "a@x.com" || me.Profile.Name != "Ann" {
        t.Fatalf("unexpected me %+v", me)
    }

    _, err = h.users.GetMe(ctx, "missing")
    requireKind(t, err, KindNotFound)
}

func TestSetStatus(t *testing.T) {
    h := newHarness(t)
    ctx := context.Background()
    if _, err := h.auth.Register(ctx, validRegistration()); err != nil {
        t.Fatalf("register: %v", err)
    }
    u, _ := h.store.FindByEmailOrContact(ctx, "a@x.com", "")

    requireKind(t, h.users.SetStatus(ctx, u.ID, "DELETED"), KindValidation)
    requireKind(t, h.users.SetStatus(ctx, "missing", model.StatusBlocked), KindNotFound)

    if err := h.users.SetStatus(ctx, u.ID, model.StatusBlocked); err != nil {
        t.Fatalf("set status: %v", err)
    }
    got, _ := h.store.GetByID(ctx, u.ID)
    if got.Status != model.StatusBlocked {
        t.Fatalf("expected BLOCKED, got %s", got.Status)
    }
}

func TestBearerToken(t *testing.T) {
    cases := map[string]string{
        "":              "",
        "Bearer":        "",
        "Bearer abc":    "abc",
        "bearer  abc ":  "abc",
        "abc":           "abc",
        "  BEARER xyz":  "xyz",
    }
    for in, want := range cases {
        if got := bearerToken(in); got != want {
            t.Errorf("bearerToken(%q) = %q, want %q", in, got, want)
        }
    }
}
