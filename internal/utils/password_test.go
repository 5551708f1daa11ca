package utils

import (
    "strings"
    "testing"

    "golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_RoundTrip(t *testing.T) {
    h := NewPasswordHasher(bcrypt.MinCost)
    digest, err := h.HashPassword("password1")
    if err != nil {
        t.Fatalf("hash: %v", err)
    }
    if digest == "password1" {
        t.Fatal("digest must not equal plaintext")
    }
    if !h.VerifyPassword("password1", digest) {
        t.Fatal("expected password to verify")
    }
    if h.VerifyPassword("password2", digest) {
        t.Fatal("wrong password verified")
    }
}

func TestPasswordHasher_Salted(t *testing.T) {
    h := NewPasswordHasher(bcrypt.MinCost)
    a, _ := h.HashPassword("same-password")
    b, _ := h.HashPassword("same-password")
    if a == b {
        t.Fatal("expected distinct digests for the same input")
    }
}

func TestPasswordHasher_TokenLongerThanBcryptLimit(t *testing.T) {
    h := NewPasswordHasher(bcrypt.MinCost)
    raw := strings.Repeat("x", 300)
    digest, err := h.HashToken(raw)
    if err != nil {
        t.Fatalf("hash token: %v", err)
    }
    if !h.VerifyToken(raw, digest) {
        t.Fatal("expected token to verify")
    }
    if h.VerifyToken(raw+"y", digest) {
        t.Fatal("different token verified")
    }
}

func TestNewPasswordHasher_CostFallback(t *testing.T) {
    if got := NewPasswordHasher(99).cost; got != DefaultBcryptCost {
        t.Fatalf("expected default cost, got %d", got)
    }
}
