package utils

import (
    "crypto/sha256"
    "encoding/hex"
    "fmt"

    "golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost matches the cost the service has always used for both
// passwords and stored refresh tokens.
const DefaultBcryptCost = 12

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// PasswordHasher hashes passwords and refresh tokens with bcrypt.
type PasswordHasher struct {
    cost int
}

// NewPasswordHasher returns a hasher with the given bcrypt cost.  Out of
// range costs fall back to DefaultBcryptCost.
func NewPasswordHasher(cost int) *PasswordHasher {
    if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
        cost = DefaultBcryptCost
    }
    return &PasswordHasher{cost: cost}
}

// HashPassword returns bcrypt hash using the configured cost.
func (h *PasswordHasher) HashPassword(plain string) (string, error) {
    b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
    if err != nil {
        return "", fmt.Errorf("bcrypt hash: %w", err)
    }
    return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func (h *PasswordHasher) VerifyPassword(plain, hash string) bool {
    return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// HashToken hashes a raw refresh token for storage.  Signed tokens exceed
// bcrypt's 72 byte limit, so the token is reduced with SHA-256 first.
func (h *PasswordHasher) HashToken(raw string) (string, error) {
    return h.HashPassword(HashRefreshRaw(raw))
}

// VerifyToken checks a raw refresh token against a digest from HashToken.
func (h *PasswordHasher) VerifyToken(raw, hash string) bool {
    return h.VerifyPassword(HashRefreshRaw(raw), hash)
}

// HashRefreshRaw returns the SHA‑256 hash of the raw refresh token as a hex
// string.
func HashRefreshRaw(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}
