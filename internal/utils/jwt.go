package utils // package utils provides helper functions for token creation and hashing

import (
    "errors"
    "fmt"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
    "github.com/google/uuid"
)

var (
    // ErrTokenExpired is returned by Verify when the token's exp claim has
    // elapsed.  The signature was otherwise valid.
    ErrTokenExpired = errors.New("token expired")
    // ErrTokenInvalid covers malformed tokens, bad signatures, unexpected
    // signing algorithms and tokens missing the subject claim.
    ErrTokenInvalid = errors.New("token invalid")
)

// Payload is the identity carried inside every signed token.
type Payload struct {
    UserID string `json:"userId"`
    Role   string `json:"role"`
}

// Claims is the JWT claim set: the payload plus the registered claims
// (exp, iat, jti).  The jti is random so that two tokens for the same user
// signed within the same second are still distinct.
type Claims struct {
    Payload
    jwt.RegisteredClaims
}

// SignedToken is a serialized token together with its expiry.
type SignedToken struct {
    Token     string
    ExpiresAt time.Time
}

// TokenSigner signs and verifies HS256 tokens with one secret and one ttl.
// Access and refresh tokens use two separate signers.
type TokenSigner struct {
    secret []byte
    ttl    time.Duration
    now    func() time.Time
}

// SignerOption customizes a TokenSigner.
type SignerOption func(*TokenSigner)

// WithClock overrides the time source used for iat/exp and for validation.
func WithClock(now func() time.Time) SignerOption {
    return func(s *TokenSigner) { s.now = now }
}

// NewTokenSigner builds a signer.  An empty secret or non-positive ttl is a
// configuration error.
func NewTokenSigner(secret string, ttl time.Duration, opts ...SignerOption) (*TokenSigner, error) {
    if secret == "" {
        return nil, errors.New("token signer: empty secret")
    }
    if ttl <= 0 {
        return nil, fmt.Errorf("token signer: invalid ttl %s", ttl)
    }
    s := &TokenSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
    for _, opt := range opts {
        opt(s)
    }
    return s, nil
}

// TTL returns the lifetime of tokens produced by this signer.
func (s *TokenSigner) TTL() time.Duration { return s.ttl }

// Sign builds and signs a token for the given payload.
func (s *TokenSigner) Sign(p Payload) (SignedToken, error) {
    now := s.now().UTC()
    exp := now.Add(s.ttl)
    claims := Claims{
        Payload: p,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   p.UserID,
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(exp),
            ID:        uuid.NewString(),
        },
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString(s.secret)
    if err != nil {
        return SignedToken{}, fmt.Errorf("sign jwt: %w", err)
    }
    return SignedToken{Token: signed, ExpiresAt: exp}, nil
}

// Verify parses the token, checks its signature and expiry, and returns the
// payload.  The returned error is ErrTokenExpired or ErrTokenInvalid, wrapping
// the parser's error for logging.
func (s *TokenSigner) Verify(raw string) (Payload, error) {
    tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
        return s.secret, nil
    },
        jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
        jwt.WithExpirationRequired(),
        jwt.WithTimeFunc(s.now),
    )
    if err != nil {
        if errors.Is(err, jwt.ErrTokenExpired) {
            return Payload{}, fmt.Errorf("%w: %v", ErrTokenExpired, err)
        }
        return Payload{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
    }
    claims, ok := tok.Claims.(*Claims)
    if !ok || !tok.Valid || claims.UserID == "" {
        return Payload{}, ErrTokenInvalid
    }
    return claims.Payload, nil
}
