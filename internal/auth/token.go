package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/zeebo/blake3"
)

// keyDerivationContext binds derived signing keys to this purpose so the
// same configured secret cannot produce keys valid elsewhere.
const keyDerivationContext = "project-tracker 2026-01 access token signing key"

// ErrInvalidToken covers every verification failure: bad signature,
// unexpected algorithm, malformed token, missing subject, user id or expiry.
var ErrInvalidToken = errors.New("invalid or expired token")

// IssuedToken is a signed access token together with its expiry.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// Claims is the verified content of an access token.
type Claims struct {
	Subject   string
	UserID    uint64
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// accessClaims binds the token to one user row as well as a username.
type accessClaims struct {
	UserID uint64 `json:"uid,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens. The signing key
// is fixed at construction and never mutated, so a TokenService is safe
// for concurrent use.
type TokenService struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// TokenOption customizes a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces time.Now for issuing and verifying tokens.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

// NewTokenService derives the HMAC key from secret and returns a service
// whose tokens live for defaultTTL unless Issue is given another ttl.
func NewTokenService(secret string, defaultTTL time.Duration, opts ...TokenOption) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	if defaultTTL <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", defaultTTL)
	}

	key := make([]byte, 32)
	blake3.DeriveKey(keyDerivationContext, []byte(secret), key)

	s := &TokenService{
		key: key,
		ttl: defaultTTL,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// DefaultTTL returns the lifetime used when Issue is called with ttl <= 0.
func (s *TokenService) DefaultTTL() time.Duration {
	return s.ttl
}

// Issue signs a token for subject and its user id that expires ttl after now.
func (s *TokenService) Issue(subject string, userID uint64, ttl time.Duration) (IssuedToken, error) {
	if subject == "" {
		return IssuedToken{}, errors.New("token subject must not be empty")
	}
	if userID == 0 {
		return IssuedToken{}, errors.New("token user id must not be zero")
	}
	if ttl <= 0 {
		ttl = s.ttl
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(ttl)
	claims := accessClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("failed to sign token: %w", err)
	}

	// The exp claim has second precision; report what the token carries.
	return IssuedToken{Token: signed, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Verify checks signature, algorithm and expiry and returns the claims.
func (s *TokenService) Verify(token string) (Claims, error) {
	if token == "" {
		return Claims{}, ErrInvalidToken
	}

	claims := &accessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	if claims.Subject == "" || claims.UserID == 0 {
		return Claims{}, ErrInvalidToken
	}

	verified := Claims{
		Subject:   claims.Subject,
		UserID:    claims.UserID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		verified.IssuedAt = claims.IssuedAt.Time
	}
	return verified, nil
}
