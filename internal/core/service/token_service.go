package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/petcare/clinic-api/internal/core/domain"
)

const (
	// DefaultTokenTTL is the lifetime of a session token.
	DefaultTokenTTL = 24 * time.Hour
	minSecretLength = 32
)

// SigningKey is the immutable HMAC key shared by issuer and validator.
type SigningKey struct {
	secret []byte
	issuer string
}

// NewSigningKey builds the key loaded at boot. A short or empty secret is a
// configuration error.
func NewSigningKey(secret, issuer string) (SigningKey, error) {
	if len(secret) < minSecretLength {
		return SigningKey{}, fmt.Errorf("signing key: secret must be at least %d bytes", minSecretLength)
	}
	b := make([]byte, len(secret))
	copy(b, secret)
	return SigningKey{secret: b, issuer: issuer}, nil
}

type sessionClaims struct {
	Email    string `json:"email"`
	RoleType string `json:"role_type"`
	RoleCode string `json:"role_code"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256 session tokens. It keeps no state
// besides its key and is safe for concurrent use.
type TokenService struct {
	key SigningKey
	ttl time.Duration
	now func() time.Time
}

func NewTokenService(key SigningKey, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{key: key, ttl: ttl, now: time.Now}
}

// WithClock returns a copy of s reading time from now.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	clone := *s
	clone.now = now
	return &clone
}

// Issue mints a token for identity expiring after the configured TTL.
func (s *TokenService) Issue(identity *domain.Identity) (domain.Session, error) {
	if identity == nil || identity.ID == "" || !identity.Role().Valid() {
		return domain.Session{}, fmt.Errorf("issue token: %w", domain.ErrInvalidInput)
	}

	now := s.now().UTC()
	claims := sessionClaims{
		Email:    identity.Email,
		RoleType: identity.Role().TypeName(),
		RoleCode: string(identity.Role()),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			Issuer:    s.key.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key.secret)
	if err != nil {
		return domain.Session{}, fmt.Errorf("issue token: %w", err)
	}
	return domain.Session{Token: signed, ExpiresAt: claims.ExpiresAt.Time.UTC()}, nil
}

// Validate verifies signature, issuer and expiry. An authentic token past its
// expiry yields domain.ErrTokenExpired; anything else that fails yields
// domain.ErrTokenInvalid.
func (s *TokenService) Validate(token string) (domain.Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(s.key.issuer),
		jwt.WithTimeFunc(s.now),
	)

	var claims sessionClaims
	parsed, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.key.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Claims{}, domain.ErrTokenExpired
		}
		return domain.Claims{}, domain.ErrTokenInvalid
	}
	if !parsed.Valid || claims.Subject == "" {
		return domain.Claims{}, domain.ErrTokenInvalid
	}

	role, ok := domain.ParseRole(claims.RoleCode)
	if !ok {
		return domain.Claims{}, domain.ErrTokenInvalid
	}

	return domain.Claims{
		SubjectID: claims.Subject,
		Email:     claims.Email,
		RoleType:  claims.RoleType,
		Role:      role,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, nil
}
