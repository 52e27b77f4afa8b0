package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

const CookieName = "token"

var (
	ErrMissingSigningKey = errors.New("token signing key is not configured")
	ErrInvalidToken      = errors.New("invalid token")
)

// TokenManager issues and verifies HS256 credentials.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*TokenManager)

// WithClock replaces time.Now for both issuance and verification.
func WithClock(now func() time.Time) Option {
	return func(tm *TokenManager) {
		tm.now = now
	}
}

func NewTokenManager(secret string, ttl time.Duration, opts ...Option) *TokenManager {
	if ttl <= 0 {
		ttl = 5 * time.Hour
	}
	tm := &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(tm)
	}
	return tm
}

func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Issue signs identity with a fixed lifetime. Caller supplied exp/iat values
// are overwritten.
func (tm *TokenManager) Issue(identity Identity) (string, time.Time, error) {
	if len(tm.secret) == 0 {
		return "", time.Time{}, ErrMissingSigningKey
	}

	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)

	claims := jwt.MapClaims{}
	for k, v := range identity {
		claims[k] = v
	}
	claims["iat"] = jwt.NewNumericDate(issuedAt)
	claims["exp"] = jwt.NewNumericDate(expiresAt)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies signature, algorithm and expiry and returns the claims.
func (tm *TokenManager) Parse(tokenStr string) (Identity, error) {
	if len(tm.secret) == 0 {
		return nil, ErrMissingSigningKey
	}

	parsed, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return Identity(claims), nil
}
