package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/socios/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MagicLinkTTL is the lifetime of a magic-link token, both for the signed
// exp claim and for the stored row.
const MagicLinkTTL = 90 * 24 * time.Hour

// Codec signs and verifies HS256 tokens carrying domain.Claims.
type Codec struct {
	key []byte
	now func() time.Time
}

type Option func(*Codec)

// WithClock overrides the time source used for iat/exp and for validation.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

func NewCodec(key []byte, opts ...Option) *Codec {
	c := &Codec{
		key: append([]byte(nil), key...),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sign stamps jti/iat/exp onto claims and returns the compact token along
// with the exp it signed, truncated to the second as encoded. Callers store
// that instant so the row and the claim expire together. The random jti
// keeps tokens issued within the same second distinct.
func (c *Codec) Sign(claims domain.Claims, ttl time.Duration) (string, time.Time, error) {
	now := c.now()
	exp := now.Add(ttl).Truncate(time.Second)
	claims.RegisteredClaims.ID = uuid.NewString()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(exp)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify checks the signature and exp of raw and returns its claims.
// Errors are domain.ErrExpiredToken for an elapsed exp and
// domain.ErrInvalidToken for everything else.
func (c *Codec) Verify(raw string) (*domain.Claims, error) {
	claims := &domain.Claims{}
	t, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", domain.ErrExpiredToken, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if !t.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
