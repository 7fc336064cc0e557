package domain

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken           = errors.New("token is invalid or malformed")
	ErrExpiredToken           = errors.New("token has expired")
	ErrTokenNotFoundOrExpired = errors.New("token is invalid or expired")
	ErrTokenMismatch          = errors.New("token member does not match the stored record")
	ErrUnauthorized           = errors.New("unauthorized")
)

// ClaimsVersion is bumped whenever the set of member fields carried in a
// signed token changes.
const ClaimsVersion = 1

// Claims is the signed payload of a magic-link token. Only the named member
// fields below are ever signed.
type Claims struct {
	Version int    `json:"ver"`
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"nombre"`
	Phone   string `json:"telefono"`
	jwt.RegisteredClaims
}

// ClaimsFor copies the signable fields of m.
func ClaimsFor(m *Member) Claims {
	return Claims{
		Version: ClaimsVersion,
		ID:      m.ID,
		Email:   m.Email,
		Name:    m.Name,
		Phone:   m.Phone,
	}
}

type MagicLinkToken struct {
	Token     string
	MemberID  int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the stored expiry is strictly before now.
func (t *MagicLinkToken) IsExpired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}

// TokenWithMember is a token row joined with the member it is bound to.
type TokenWithMember struct {
	MagicLinkToken
	Member Member
}

// Session is what a successful verification hands back to the caller.
type Session struct {
	Claims
	ExpiresAt time.Time `json:"expira_en"`
}
