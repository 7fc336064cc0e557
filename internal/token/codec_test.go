package token_test

import (
	"strings"
	"testing"
	"time"

	"github.com/ErlanBelekov/socios/internal/domain"
	"github.com/ErlanBelekov/socios/internal/token"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "codec-test-secret-at-least-32-chars!"

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock(at *time.Time) func() time.Time {
	return func() time.Time { return *at }
}

func testClaims() domain.Claims {
	return domain.ClaimsFor(&domain.Member{
		ID:    7,
		Email: "a@x.com",
		Name:  "Ana Pérez",
		Phone: "600123123",
	})
}

func TestSignVerify_RoundTrip(t *testing.T) {
	now := t0
	c := token.NewCodec([]byte(testKey), token.WithClock(fixedClock(&now)))

	raw, _, err := c.Sign(testClaims(), token.MagicLinkTTL)
	require.NoError(t, err)

	now = t0.Add(24 * time.Hour)
	claims, err := c.Verify(raw)
	require.NoError(t, err)

	assert.Equal(t, int64(7), claims.ID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "Ana Pérez", claims.Name)
	assert.Equal(t, "600123123", claims.Phone)
	assert.Equal(t, domain.ClaimsVersion, claims.Version)
	assert.Equal(t, t0.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, t0.Add(token.MagicLinkTTL).Unix(), claims.ExpiresAt.Unix())
}

func TestSign_SameInstantGivesDistinctTokens(t *testing.T) {
	now := t0
	c := token.NewCodec([]byte(testKey), token.WithClock(fixedClock(&now)))

	a, _, err := c.Sign(testClaims(), time.Hour)
	require.NoError(t, err)
	b, _, err := c.Sign(testClaims(), time.Hour)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestSign_ReturnsEncodedExpiry(t *testing.T) {
	now := t0.Add(1500 * time.Millisecond)
	c := token.NewCodec([]byte(testKey), token.WithClock(fixedClock(&now)))

	raw, exp, err := c.Sign(testClaims(), token.MagicLinkTTL)
	require.NoError(t, err)
	assert.Equal(t, t0.Add(token.MagicLinkTTL+time.Second), exp)

	claims, err := c.Verify(raw)
	require.NoError(t, err)
	assert.True(t, claims.ExpiresAt.Time.Equal(exp), "claim exp %v, returned %v", claims.ExpiresAt.Time, exp)

	// One second before the returned instant the token still verifies.
	now = exp.Add(-time.Second)
	_, err = c.Verify(raw)
	require.NoError(t, err)

	now = exp
	_, err = c.Verify(raw)
	assert.ErrorIs(t, err, domain.ErrExpiredToken)
}

func TestVerify_Expired(t *testing.T) {
	now := t0
	c := token.NewCodec([]byte(testKey), token.WithClock(fixedClock(&now)))

	raw, _, err := c.Sign(testClaims(), token.MagicLinkTTL)
	require.NoError(t, err)

	now = t0.Add(91 * 24 * time.Hour)
	_, err = c.Verify(raw)
	assert.ErrorIs(t, err, domain.ErrExpiredToken)
	assert.NotErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	c := token.NewCodec([]byte(testKey))

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := c.Verify(raw)
		assert.ErrorIs(t, err, domain.ErrInvalidToken, "raw=%q", raw)
	}
}

func TestVerify_TamperedPayload(t *testing.T) {
	c := token.NewCodec([]byte(testKey))

	raw, _, err := c.Sign(testClaims(), time.Hour)
	require.NoError(t, err)

	other, _, err := c.Sign(domain.ClaimsFor(&domain.Member{ID: 8, Email: "b@x.com"}), time.Hour)
	require.NoError(t, err)

	parts := strings.Split(raw, ".")
	otherParts := strings.Split(other, ".")
	forged := parts[0] + "." + otherParts[1] + "." + parts[2]

	_, err = c.Verify(forged)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerify_WrongKey(t *testing.T) {
	signer := token.NewCodec([]byte("another-secret-that-is-32-chars!!"))
	c := token.NewCodec([]byte(testKey))

	raw, _, err := signer.Sign(testClaims(), time.Hour)
	require.NoError(t, err)

	_, err = c.Verify(raw)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	claims := testClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = token.NewCodec([]byte(testKey)).Verify(raw)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerify_RequiresExpiry(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, testClaims()).SignedString([]byte(testKey))
	require.NoError(t, err)

	_, err = token.NewCodec([]byte(testKey)).Verify(raw)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
