package middleware_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ErlanBelekov/socios/internal/domain"
	"github.com/ErlanBelekov/socios/internal/reqctx"
	"github.com/ErlanBelekov/socios/internal/token"
	"github.com/ErlanBelekov/socios/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testKey = "middleware-test-secret-32-chars!!"

var testMember = &domain.Member{ID: 7, Email: "a@x.com", Name: "Ana"}

func init() {
	gin.SetMode(gin.TestMode)
}

// newEngine builds a minimal gin engine with the Auth middleware protecting GET /protected.
// The handler writes the member ID from both the gin and the request context.
func newEngine(extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	chain := append([]gin.HandlerFunc{middleware.Auth(token.NewCodec([]byte(testKey)))}, extra...)
	chain = append(chain, func(c *gin.Context) {
		memberID := c.GetInt64(middleware.ContextKeyMemberID)
		claims := reqctx.Claims(c.Request.Context())
		c.String(http.StatusOK, "%d/%d", memberID, claims.ID)
	})
	r.GET("/protected", chain...)
	return r
}

func sign(t *testing.T, key string, m *domain.Member, ttl time.Duration) string {
	t.Helper()
	s, _, err := token.NewCodec([]byte(key)).Sign(domain.ClaimsFor(m), ttl)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func request(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_MissingHeader_Returns401(t *testing.T) {
	if w := request(newEngine(), ""); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_NonBearerScheme_Returns401(t *testing.T) {
	if w := request(newEngine(), "Basic dXNlcjpwYXNz"); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_InvalidToken_Returns401(t *testing.T) {
	if w := request(newEngine(), "Bearer not.a.jwt"); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_ExpiredToken_Returns401(t *testing.T) {
	tok := sign(t, testKey, testMember, -time.Hour)

	if w := request(newEngine(), "Bearer "+tok); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_WrongSigningKey_Returns401(t *testing.T) {
	tok := sign(t, "different-key-that-is-32-chars!!", testMember, time.Hour)

	if w := request(newEngine(), "Bearer "+tok); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_MissingMemberID_Returns401(t *testing.T) {
	claims := domain.Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testKey))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if w := request(newEngine(), "Bearer "+tok); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_ValidToken_PassesAndSetsMemberID(t *testing.T) {
	tok := sign(t, testKey, testMember, time.Hour)

	w := request(newEngine(), "Bearer "+tok)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if got, want := w.Body.String(), fmt.Sprintf("%d/%d", testMember.ID, testMember.ID); got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
}

// ---- EnsureMember ----

type fakeFinder struct {
	err error
}

func (f fakeFinder) FindByID(_ context.Context, id int64) (*domain.Member, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Member{ID: id}, nil
}

func TestEnsureMember(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tok := sign(t, testKey, testMember, time.Hour)

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"exists", nil, http.StatusOK},
		{"deleted", domain.ErrMemberNotFound, http.StatusUnauthorized},
		{"db error", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newEngine(middleware.EnsureMember(fakeFinder{err: tc.err}, logger))
			if w := request(r, "Bearer "+tok); w.Code != tc.want {
				t.Errorf("status = %d, want %d", w.Code, tc.want)
			}
		})
	}
}
