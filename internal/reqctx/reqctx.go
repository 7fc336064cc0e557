// Package reqctx holds request-scoped values carried on a context.Context:
// the request ID and, once authenticated, the member's claims.
package reqctx

import (
	"context"

	"github.com/ErlanBelekov/socios/internal/domain"
	"github.com/google/uuid"
)

type (
	requestIDKey struct{}
	claimsKey    struct{}
)

// NewRequestID generates a random UUID v4 request ID.
func NewRequestID() string {
	return uuid.NewString()
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns "" if absent.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func WithClaims(ctx context.Context, c *domain.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// Claims returns nil when the request is not authenticated.
func Claims(ctx context.Context) *domain.Claims {
	c, _ := ctx.Value(claimsKey{}).(*domain.Claims)
	return c
}
