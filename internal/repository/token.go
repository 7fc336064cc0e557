package repository

import (
	"context"
	"time"

	"github.com/ErlanBelekov/socios/internal/domain"
)

type TokenRepository interface {
	Create(ctx context.Context, t *domain.MagicLinkToken) error
	// FindWithMember returns domain.ErrTokenNotFoundOrExpired when no row
	// matches. It does not look at the expiry.
	FindWithMember(ctx context.Context, token string) (*domain.TokenWithMember, error)
	// DeleteExpired removes every row with expires_at strictly before cutoff.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
