package repository

import (
	"context"

	"github.com/ErlanBelekov/socios/internal/domain"
)

// MemberRepository is the member side of the record store. Usecases depend
// on it so tests can swap in a fake.
type MemberRepository interface {
	List(ctx context.Context) ([]*domain.Member, error)
	FindByID(ctx context.Context, id int64) (*domain.Member, error)
	FindByEmail(ctx context.Context, email string) (*domain.Member, error)
	Create(ctx context.Context, m *domain.Member) (*domain.Member, error)
}
