package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/socios/internal/domain"
	"github.com/jackc/pgx/v5"
)

type TokenRepository struct {
	db DBTX
}

func NewTokenRepository(db DBTX) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Create(ctx context.Context, t *domain.MagicLinkToken) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO tokens (token, socio_id, expira_en) VALUES ($1, $2, $3)`,
		t.Token, t.MemberID, t.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

func (r *TokenRepository) FindWithMember(ctx context.Context, token string) (*domain.TokenWithMember, error) {
	row := r.db.QueryRow(ctx, `
		SELECT t.token, t.socio_id, t.expira_en, t.created_at,
		       s.id, s.email, s.nombre, s.telefono, s.perfil, s.created_at, s.updated_at
		FROM   tokens t
		JOIN   socios s ON s.id = t.socio_id
		WHERE  t.token = $1`, token)

	var tm domain.TokenWithMember
	err := row.Scan(
		&tm.Token, &tm.MemberID, &tm.ExpiresAt, &tm.CreatedAt,
		&tm.Member.ID, &tm.Member.Email, &tm.Member.Name, &tm.Member.Phone,
		&tm.Member.Profile, &tm.Member.CreatedAt, &tm.Member.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTokenNotFoundOrExpired
		}
		return nil, fmt.Errorf("scan token: %w", err)
	}
	return &tm, nil
}

// DeleteExpired removes all expired rows in one statement. Running it again
// with the same cutoff deletes nothing.
func (r *TokenRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM tokens WHERE expira_en < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
