package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/socios/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const memberColumns = `id, email, nombre, telefono, perfil, created_at, updated_at`

type MemberRepository struct {
	db DBTX
}

func NewMemberRepository(db DBTX) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) List(ctx context.Context) ([]*domain.Member, error) {
	rows, err := r.db.Query(ctx, `SELECT `+memberColumns+` FROM socios ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []*domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return members, nil
}

func (r *MemberRepository) FindByID(ctx context.Context, id int64) (*domain.Member, error) {
	row := r.db.QueryRow(ctx, `SELECT `+memberColumns+` FROM socios WHERE id = $1`, id)
	return scanMember(row)
}

// FindByEmail matches the address exactly, as stored.
func (r *MemberRepository) FindByEmail(ctx context.Context, email string) (*domain.Member, error) {
	row := r.db.QueryRow(ctx, `SELECT `+memberColumns+` FROM socios WHERE email = $1`, email)
	return scanMember(row)
}

func (r *MemberRepository) Create(ctx context.Context, m *domain.Member) (*domain.Member, error) {
	profile := m.Profile
	if profile == nil {
		profile = map[string]any{}
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO socios (email, nombre, telefono, perfil)
		VALUES ($1, $2, $3, $4)
		RETURNING `+memberColumns,
		m.Email, m.Name, m.Phone, profile,
	)

	created, err := scanMember(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}
	return created, nil
}

func scanMember(row pgx.Row) (*domain.Member, error) {
	var m domain.Member
	err := row.Scan(&m.ID, &m.Email, &m.Name, &m.Phone, &m.Profile, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("scan member: %w", err)
	}
	return &m, nil
}
