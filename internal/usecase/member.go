package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ErlanBelekov/socios/internal/domain"
	"github.com/ErlanBelekov/socios/internal/repository"
)

// MemberSummary is the public, masked view of a member.
type MemberSummary struct {
	Name  string `json:"nombre"`
	Email string `json:"email"`
	Phone string `json:"telefono"`
}

type CreateMemberInput struct {
	Email   string
	Name    string
	Phone   string
	Profile map[string]any
}

type MemberUsecase struct {
	members repository.MemberRepository
}

func NewMemberUsecase(members repository.MemberRepository) *MemberUsecase {
	return &MemberUsecase{members: members}
}

// List returns every member with name, email and phone partially hidden.
func (u *MemberUsecase) List(ctx context.Context) ([]MemberSummary, error) {
	members, err := u.members.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	out := make([]MemberSummary, 0, len(members))
	for _, m := range members {
		out = append(out, MemberSummary{
			Name:  maskName(m.Name),
			Email: maskPrefix(m.Email, 4),
			Phone: maskPrefix(m.Phone, 4),
		})
	}
	return out, nil
}

func (u *MemberUsecase) Get(ctx context.Context, id int64) (*domain.Member, error) {
	m, err := u.members.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

func (u *MemberUsecase) Create(ctx context.Context, in CreateMemberInput) (*domain.Member, error) {
	m, err := u.members.Create(ctx, &domain.Member{
		Email:   in.Email,
		Name:    in.Name,
		Phone:   in.Phone,
		Profile: in.Profile,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create member: %w", err)
	}
	return m, nil
}

// maskName keeps the first word and the last two characters:
// "Ana María López" -> "Ana ...ez".
func maskName(name string) string {
	first, _, _ := strings.Cut(name, " ")
	r := []rune(name)
	if len(r) > 2 {
		r = r[len(r)-2:]
	}
	return first + " ..." + string(r)
}

// maskPrefix keeps the first n characters.
func maskPrefix(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r) + "..."
}
