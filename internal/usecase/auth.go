package usecase

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/ErlanBelekov/socios/internal/domain"
	"github.com/ErlanBelekov/socios/internal/email"
	"github.com/ErlanBelekov/socios/internal/metrics"
	"github.com/ErlanBelekov/socios/internal/repository"
	"github.com/ErlanBelekov/socios/internal/token"
)

const magicLinkSubject = "Your sign-in link"

type IssueResult struct {
	Email   string `json:"-"`
	Message string `json:"message"`
}

type AuthUsecase struct {
	members       repository.MemberRepository
	tokens        repository.TokenRepository
	email         email.Sender
	codec         *token.Codec
	magicLinkBase string
	ttl           time.Duration
	now           func() time.Time
	logger        *slog.Logger
}

type AuthOption func(*AuthUsecase)

// WithClock overrides the time source. The codec passed to NewAuthUsecase
// should share it.
func WithClock(now func() time.Time) AuthOption {
	return func(u *AuthUsecase) { u.now = now }
}

func WithTTL(ttl time.Duration) AuthOption {
	return func(u *AuthUsecase) { u.ttl = ttl }
}

func NewAuthUsecase(
	members repository.MemberRepository,
	tokens repository.TokenRepository,
	emailSender email.Sender,
	codec *token.Codec,
	magicLinkBase string,
	logger *slog.Logger,
	opts ...AuthOption,
) *AuthUsecase {
	u := &AuthUsecase{
		members:       members,
		tokens:        tokens,
		email:         emailSender,
		codec:         codec,
		magicLinkBase: strings.TrimSuffix(magicLinkBase, "/"),
		ttl:           token.MagicLinkTTL,
		now:           time.Now,
		logger:        logger.With("component", "auth_usecase"),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// IssueMagicLink signs a token for the member owning emailAddr, stores it
// and emails the verify link. Every call stores a new row.
func (u *AuthUsecase) IssueMagicLink(ctx context.Context, emailAddr string) (*IssueResult, error) {
	res, err := u.issue(ctx, emailAddr)
	metrics.MagicLinksIssuedTotal.WithLabelValues(outcome(err)).Inc()
	return res, err
}

func (u *AuthUsecase) issue(ctx context.Context, emailAddr string) (*IssueResult, error) {
	member, err := u.members.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("find member: %w", err)
	}

	signed, expiresAt, err := u.codec.Sign(domain.ClaimsFor(member), u.ttl)
	if err != nil {
		return nil, err
	}

	mt := &domain.MagicLinkToken{
		Token:     signed,
		MemberID:  member.ID,
		ExpiresAt: expiresAt,
	}
	if err = u.tokens.Create(ctx, mt); err != nil {
		return nil, fmt.Errorf("store magic token: %w", err)
	}

	if err = u.email.Send(ctx, u.magicLinkMessage(emailAddr, signed)); err != nil {
		return nil, fmt.Errorf("send magic link: %w", err)
	}

	u.logger.InfoContext(ctx, "magic link issued", "member_id", member.ID, "expires_at", mt.ExpiresAt)
	return &IssueResult{
		Email:   emailAddr,
		Message: "Magic link sent to " + emailAddr,
	}, nil
}

func (u *AuthUsecase) magicLinkMessage(to, signed string) email.Message {
	link := u.magicLinkBase + "/auth/verify?token=" + url.QueryEscape(signed)
	escaped := html.EscapeString(link)
	return email.Message{
		To:      to,
		Subject: magicLinkSubject,
		Text:    "Open the following link to sign in: " + link,
		HTML:    fmt.Sprintf(`<p>Click the link below to sign in:</p><p><a href="%s">%s</a></p>`, escaped, escaped),
	}
}

// VerifyMagicLink checks rawToken against its signature and its stored row
// and returns the signed claims together with the stored expiry. Whatever
// the outcome, expired rows are swept before it returns.
func (u *AuthUsecase) VerifyMagicLink(ctx context.Context, rawToken string) (sess *domain.Session, err error) {
	defer func() {
		if _, sweepErr := u.SweepExpired(ctx); sweepErr != nil {
			if err == nil {
				sess, err = nil, sweepErr
			} else {
				u.logger.ErrorContext(ctx, "sweep expired tokens", "error", sweepErr)
			}
		}
		metrics.MagicLinkVerificationsTotal.WithLabelValues(verifyOutcome(err)).Inc()
	}()

	return u.verify(ctx, rawToken)
}

func (u *AuthUsecase) verify(ctx context.Context, rawToken string) (*domain.Session, error) {
	claims, err := u.codec.Verify(rawToken)
	if err != nil {
		if errors.Is(err, domain.ErrExpiredToken) {
			u.logger.InfoContext(ctx, "magic link rejected", "cause", "claim_expired")
			return nil, domain.ErrTokenNotFoundOrExpired
		}
		u.logger.InfoContext(ctx, "magic link rejected", "cause", "invalid", "error", err)
		return nil, domain.ErrInvalidToken
	}

	row, err := u.tokens.FindWithMember(ctx, rawToken)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFoundOrExpired) {
			u.logger.InfoContext(ctx, "magic link rejected", "cause", "not_found", "member_id", claims.ID)
			return nil, domain.ErrTokenNotFoundOrExpired
		}
		return nil, fmt.Errorf("find magic token: %w", err)
	}
	if row.IsExpired(u.now()) {
		u.logger.InfoContext(ctx, "magic link rejected", "cause", "expired", "member_id", claims.ID)
		return nil, domain.ErrTokenNotFoundOrExpired
	}

	if claims.ID != row.Member.ID {
		u.logger.WarnContext(ctx, "magic link rejected", "cause", "mismatch",
			"claims_member_id", claims.ID, "row_member_id", row.Member.ID)
		return nil, domain.ErrTokenMismatch
	}

	return &domain.Session{Claims: *claims, ExpiresAt: row.ExpiresAt}, nil
}

// SweepExpired deletes every token row whose expiry is strictly in the past.
func (u *AuthUsecase) SweepExpired(ctx context.Context) (int64, error) {
	n, err := u.tokens.DeleteExpired(ctx, u.now())
	if err != nil {
		return 0, fmt.Errorf("sweep expired tokens: %w", err)
	}
	if n > 0 {
		metrics.ExpiredTokensSweptTotal.Add(float64(n))
		u.logger.DebugContext(ctx, "swept expired tokens", "count", n)
	}
	return n, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrMemberNotFound):
		return "member_not_found"
	default:
		return "error"
	}
}

func verifyOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidToken):
		return "invalid"
	case errors.Is(err, domain.ErrTokenNotFoundOrExpired):
		return "not_found_or_expired"
	case errors.Is(err, domain.ErrTokenMismatch):
		return "mismatch"
	default:
		return "error"
	}
}
