package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/socios/internal/domain"
	"github.com/ErlanBelekov/socios/internal/reqctx"
	"github.com/ErlanBelekov/socios/internal/usecase"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	IssueMagicLink(ctx context.Context, email string) (*usecase.IssueResult, error)
	VerifyMagicLink(ctx context.Context, rawToken string) (*domain.Session, error)
}

type AuthHandler struct {
	base
	authUsecase authUsecaser
}

func NewAuthHandler(authUsecase authUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		base:        base{logger: logger.With("component", "auth_handler")},
		authUsecase: authUsecase,
	}
}

type magicLinkRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type magicLinkResponse struct {
	Message string `json:"message"`
}

// POST /auth/magic-link
func (h *AuthHandler) RequestMagicLink(c *gin.Context) {
	var req magicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	res, err := h.authUsecase.IssueMagicLink(c.Request.Context(), req.Email)
	if err != nil {
		h.writeError(c, "issue magic link", err)
		return
	}

	c.JSON(http.StatusOK, magicLinkResponse{Message: res.Message})
}

// GET /auth/verify?token=<token>
// Returns the signed member claims plus expira_en.
func (h *AuthHandler) Verify(c *gin.Context) {
	// An empty token still goes through the usecase so the expired-row
	// sweep runs; the codec rejects it as invalid.
	sess, err := h.authUsecase.VerifyMagicLink(c.Request.Context(), c.Query("token"))
	if err != nil {
		h.writeError(c, "verify magic link", err)
		return
	}

	c.JSON(http.StatusOK, sess)
}

// GET /auth/session
// Echoes the claims of the bearer token accepted by middleware.Auth.
func (h *AuthHandler) Session(c *gin.Context) {
	claims := reqctx.Claims(c.Request.Context())
	if claims == nil {
		h.writeError(c, "session", domain.ErrUnauthorized)
		return
	}
	c.JSON(http.StatusOK, claims)
}
