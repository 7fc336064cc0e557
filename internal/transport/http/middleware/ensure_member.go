package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/socios/internal/domain"
	"github.com/gin-gonic/gin"
)

type memberFinder interface {
	FindByID(ctx context.Context, id int64) (*domain.Member, error)
}

// EnsureMember runs after Auth. It rejects sessions whose member has been
// deleted since the token was signed.
func EnsureMember(repo memberFinder, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		memberID := c.GetInt64(ContextKeyMemberID)
		if _, err := repo.FindByID(c.Request.Context(), memberID); err != nil {
			if errors.Is(err, domain.ErrMemberNotFound) {
				abortUnauthorized(c)
				return
			}
			logger.ErrorContext(c.Request.Context(), "ensure member", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				gin.H{"error": "Internal server error", "code": "internal"})
			return
		}
		c.Next()
	}
}
