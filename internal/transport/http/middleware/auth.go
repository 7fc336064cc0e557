package middleware

import (
	"net/http"
	"strings"

	"github.com/ErlanBelekov/socios/internal/domain"
	"github.com/ErlanBelekov/socios/internal/reqctx"
	"github.com/gin-gonic/gin"
)

const errUnauthorized = "Unauthorized"

// ContextKeyMemberID is the gin context key Auth stores the member ID under.
const ContextKeyMemberID = "memberID"

type tokenVerifier interface {
	Verify(raw string) (*domain.Claims, error)
}

// Auth validates a Bearer session token (the token issued by a magic link)
// and stores its claims on the request context.
func Auth(codec tokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c)
			return
		}

		claims, err := codec.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil || claims.ID == 0 {
			abortUnauthorized(c)
			return
		}

		c.Request = c.Request.WithContext(reqctx.WithClaims(c.Request.Context(), claims))
		c.Set(ContextKeyMemberID, claims.ID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized, "code": "unauthorized"})
}
