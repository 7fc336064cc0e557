package httptransport

import (
	"log/slog"

	"github.com/ErlanBelekov/socios/internal/repository"
	"github.com/ErlanBelekov/socios/internal/token"
	"github.com/ErlanBelekov/socios/internal/transport/http/handler"
	"github.com/ErlanBelekov/socios/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(
	logger *slog.Logger,
	authHandler *handler.AuthHandler,
	memberHandler *handler.MemberHandler,
	memberRepo repository.MemberRepository,
	codec *token.Codec,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.NewWithConfig(logger, sloggin.Config{
		// The verify link carries the token in its query string.
		Filters: []sloggin.Filter{sloggin.IgnorePath("/auth/verify")},
	}))
	r.Use(middleware.Metrics())

	authMW := middleware.Auth(codec)
	ensureMember := middleware.EnsureMember(memberRepo, logger)

	auth := r.Group("/auth")
	auth.POST("/magic-link", authHandler.RequestMagicLink)
	auth.GET("/verify", authHandler.Verify)
	auth.GET("/session", authMW, ensureMember, authHandler.Session)

	socios := r.Group("/socios")
	socios.GET("", memberHandler.List)
	socios.GET("/:id", memberHandler.GetByID)
	socios.POST("", memberHandler.Create)

	return r
}
