package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/socios/config"
	"github.com/ErlanBelekov/socios/internal/email"
	"github.com/ErlanBelekov/socios/internal/health"
	"github.com/ErlanBelekov/socios/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/socios/internal/log"
	"github.com/ErlanBelekov/socios/internal/metrics"
	"github.com/ErlanBelekov/socios/internal/token"
	httptransport "github.com/ErlanBelekov/socios/internal/transport/http"
	"github.com/ErlanBelekov/socios/internal/transport/http/handler"
	"github.com/ErlanBelekov/socios/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if cfg.MigrateOnStart {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			stop()
			log.Fatalf("migrate: %v", err)
		}
		logger.Info("migrations applied")
	}

	sender, err := email.NewSender(cfg.Email(), logger)
	if err != nil {
		pool.Close()
		stop()
		log.Fatalf("email: %v", err)
	}

	// Members
	memberRepo := postgres.NewMemberRepository(pool)
	memberUsecase := usecase.NewMemberUsecase(memberRepo)
	memberHandler := handler.NewMemberHandler(memberUsecase, logger)

	// Auth
	tokenRepo := postgres.NewTokenRepository(pool)
	codec := token.NewCodec([]byte(cfg.JWTSecret))
	authUsecase := usecase.NewAuthUsecase(memberRepo, tokenRepo, sender, codec, cfg.MagicLinkBase, logger)
	authHandler := handler.NewAuthHandler(authUsecase, logger)

	metrics.Register(prometheus.DefaultRegisterer)
	deps := map[string]health.Pinger{"postgres": pool}
	if p, ok := sender.(health.Pinger); ok {
		deps["email"] = health.WithTimeout(p, time.Second)
	}
	checker := health.NewChecker(deps, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httptransport.NewRouter(logger, authHandler, memberHandler, memberRepo, codec),
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port, "email_provider", cfg.EmailProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
