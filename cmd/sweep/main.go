// sweep deletes expired magic-link tokens once and exits. Verification
// already sweeps on every request; this is for operators purging a quiet
// database by hand.
// Run: go run ./cmd/sweep
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/socios/config"
	"github.com/ErlanBelekov/socios/internal/email"
	"github.com/ErlanBelekov/socios/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/socios/internal/log"
	"github.com/ErlanBelekov/socios/internal/token"
	"github.com/ErlanBelekov/socios/internal/usecase"
	"github.com/lmittmann/tint"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	memberRepo := postgres.NewMemberRepository(pool)
	tokenRepo := postgres.NewTokenRepository(pool)
	codec := token.NewCodec([]byte(cfg.JWTSecret))
	// The sweep never sends mail.
	authUsecase := usecase.NewAuthUsecase(memberRepo, tokenRepo, email.NewLogSender(logger), codec, cfg.MagicLinkBase, logger)

	n, err := authUsecase.SweepExpired(ctx)
	if err != nil {
		logger.Error("sweep failed", "error", err)
		pool.Close()
		os.Exit(1)
	}
	logger.Info("sweep complete", "deleted", n)
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
