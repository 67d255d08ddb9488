package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/homehub/internal/config"
	"github.com/dukerupert/homehub/internal/database"
	"github.com/dukerupert/homehub/internal/email"
	"github.com/dukerupert/homehub/internal/logging"
	"github.com/dukerupert/homehub/internal/server"
	"github.com/dukerupert/homehub/internal/service"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	emailClient := email.NewClient(cfg.Email.PostmarkToken, cfg.Email.From, cfg.Server.BaseURL)
	if !emailClient.Configured() {
		logger.Warn("postmark token not set, invitations will not be emailed")
	}

	svc := service.New(db, logger.With("component", "service"),
		service.WithMailer(emailClient),
		service.WithSessionTTL(cfg.SessionTTL()),
	)
	srv := server.New(svc, cfg.Server.AllowedOrigins, logger, server.WithTrustProxy(cfg.Server.TrustProxy))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go runCleanup(ctx, svc, srv, cfg.CleanupInterval(), logger.With("component", "cleanup"))

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("homehub listening", "addr", cfg.Server.Addr, "db", cfg.Database.Path)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// runCleanup purges expired sessions and stale rate limit buckets until ctx
// is cancelled.
func runCleanup(ctx context.Context, svc *service.Service, srv *server.Server, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := svc.CleanupSessions(ctx)
			if err != nil {
				logger.Error("cleanup sessions", "error", err)
			} else if n > 0 {
				logger.Info("expired sessions removed", "count", n)
			}
			remaining := srv.RateLimiter().Cleanup()
			logger.Debug("rate limiter cleaned", "buckets", remaining)
		}
	}
}
