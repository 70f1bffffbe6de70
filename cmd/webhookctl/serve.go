package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	go_json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/vitalvas/paywebhook/internal/config"
	"github.com/vitalvas/paywebhook/internal/xslog"
	"github.com/vitalvas/paywebhook/replay"
	"github.com/vitalvas/paywebhook/webhook"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a receiver that verifies and logs incoming webhooks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, secret, err := opts.loadWithSecret()
			if err != nil {
				return err
			}

			if addr != "" {
				cfg.Server.Addr = addr
			}

			level, err := xslog.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			logger := xslog.New(cmd.ErrOrStderr(), level)

			guard, closeGuard, err := newReplayGuard(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeGuard()

			handler, err := newReceiver(cfg, secret, guard, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return listenAndServe(ctx, cfg.Server, handler, logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}

func newReplayGuard(ctx context.Context, cfg config.Config) (webhook.ReplayGuard, func(), error) {
	if cfg.Redis.Addr == "" {
		return replay.NewMemory(cfg.Server.ReplayMemory), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	return replay.NewRedis(client, cfg.Redis.KeyPrefix), func() { _ = client.Close() }, nil
}

type receivedResponse struct {
	Received  bool   `json:"received"`
	WebhookID string `json:"webhook_id"`
	Bytes     int    `json:"bytes"`
}

func newReceiver(cfg config.Config, secret webhook.Secret, guard webhook.ReplayGuard, logger *slog.Logger) (http.Handler, error) {
	cache, err := webhook.NewKeyCache(cfg.KeyCacheSize)
	if err != nil {
		return nil, err
	}

	verify, err := webhook.Middleware(webhook.MiddlewareConfig{
		Secret: secret,
		Verify: webhook.VerifyConfig{
			Tolerance: cfg.Tolerance,
			Cache:     cache,
		},
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Replay:       guard,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.With(verify).Post(cfg.Server.Path, func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		id := webhook.WebhookIDFromContext(r.Context())

		logger.LogAttrs(r.Context(), slog.LevelInfo, "webhook received",
			xslog.WebhookID(id),
			xslog.Bytes(len(body)),
		)

		w.Header().Set("Content-Type", "application/json")
		_ = go_json.NewEncoder(w).Encode(receivedResponse{
			Received:  true,
			WebhookID: id,
			Bytes:     len(body),
		})
	})

	return r, nil
}

func listenAndServe(ctx context.Context, cfg config.Server, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadTimeout,
		ReadTimeout:       cfg.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.LogAttrs(ctx, slog.LevelInfo, "listening", xslog.Addr(cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	start := time.Now()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.LogAttrs(shutdownCtx, slog.LevelError, "shutdown failed", xslog.Error(err))
		return err
	}

	logger.LogAttrs(shutdownCtx, slog.LevelInfo, "server stopped", xslog.Duration(time.Since(start)))

	return nil
}
