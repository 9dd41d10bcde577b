// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"hostpress/internal/cache"
	"hostpress/internal/handlers"
	"hostpress/internal/middleware"
	"hostpress/internal/router"
	"hostpress/internal/status"
	"hostpress/internal/store"
)

// Admin API rate limit per client IP.
const (
	adminRateLimit  = 60
	adminRateWindow = time.Minute
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the public JSON API and the token protected admin API.

The server keeps running when the database or the cache is unreachable:
content queries degrade to empty results until the backend comes back.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, rootOpts)
		},
	}
}

func runServe(ctx context.Context, opts *RootOptions) error {
	cfg := opts.Config
	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"storage", cfg.StorageMode,
	)

	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	stores := a.stores()
	if _, err := store.EnsureDefaultAuthor(ctx, stores.Authors, cfg.DefaultAuthorSlug, cfg.DefaultAuthorName); err != nil {
		slog.Warn("could not ensure the default author, entries may fail to render", "error", err)
	}

	// The response cache is optional; without Valkey every request is
	// answered from storage.
	var responseCache *cache.ResponseCache
	if cfg.CacheEnabled() {
		client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Warn("valkey not reachable, response cache disabled", "error", err)
		} else {
			defer client.Close()
			responseCache = cache.NewResponseCache(client, cfg.CacheTTL)
		}
	} else {
		slog.Info("valkey not configured, response cache disabled")
	}

	var statusClient *status.Client
	if cfg.InstatusURL != "" {
		statusClient = status.NewClient(cfg.InstatusURL)
	}

	limiter := middleware.NewRateLimiter(adminRateLimit, adminRateWindow)
	defer limiter.Stop()

	if cfg.AdminTokenHash == "" {
		slog.Warn("ADMIN_TOKEN_HASH is empty, admin API disabled")
	}

	r := router.New(router.Deps{
		Public:         handlers.NewPublic(a.engine(stores), responseCache, statusClient),
		Admin:          handlers.NewAdmin(stores, responseCache),
		AdminTokenHash: cfg.AdminTokenHash,
		Limiter:        limiter,
		StorageMode:    cfg.StorageMode,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
