// Package app owns the application lifecycle. It wires the chain client,
// session store, activity log, notifier, dialogue engine, and Telegram
// transport from configuration, then runs the update loop until shutdown.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/escalate-labs/escalatebot/internal/config"
)

// sessionSweepInterval is how often the in-memory session janitor runs.
const sessionSweepInterval = time.Minute

// App is the root application object.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()
}

// New creates an App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run wires dependencies and blocks until the context is cancelled or the
// update loop fails. Cleanup is registered for Close.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting",
		slog.String("session_backend", a.cfg.Session.Backend),
		slog.String("log_level", a.cfg.LogLevel),
	)
	a.logger.DebugContext(ctx, "effective configuration",
		slog.Any("config", config.RedactedConfig(a.cfg)),
	)

	deps, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	// A dead RPC endpoint is reported but not fatal; the bot answers with
	// failure texts until the endpoint recovers.
	if !deps.Chain.CheckConnection(ctx) {
		a.logger.WarnContext(ctx, "rpc endpoint unreachable at startup",
			slog.String("rpc_url", a.cfg.Chain.RPCURL),
		)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return deps.Bot.Run(ctx) })
	if deps.Memory != nil {
		g.Go(func() error { return deps.Memory.Janitor(ctx, sessionSweepInterval) })
	}
	return g.Wait()
}

// Close tears down all resources in reverse registration order. Safe to call
// more than once.
func (a *App) Close() {
	a.logger.Info("shutting down")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
