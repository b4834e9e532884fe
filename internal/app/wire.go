package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/escalate-labs/escalatebot/internal/chain"
	"github.com/escalate-labs/escalatebot/internal/config"
	"github.com/escalate-labs/escalatebot/internal/dialogue"
	"github.com/escalate-labs/escalatebot/internal/domain"
	"github.com/escalate-labs/escalatebot/internal/notify"
	"github.com/escalate-labs/escalatebot/internal/session"
	"github.com/escalate-labs/escalatebot/internal/store/postgres"
	"github.com/escalate-labs/escalatebot/internal/telegram"
	"github.com/escalate-labs/escalatebot/internal/token"
)

// Dependencies bundles the wired application graph. It is constructed by Wire
// and torn down by the returned cleanup function.
type Dependencies struct {
	Chain    *chain.Client
	Sessions domain.SessionStore
	Engine   *dialogue.Engine
	Bot      *telegram.Bot

	// Memory is set only when the in-memory session backend is selected; the
	// application runs its janitor alongside the bot.
	Memory *session.MemoryStore
}

// Wire constructs all concrete dependencies from the configuration and returns
// them with a cleanup function to be called on shutdown.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	chainClient, err := chain.New(chain.ClientConfig{
		RPCURL:          cfg.Chain.RPCURL,
		PrivateKey:      cfg.Chain.PrivateKey,
		ContractAddress: cfg.Chain.ContractAddress,
		TokenAddress:    cfg.Chain.TokenAddress,
		ResolverAddress: cfg.Chain.ResolverAddress,
		GasLimit:        cfg.Chain.GasLimit,
		ReceiptTimeout:  cfg.Chain.ReceiptTimeout.Duration,
	}, logger)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: chain: %w", err)
	}
	closers = append(closers, chainClient.Close)
	deps.Chain = chainClient

	switch strings.ToLower(cfg.Session.Backend) {
	case "redis":
		store, err := session.NewRedisStore(ctx, session.RedisConfig{
			Addr:       cfg.Session.Redis.Addr,
			Password:   cfg.Session.Redis.Password,
			DB:         cfg.Session.Redis.DB,
			PoolSize:   cfg.Session.Redis.PoolSize,
			MaxRetries: cfg.Session.Redis.MaxRetries,
			TLSEnabled: cfg.Session.Redis.TLSEnabled,
			TTL:        cfg.Session.TTL.Duration,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis sessions: %w", err)
		}
		closers = append(closers, func() { _ = store.Close() })
		deps.Sessions = store
	default:
		store := session.NewMemoryStore(cfg.Session.TTL.Duration)
		deps.Memory = store
		deps.Sessions = store
	}

	// The activity log is optional; an empty DSN leaves it disabled and the
	// wizards run without persistence.
	var activity domain.ActivityStore
	if cfg.Postgres.DSN != "" {
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			MaxConns: cfg.Postgres.MaxConns,
			MinConns: cfg.Postgres.MinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		if err := pgClient.RunMigrations(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
		}
		activity = postgres.NewActivityStore(pgClient.Pool())
	}

	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	var notifier dialogue.Notifier
	if len(senders) > 0 {
		notifier = notify.New(senders, cfg.Notify.Events, logger)
	}

	deps.Engine = dialogue.New(
		chainClient,
		deps.Sessions,
		token.NewCodec(cfg.Chain.TokenDecimals),
		dialogue.Config{MinMarketDuration: cfg.Market.MinDuration.Duration},
		activity,
		notifier,
		logger,
	)

	bot, err := telegram.New(telegram.Config{
		Token:       cfg.Telegram.Token,
		PollTimeout: cfg.Telegram.PollTimeout,
	}, deps.Engine, logger)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: telegram: %w", err)
	}
	deps.Bot = bot

	return deps, cleanup, nil
}
