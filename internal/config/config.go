// Package config defines the top-level configuration for the escalate bot
// and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by ESCALATE_* environment
// variables.
type Config struct {
	Telegram TelegramConfig `toml:"telegram"`
	Chain    ChainConfig    `toml:"chain"`
	Market   MarketConfig   `toml:"market"`
	Session  SessionConfig  `toml:"session"`
	Postgres PostgresConfig `toml:"postgres"`
	Notify   NotifyConfig   `toml:"notify"`
	LogLevel string         `toml:"log_level"`
}

// TelegramConfig holds the bot credential for the chat transport.
type TelegramConfig struct {
	Token string `toml:"token"`
	// PollTimeout is the long-poll timeout in seconds.
	PollTimeout int `toml:"poll_timeout"`
}

// ChainConfig holds RPC endpoint, signing key, and contract parameters.
type ChainConfig struct {
	RPCURL          string   `toml:"rpc_url"`
	PrivateKey      string   `toml:"private_key"`
	ContractAddress string   `toml:"contract_address"`
	TokenAddress    string   `toml:"token_address"`
	ResolverAddress string   `toml:"resolver_address"`
	TokenDecimals   int      `toml:"token_decimals"`
	GasLimit        uint64   `toml:"gas_limit"`
	ReceiptTimeout  duration `toml:"receipt_timeout"`
}

// MarketConfig holds market creation parameters.
type MarketConfig struct {
	MinDuration duration `toml:"min_duration"`
}

// SessionConfig selects and tunes the session repository backend.
type SessionConfig struct {
	// Backend is "memory" or "redis".
	Backend string             `toml:"backend"`
	TTL     duration           `toml:"ttl"`
	Redis   RedisSessionConfig `toml:"redis"`
}

// RedisSessionConfig holds Redis connection parameters for the session
// repository.
type RedisSessionConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// PostgresConfig holds the optional activity-log database. An empty DSN
// disables the activity log entirely.
type PostgresConfig struct {
	DSN      string `toml:"dsn"`
	MaxConns int    `toml:"max_conns"`
	MinConns int    `toml:"min_conns"`
}

// NotifyConfig holds operator alert channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		Telegram: TelegramConfig{
			PollTimeout: 60,
		},
		Chain: ChainConfig{
			TokenDecimals:  6,
			GasLimit:       500_000,
			ReceiptTimeout: duration{120 * time.Second},
		},
		Market: MarketConfig{
			MinDuration: duration{5 * time.Minute},
		},
		Session: SessionConfig{
			Backend: "memory",
			TTL:     duration{30 * time.Minute},
			Redis: RedisSessionConfig{
				Addr:       "localhost:6379",
				PoolSize:   10,
				MaxRetries: 3,
			},
		},
		Postgres: PostgresConfig{
			MaxConns: 5,
			MinConns: 1,
		},
		Notify: NotifyConfig{
			Events: []string{"market_created", "bet_placed", "market_resolved", "error"},
		},
		LogLevel: "info",
	}
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validSessionBackends enumerates the accepted session repository backends.
var validSessionBackends = map[string]bool{
	"memory": true,
	"redis":  true,
}

// Validate checks Config for missing or malformed values and returns a
// combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if c.Telegram.Token == "" {
		errs = append(errs, "telegram: token must not be empty")
	}
	if c.Telegram.PollTimeout <= 0 {
		errs = append(errs, "telegram: poll_timeout must be > 0")
	}

	if c.Chain.RPCURL == "" {
		errs = append(errs, "chain: rpc_url must not be empty")
	}
	if c.Chain.PrivateKey == "" {
		errs = append(errs, "chain: private_key must not be empty")
	}
	for _, addr := range []struct{ name, value string }{
		{"contract_address", c.Chain.ContractAddress},
		{"token_address", c.Chain.TokenAddress},
		{"resolver_address", c.Chain.ResolverAddress},
	} {
		if addr.value == "" {
			errs = append(errs, fmt.Sprintf("chain: %s must not be empty", addr.name))
			continue
		}
		if !strings.HasPrefix(addr.value, "0x") {
			errs = append(errs, fmt.Sprintf("chain: %s must start with 0x", addr.name))
		}
	}
	if c.Chain.TokenDecimals < 0 || c.Chain.TokenDecimals > 18 {
		errs = append(errs, fmt.Sprintf("chain: token_decimals must be 0-18, got %d", c.Chain.TokenDecimals))
	}
	if c.Chain.GasLimit == 0 {
		errs = append(errs, "chain: gas_limit must be > 0")
	}
	if c.Chain.ReceiptTimeout.Duration <= 0 {
		errs = append(errs, "chain: receipt_timeout must be > 0")
	}

	if c.Market.MinDuration.Duration <= 0 {
		errs = append(errs, "market: min_duration must be > 0")
	}

	if !validSessionBackends[strings.ToLower(c.Session.Backend)] {
		errs = append(errs, fmt.Sprintf("session: unknown backend %q (valid: memory, redis)", c.Session.Backend))
	}
	if c.Session.TTL.Duration <= 0 {
		errs = append(errs, "session: ttl must be > 0")
	}
	if strings.ToLower(c.Session.Backend) == "redis" {
		if c.Session.Redis.Addr == "" {
			errs = append(errs, "session: redis.addr must not be empty for the redis backend")
		}
		if c.Session.Redis.PoolSize < 1 {
			errs = append(errs, "session: redis.pool_size must be >= 1")
		}
	}

	if c.Postgres.DSN != "" {
		if c.Postgres.MaxConns < 1 {
			errs = append(errs, "postgres: max_conns must be >= 1")
		}
		if c.Postgres.MinConns < 0 || c.Postgres.MinConns > c.Postgres.MaxConns {
			errs = append(errs, "postgres: min_conns must be 0..max_conns")
		}
	}

	// Notify telegram fields must be set together or not at all.
	nt := c.Notify.TelegramToken != ""
	nc := c.Notify.TelegramChatID != ""
	if nt != nc {
		errs = append(errs, "notify: telegram_token and telegram_chat_id must be set together")
	}

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
