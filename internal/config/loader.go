package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies ESCALATE_* environment variable overrides, and
// returns the final Config. A missing file is not an error: the bot can run
// entirely from environment variables. The returned Config has NOT been
// validated; the caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known ESCALATE_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── Telegram ──
	setStr(&cfg.Telegram.Token, "ESCALATE_TELEGRAM_TOKEN")
	setStr(&cfg.Telegram.Token, "TELEGRAM_BOT_TOKEN") // compatibility alias
	setInt(&cfg.Telegram.PollTimeout, "ESCALATE_TELEGRAM_POLL_TIMEOUT")

	// ── Chain ──
	setStr(&cfg.Chain.RPCURL, "ESCALATE_CHAIN_RPC_URL")
	setStr(&cfg.Chain.PrivateKey, "ESCALATE_CHAIN_PRIVATE_KEY")
	setStr(&cfg.Chain.ContractAddress, "ESCALATE_CHAIN_CONTRACT_ADDRESS")
	setStr(&cfg.Chain.TokenAddress, "ESCALATE_CHAIN_TOKEN_ADDRESS")
	setStr(&cfg.Chain.ResolverAddress, "ESCALATE_CHAIN_RESOLVER_ADDRESS")
	setInt(&cfg.Chain.TokenDecimals, "ESCALATE_CHAIN_TOKEN_DECIMALS")
	setUint64(&cfg.Chain.GasLimit, "ESCALATE_CHAIN_GAS_LIMIT")
	setDuration(&cfg.Chain.ReceiptTimeout, "ESCALATE_CHAIN_RECEIPT_TIMEOUT")

	// ── Market ──
	setDuration(&cfg.Market.MinDuration, "ESCALATE_MARKET_MIN_DURATION")

	// ── Session ──
	setStr(&cfg.Session.Backend, "ESCALATE_SESSION_BACKEND")
	setDuration(&cfg.Session.TTL, "ESCALATE_SESSION_TTL")
	setStr(&cfg.Session.Redis.Addr, "ESCALATE_SESSION_REDIS_ADDR")
	setStr(&cfg.Session.Redis.Password, "ESCALATE_SESSION_REDIS_PASSWORD")
	setInt(&cfg.Session.Redis.DB, "ESCALATE_SESSION_REDIS_DB")
	setInt(&cfg.Session.Redis.PoolSize, "ESCALATE_SESSION_REDIS_POOL_SIZE")
	setInt(&cfg.Session.Redis.MaxRetries, "ESCALATE_SESSION_REDIS_MAX_RETRIES")
	setBool(&cfg.Session.Redis.TLSEnabled, "ESCALATE_SESSION_REDIS_TLS_ENABLED")

	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "ESCALATE_POSTGRES_DSN")
	setInt(&cfg.Postgres.MaxConns, "ESCALATE_POSTGRES_MAX_CONNS")
	setInt(&cfg.Postgres.MinConns, "ESCALATE_POSTGRES_MIN_CONNS")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "ESCALATE_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "ESCALATE_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "ESCALATE_NOTIFY_DISCORD_WEBHOOK_URL")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "ESCALATE_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setUint64(dst *uint64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}
