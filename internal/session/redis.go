package session

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/escalate-labs/escalatebot/internal/domain"
)

// RedisConfig holds connection parameters for the Redis session backend.
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	PoolSize   int
	MaxRetries int
	TLSEnabled bool
	TTL        time.Duration
}

// RedisStore keeps sessions as JSON values with a per-key TTL, so stale
// wizard state expires without a janitor.
//
// Key schema:
//
//	session:{userID} - JSON-serialized domain.Session
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore connects to Redis, pings it to verify connectivity, and
// returns the store.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	opts := &redis.Options{
		Addr:       cfg.Addr,
		Password:   cfg.Password,
		DB:         cfg.DB,
		PoolSize:   cfg.PoolSize,
		MaxRetries: cfg.MaxRetries,
	}
	if cfg.TLSEnabled {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("session: redis ping: %w", err)
	}

	return &RedisStore{rdb: rdb, ttl: cfg.TTL}, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func sessionKey(userID int64) string {
	return "session:" + strconv.FormatInt(userID, 10)
}

// Get returns the user's session, or a fresh idle one when the key is
// missing or unreadable.
func (s *RedisStore) Get(ctx context.Context, userID int64) (domain.Session, error) {
	data, err := s.rdb.Get(ctx, sessionKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Session{UserID: userID}, nil
		}
		return domain.Session{}, fmt.Errorf("session: get %d: %w", userID, err)
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return domain.Session{}, fmt.Errorf("session: unmarshal %d: %w", userID, err)
	}
	return sess, nil
}

// Put stores the session with the configured TTL.
func (s *RedisStore) Put(ctx context.Context, sess domain.Session) error {
	sess.UpdatedAt = time.Now()
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: marshal %d: %w", sess.UserID, err)
	}
	if err := s.rdb.Set(ctx, sessionKey(sess.UserID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("session: put %d: %w", sess.UserID, err)
	}
	return nil
}

// Clear removes the user's session.
func (s *RedisStore) Clear(ctx context.Context, userID int64) error {
	if err := s.rdb.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("session: clear %d: %w", userID, err)
	}
	return nil
}

var _ domain.SessionStore = (*RedisStore)(nil)
