// Package cache keeps short-lived copies of validated sessions in Redis so
// the auth middleware does not hit Postgres on every request.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"careops/pkg/utils"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const sessionPrefix = "session:"

// NewRedisClient connects and pings once. Callers treat an error as "run
// without cache".
func NewRedisClient(cfg utils.RedisConfig, logger *zap.Logger) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	logger.Info("Redis connected", zap.String("addr", cfg.Addr))
	return rdb, nil
}

type SessionCache struct {
	rdb *goredis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewSessionCache(rdb *goredis.Client, ttl time.Duration, log *zap.Logger) *SessionCache {
	return &SessionCache{
		rdb: rdb,
		ttl: ttl,
		log: log.With(zap.String("cache", "session")),
	}
}

// Get returns (nil, nil) on a cache miss.
func (c *SessionCache) Get(ctx context.Context, token string) (*utils.Session, error) {
	raw, err := c.rdb.Get(ctx, sessionPrefix+token).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached session: %w", err)
	}

	var s utils.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		c.log.Warn("Dropping undecodable cached session", zap.Error(err))
		c.rdb.Del(ctx, sessionPrefix+token)
		return nil, nil
	}
	s.Token = token
	return &s, nil
}

// Set caches s for the configured TTL, or until expiresAt when that is
// sooner.
func (c *SessionCache) Set(ctx context.Context, s *utils.Session, expiresAt time.Time) error {
	ttl := c.ttl
	if left := time.Until(expiresAt); left < ttl {
		ttl = left
	}
	if ttl <= 0 {
		return nil
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := c.rdb.Set(ctx, sessionPrefix+s.Token, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache session: %w", err)
	}
	return nil
}

func (c *SessionCache) Delete(ctx context.Context, token string) error {
	return c.rdb.Del(ctx, sessionPrefix+token).Err()
}
