package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/learnhub-backend/internal/platform/envutil"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

// Cache is a JSON read-through cache partitioned by namespace. Invalidate
// drops every key of a namespace at once by bumping its version.
type Cache interface {
	GetJSON(ctx context.Context, namespace, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, namespace, key string, val any) error
	Invalidate(ctx context.Context, namespace string) error
	Close() error
}

type CacheConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Timeout  time.Duration
	Prefix   string
}

func CacheConfigFromEnv() CacheConfig {
	return CacheConfig{
		Addr:     envutil.String("REDIS_ADDR", ""),
		Password: envutil.String("REDIS_PASSWORD", ""),
		DB:       envutil.Int("REDIS_DB", 0),
		TTL:      envutil.Seconds("CACHE_TTL_SECONDS", 60*time.Second),
		Timeout:  2 * time.Second,
		Prefix:   envutil.String("CACHE_KEY_PREFIX", "learnhub"),
	}
}

type redisCache struct {
	log    *logger.Logger
	client *goredis.Client
	cfg    CacheConfig
}

// NewCacheFromEnv returns a redis-backed cache, or a no-op cache when
// REDIS_ADDR is unset.
func NewCacheFromEnv(log *logger.Logger) (Cache, error) {
	cfg := CacheConfigFromEnv()
	if cfg.Addr == "" {
		log.Info("REDIS_ADDR not set; catalog cache disabled")
		return NewNop(), nil
	}
	return NewCache(log, cfg)
}

func NewCache(log *logger.Logger, cfg CacheConfig) (Cache, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 60 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "learnhub"
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &redisCache{
		log:    log.With("service", "RedisCache"),
		client: client,
		cfg:    cfg,
	}, nil
}

func (c *redisCache) versionKey(namespace string) string {
	return c.cfg.Prefix + ":v:" + namespace
}

func (c *redisCache) version(ctx context.Context, namespace string) (int64, error) {
	v, err := c.client.Get(ctx, c.versionKey(namespace)).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *redisCache) dataKey(ctx context.Context, namespace, key string) (string, error) {
	v, err := c.version(ctx, namespace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s:%d:%s", c.cfg.Prefix, namespace, v, key), nil
}

func (c *redisCache) GetJSON(ctx context.Context, namespace, key string, dst any) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()
	k, err := c.dataKey(ctx, namespace, key)
	if err != nil {
		return false, err
	}
	raw, err := c.client.Get(ctx, k).Bytes()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warn("cache entry undecodable; ignoring", "key", k, "error", err)
		return false, nil
	}
	return true, nil
}

func (c *redisCache) SetJSON(ctx context.Context, namespace, key string, val any) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	k, err := c.dataKey(ctx, namespace, key)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, k, raw, c.cfg.TTL).Err()
}

func (c *redisCache) Invalidate(ctx context.Context, namespace string) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()
	return c.client.Incr(ctx, c.versionKey(namespace)).Err()
}

func (c *redisCache) Close() error {
	return c.client.Close()
}

type nopCache struct{}

// NewNop returns a cache that never hits.
func NewNop() Cache { return nopCache{} }

func (nopCache) GetJSON(context.Context, string, string, any) (bool, error) { return false, nil }
func (nopCache) SetJSON(context.Context, string, string, any) error         { return nil }
func (nopCache) Invalidate(context.Context, string) error                   { return nil }
func (nopCache) Close() error                                               { return nil }
