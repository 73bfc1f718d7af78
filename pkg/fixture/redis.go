package fixture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisClient is the subset of redis.UniversalClient the sink uses.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisConfig configures the Redis sink.
type RedisConfig struct {
	// Addr is the Redis server address (default: "localhost:6379").
	Addr string

	// Addrs is a list of addresses for cluster mode.
	Addrs []string

	// Password for authentication.
	Password string

	// DB is the database number (ignored in cluster mode).
	DB int

	// KeyPrefix is prepended to all keys (default: "mqtt:fixture:").
	KeyPrefix string

	// Expiration is the TTL of stored keys. Zero keeps them forever.
	Expiration time.Duration

	// Client allows providing a pre-configured Redis client.
	// If set, Addr/Addrs/Password/DB are ignored.
	Client redis.UniversalClient

	// Logger for logging. If nil, uses slog.Default().
	Logger *slog.Logger
}

// RedisSink stores fixtures as Redis string keys.
type RedisSink struct {
	client     redisClient
	keyPrefix  string
	expiration time.Duration
	log        *slog.Logger
}

// NewRedisSink creates a sink backed by Redis. It does not connect until
// the first command; call Ping to check the server up front.
func NewRedisSink(cfg *RedisConfig) *RedisSink {
	if cfg == nil {
		cfg = &RedisConfig{}
	}
	if cfg.Addr == "" && len(cfg.Addrs) == 0 {
		cfg.Addr = "localhost:6379"
	}

	var client redis.UniversalClient
	if cfg.Client != nil {
		client = cfg.Client
	} else if len(cfg.Addrs) > 0 {
		client = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	}
	return newRedisSink(client, cfg)
}

func newRedisSink(client redisClient, cfg *RedisConfig) *RedisSink {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "mqtt:fixture:"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisSink{
		client:     client,
		keyPrefix:  prefix,
		expiration: cfg.Expiration,
		log:        logger,
	}
}

// Key returns the Redis key a fixture name is stored under.
func (s *RedisSink) Key(name string) string {
	return s.keyPrefix + name
}

// Ping checks the connection to the server.
func (s *RedisSink) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

// Put stores data under the prefixed key for name.
func (s *RedisSink) Put(ctx context.Context, name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}
	key := s.Key(name)
	if err := s.client.Set(ctx, key, data, s.expiration).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	s.log.Debug("fixture stored", "key", key, "bytes", len(data))
	return nil
}

// Get loads the bytes stored for name.
func (s *RedisSink) Get(ctx context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	key := s.Key(name)
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

// Close closes the underlying client.
func (s *RedisSink) Close() error {
	return s.client.Close()
}
