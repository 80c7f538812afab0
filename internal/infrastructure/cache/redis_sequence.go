package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/swissbill/backend/internal/domain/document"
)

const (
	defaultSequencePrefix = "docnum:seq:"
	defaultRegistryPrefix = "docnum:reserved:"

	// SequenceTTL keeps a monthly counter alive slightly past its period
	SequenceTTL = 40 * 24 * time.Hour
)

// redisCounter is the subset of the Redis client used by the sequence and
// registry. *redis.Client satisfies it.
type redisCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RedisSequence hands out per-key sequential suffixes using INCR.
// Keys carry the period, so counters restart every month.
type RedisSequence struct {
	client    redisCounter
	keyPrefix string
	ttl       time.Duration
}

// NewRedisSequence creates a sequence backed by client
func NewRedisSequence(client redisCounter, keyPrefix string) *RedisSequence {
	if keyPrefix == "" {
		keyPrefix = defaultSequencePrefix
	}
	return &RedisSequence{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       SequenceTTL,
	}
}

// Next implements document.Sequence
func (s *RedisSequence) Next(ctx context.Context, key string) (int64, error) {
	fullKey := s.keyPrefix + key
	n, err := s.client.Incr(ctx, fullKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment sequence %s: %w", key, err)
	}
	// The first increment creates the key; give it an expiry then.
	if n == 1 {
		if err := s.client.Expire(ctx, fullKey, s.ttl).Err(); err != nil {
			return 0, fmt.Errorf("failed to set sequence expiry %s: %w", key, err)
		}
	}
	return n, nil
}

// Close releases the underlying client
func (s *RedisSequence) Close() error {
	return s.client.Close()
}

// RedisNumberRegistry records issued numbers with SETNX
type RedisNumberRegistry struct {
	client    redisCounter
	keyPrefix string
	ttl       time.Duration
}

// NewRedisNumberRegistry creates a registry backed by client. A zero ttl
// keeps reservations forever.
func NewRedisNumberRegistry(client redisCounter, keyPrefix string, ttl time.Duration) *RedisNumberRegistry {
	if keyPrefix == "" {
		keyPrefix = defaultRegistryPrefix
	}
	return &RedisNumberRegistry{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Reserve implements document.NumberRegistry
func (r *RedisNumberRegistry) Reserve(ctx context.Context, account, number string) error {
	key := registryKey(r.keyPrefix, account, number)
	ok, err := r.client.SetNX(ctx, key, "1", r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to reserve document number %s: %w", number, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", document.ErrDuplicateDocumentNumber, number)
	}
	return nil
}

func registryKey(prefix, account, number string) string {
	if account == "" {
		account = "default"
	}
	return prefix + account + ":" + number
}

var (
	_ document.Sequence       = (*RedisSequence)(nil)
	_ document.NumberRegistry = (*RedisNumberRegistry)(nil)
)
