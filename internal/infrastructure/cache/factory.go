package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/swissbill/backend/internal/domain/document"
	"github.com/swissbill/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Sequence backends selectable through billing.number_sequence
const (
	SequenceRedis  = "redis"
	SequenceMemory = "memory"
	SequenceRandom = "random"
)

// NumberStore bundles the suffix source and the reservation registry used
// by the document number generator
type NumberStore struct {
	Sequence document.Sequence
	Registry document.NumberRegistry
	Backend  string
	pinger   func(ctx context.Context) error
	closer   func() error
}

// Ping checks the backend connection. In-memory stores are always healthy.
func (s *NumberStore) Ping(ctx context.Context) error {
	if s == nil || s.pinger == nil {
		return nil
	}
	return s.pinger(ctx)
}

// Close releases backend connections. Safe on in-memory stores.
func (s *NumberStore) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer()
}

// NumberStoreFactory creates number stores based on configuration
type NumberStoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	reservationTTL        time.Duration
	connect               func(RedisConfig) (redisCounter, error)
}

// NumberStoreFactoryOption is a functional option for configuring the factory
type NumberStoreFactoryOption func(*NumberStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) NumberStoreFactoryOption {
	return func(f *NumberStoreFactory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory stores when Redis is unavailable
// Default is true (allow fallback)
func WithInMemoryFallback(allow bool) NumberStoreFactoryOption {
	return func(f *NumberStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// WithReservationTTL sets how long Redis keeps number reservations
func WithReservationTTL(ttl time.Duration) NumberStoreFactoryOption {
	return func(f *NumberStoreFactory) {
		f.reservationTTL = ttl
	}
}

// NewNumberStoreFactory creates a new factory
func NewNumberStoreFactory(cfg config.RedisConfig, opts ...NumberStoreFactoryOption) *NumberStoreFactory {
	f := &NumberStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		connect: func(c RedisConfig) (redisCounter, error) {
			client, err := NewRedisClient(c)
			if err != nil {
				return nil, err
			}
			return client, nil
		},
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisStore creates a Redis-backed sequence and registry sharing one client
func (f *NumberStoreFactory) CreateRedisStore() (*NumberStore, error) {
	client, err := f.connect(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis number store: %w", err)
	}

	return &NumberStore{
		Sequence: NewRedisSequence(client, ""),
		Registry: NewRedisNumberRegistry(client, "", f.reservationTTL),
		Backend:  SequenceRedis,
		pinger:   func(ctx context.Context) error { return client.Ping(ctx).Err() },
		closer:   client.Close,
	}, nil
}

// CreateInMemoryStore creates process-local stores.
// WARNING: In-memory stores do not share state across process instances,
// so two instances can issue the same number
func (f *NumberStoreFactory) CreateInMemoryStore() *NumberStore {
	return &NumberStore{
		Sequence: NewInMemorySequence(),
		Registry: NewInMemoryNumberRegistry(),
		Backend:  SequenceMemory,
	}
}

// CreateRandomStore draws random suffixes and resolves collisions through
// an in-memory registry
func (f *NumberStoreFactory) CreateRandomStore() *NumberStore {
	return &NumberStore{
		Sequence: document.RandomSequence{},
		Registry: NewInMemoryNumberRegistry(),
		Backend:  SequenceRandom,
	}
}

// CreateStore creates the store named by backend. For redis it falls back
// to in-memory if Redis is not available and fallback is allowed.
func (f *NumberStoreFactory) CreateStore(backend string) (*NumberStore, error) {
	switch backend {
	case SequenceMemory:
		f.logger.Info("using in-memory document number store")
		return f.CreateInMemoryStore(), nil
	case SequenceRandom, "":
		f.logger.Info("using random document number suffixes")
		return f.CreateRandomStore(), nil
	case SequenceRedis:
	default:
		return nil, fmt.Errorf("unknown number sequence backend %q", backend)
	}

	store, err := f.CreateRedisStore()
	if err == nil {
		f.logger.Info("using Redis document number store")
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for document numbers but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory document number store. "+
		"Numbers may collide across instances.",
		zap.Error(err),
	)
	return f.CreateInMemoryStore(), nil
}
