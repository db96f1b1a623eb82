package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// GuestCartStoreFactory creates guest cart stores based on configuration
type GuestCartStoreFactory struct {
	cartConfig  config.CartConfig
	redisConfig config.RedisConfig
	logger      *zap.Logger
}

// GuestCartStoreFactoryOption is a functional option for configuring the factory
type GuestCartStoreFactoryOption func(*GuestCartStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) GuestCartStoreFactoryOption {
	return func(f *GuestCartStoreFactory) {
		f.logger = logger
	}
}

// NewGuestCartStoreFactory creates a new factory
func NewGuestCartStoreFactory(cartCfg config.CartConfig, redisCfg config.RedisConfig, opts ...GuestCartStoreFactoryOption) *GuestCartStoreFactory {
	f := &GuestCartStoreFactory{
		cartConfig:  cartCfg,
		redisConfig: redisCfg,
		logger:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateStore creates the guest cart store selected by configuration
func (f *GuestCartStoreFactory) CreateStore() (cart.GuestCartStore, error) {
	switch f.cartConfig.GuestStore {
	case "redis":
		store, err := NewRedisGuestCartStore(RedisConfig{
			Host:     f.redisConfig.Host,
			Port:     f.redisConfig.Port,
			Password: f.redisConfig.Password,
			DB:       f.redisConfig.DB,
		}, f.cartConfig.GuestTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis guest cart store: %w", err)
		}
		f.logger.Info("using Redis guest cart store")
		return store, nil
	case "memory":
		f.logger.Warn("using in-memory guest cart store; guest carts will not survive restarts or be shared across instances")
		return NewInMemoryGuestCartStore(f.cartConfig.GuestTTL), nil
	default:
		return nil, fmt.Errorf("unknown guest cart store %q", f.cartConfig.GuestStore)
	}
}
