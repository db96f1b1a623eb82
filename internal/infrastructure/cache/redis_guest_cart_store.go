package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
)

// RedisGuestCartStore implements cart.GuestCartStore using Redis.
// Each guest cart is a JSON document keyed by its session token with a
// TTL; idle carts expire on their own.
type RedisGuestCartStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisGuestCartStore creates a new Redis-based guest cart store
func NewRedisGuestCartStore(cfg RedisConfig, ttl time.Duration) (*RedisGuestCartStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisGuestCartStoreWithClient(client, "", ttl), nil
}

// NewRedisGuestCartStoreWithClient creates a store with an existing
// Redis client. Useful for testing or sharing a client across components.
func NewRedisGuestCartStoreWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisGuestCartStore {
	if keyPrefix == "" {
		keyPrefix = "cart:guest:"
	}
	return &RedisGuestCartStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Get returns the guest cart for a token
func (s *RedisGuestCartStore) Get(ctx context.Context, token string) (*cart.GuestCart, error) {
	data, err := s.client.Get(ctx, s.keyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load guest cart: %w", err)
	}

	var guestCart cart.GuestCart
	if err := json.Unmarshal(data, &guestCart); err != nil {
		return nil, fmt.Errorf("failed to decode guest cart: %w", err)
	}

	return &guestCart, nil
}

// Put stores the guest cart, refreshing its TTL
func (s *RedisGuestCartStore) Put(ctx context.Context, guestCart *cart.GuestCart) error {
	data, err := json.Marshal(guestCart)
	if err != nil {
		return fmt.Errorf("failed to encode guest cart: %w", err)
	}

	if err := s.client.Set(ctx, s.keyPrefix+guestCart.Token, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store guest cart: %w", err)
	}

	return nil
}

// Delete removes the guest cart for a token
func (s *RedisGuestCartStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to delete guest cart: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisGuestCartStore) Close() error {
	return s.client.Close()
}

// Ensure RedisGuestCartStore implements cart.GuestCartStore
var _ cart.GuestCartStore = (*RedisGuestCartStore)(nil)
