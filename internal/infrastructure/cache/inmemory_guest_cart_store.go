package cache

import (
	"context"
	"sync"
	"time"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
)

// InMemoryGuestCartStore implements cart.GuestCartStore in process
// memory. Suitable for single-instance deployments and tests; carts do
// not survive restarts and are not shared across instances.
type InMemoryGuestCartStore struct {
	mu  sync.RWMutex
	ttl time.Duration

	entries map[string]inMemoryEntry
}

type inMemoryEntry struct {
	guestCart cart.GuestCart
	expiresAt time.Time
}

// NewInMemoryGuestCartStore creates a new in-memory guest cart store
func NewInMemoryGuestCartStore(ttl time.Duration) *InMemoryGuestCartStore {
	return &InMemoryGuestCartStore{
		ttl:     ttl,
		entries: make(map[string]inMemoryEntry),
	}
}

// Get returns the guest cart for a token
func (s *InMemoryGuestCartStore) Get(_ context.Context, token string) (*cart.GuestCart, error) {
	s.mu.RLock()
	entry, ok := s.entries[token]
	s.mu.RUnlock()

	if !ok {
		return nil, shared.ErrNotFound
	}
	if time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, token)
		s.mu.Unlock()
		return nil, shared.ErrNotFound
	}

	// Copy so callers cannot mutate the stored snapshot
	copied := entry.guestCart
	copied.Lines = append([]cart.GuestLine(nil), entry.guestCart.Lines...)
	return &copied, nil
}

// Put stores the guest cart, refreshing its TTL
func (s *InMemoryGuestCartStore) Put(_ context.Context, guestCart *cart.GuestCart) error {
	stored := *guestCart
	stored.Lines = append([]cart.GuestLine(nil), guestCart.Lines...)

	s.mu.Lock()
	s.entries[guestCart.Token] = inMemoryEntry{
		guestCart: stored,
		expiresAt: time.Now().Add(s.ttl),
	}
	s.mu.Unlock()

	return nil
}

// Delete removes the guest cart for a token
func (s *InMemoryGuestCartStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.entries, token)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored carts, expired entries included
func (s *InMemoryGuestCartStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Ensure InMemoryGuestCartStore implements cart.GuestCartStore
var _ cart.GuestCartStore = (*InMemoryGuestCartStore)(nil)
