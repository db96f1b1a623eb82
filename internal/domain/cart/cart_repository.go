package cart

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository defines the interface for authenticated cart persistence
type CartRepository interface {
	// FindByID finds a cart by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Cart, error)

	// FindByUserID finds the cart owned by a user
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Cart, error)

	// Save persists the cart, replacing its stored lines atomically.
	// On failure the previously stored cart is left unchanged.
	Save(ctx context.Context, cart *Cart) error

	// Delete deletes a cart and its lines
	Delete(ctx context.Context, id uuid.UUID) error
}
