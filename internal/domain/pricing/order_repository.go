package pricing

import (
	"context"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByUserID finds all orders placed by a user
	FindByUserID(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Order, error)

	// Save creates or updates an order with its lines
	Save(ctx context.Context, order *Order) error

	// CountByUserID counts orders placed by a user
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}
