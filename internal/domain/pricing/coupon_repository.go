package pricing

import (
	"context"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// CouponRepository defines the interface for coupon persistence
type CouponRepository interface {
	// FindByID finds a coupon by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Coupon, error)

	// FindByCode finds a coupon by exact code match (case-sensitive)
	FindByCode(ctx context.Context, code string) (*Coupon, error)

	// FindAll finds all coupons matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Coupon, error)

	// Save creates or updates a coupon
	Save(ctx context.Context, coupon *Coupon) error

	// Delete deletes a coupon
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByCode checks if a coupon with the given code exists
	ExistsByCode(ctx context.Context, code string) (bool, error)
}
