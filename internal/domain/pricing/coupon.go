package pricing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// CouponKind discriminates how a coupon's value is interpreted
type CouponKind string

const (
	// CouponKindPercentage discounts a percentage of the subtotal
	CouponKindPercentage CouponKind = "percentage"
	// CouponKindFlat discounts a fixed amount
	CouponKindFlat CouponKind = "flat"
)

// Coupon is a named discount code with an expiration date.
// Value holds a percentage in [0,100] for percentage coupons and a
// monetary amount for flat coupons.
type Coupon struct {
	shared.BaseAggregateRoot
	Code      string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Kind      CouponKind      `gorm:"type:varchar(20);not null;default:'percentage'"`
	Value     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ExpiresAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Coupon) TableName() string {
	return "coupons"
}

// NewPercentageCoupon creates a coupon that discounts a percentage of
// the subtotal
func NewPercentageCoupon(code string, percentage decimal.Decimal, expiresAt time.Time) (*Coupon, error) {
	if err := validateCouponCode(code); err != nil {
		return nil, err
	}
	if percentage.IsNegative() || percentage.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount percentage must be between 0 and 100")
	}

	return &Coupon{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.TrimSpace(code),
		Kind:              CouponKindPercentage,
		Value:             percentage,
		ExpiresAt:         expiresAt,
	}, nil
}

// NewFlatCoupon creates a coupon that discounts a fixed amount
func NewFlatCoupon(code string, amount valueobject.Money, expiresAt time.Time) (*Coupon, error) {
	if err := validateCouponCode(code); err != nil {
		return nil, err
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount amount cannot be negative")
	}

	return &Coupon{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.TrimSpace(code),
		Kind:              CouponKindFlat,
		Value:             amount.Amount(),
		ExpiresAt:         expiresAt,
	}, nil
}

// IsExpired returns true if the coupon has passed its expiration date
func (c *Coupon) IsExpired(now time.Time) bool {
	return c.ExpiresAt.Before(now)
}

// Discount returns the discount this coupon grants on a subtotal.
// Flat discounts are capped at the subtotal itself.
func (c *Coupon) Discount(subtotal valueobject.Money) valueobject.Money {
	switch c.Kind {
	case CouponKindFlat:
		flat := valueobject.NewMoneyUSD(c.Value)
		if gt, _ := flat.GreaterThan(subtotal); gt {
			return subtotal
		}
		return flat
	default:
		return subtotal.CalculatePercentage(c.Value)
	}
}

func validateCouponCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Coupon code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Coupon code cannot exceed 50 characters")
	}
	return nil
}
