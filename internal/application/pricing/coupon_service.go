package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// CouponService handles coupon verification and administration
type CouponService struct {
	couponRepo pricing.CouponRepository
	now        func() time.Time
}

// NewCouponService creates a new CouponService
func NewCouponService(couponRepo pricing.CouponRepository) *CouponService {
	return &CouponService{
		couponRepo: couponRepo,
		now:        time.Now,
	}
}

// Verify looks up a coupon by its exact code. An unknown code is a
// not-found error; a known but expired code is reported separately so
// the client can tell the two apart.
func (s *CouponService) Verify(ctx context.Context, code string) (*CouponResponse, error) {
	coupon, err := s.findValid(ctx, code)
	if err != nil {
		return nil, err
	}

	response := ToCouponResponse(coupon, s.now())
	return &response, nil
}

// Resolve returns the domain coupon for a code after the same checks as
// Verify. Used by checkout to apply the discount.
func (s *CouponService) Resolve(ctx context.Context, code string) (*pricing.Coupon, error) {
	return s.findValid(ctx, code)
}

// Create creates a new coupon
func (s *CouponService) Create(ctx context.Context, req CreateCouponRequest) (*CouponResponse, error) {
	exists, err := s.couponRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Coupon with this code already exists")
	}

	var coupon *pricing.Coupon
	switch pricing.CouponKind(req.Kind) {
	case pricing.CouponKindFlat:
		coupon, err = pricing.NewFlatCoupon(req.Code, valueobject.NewMoneyUSD(req.Value), req.ExpiresAt)
	case pricing.CouponKindPercentage:
		coupon, err = pricing.NewPercentageCoupon(req.Code, req.Value, req.ExpiresAt)
	default:
		return nil, shared.NewDomainError("INVALID_KIND", "Coupon kind must be 'percentage' or 'flat'")
	}
	if err != nil {
		return nil, err
	}

	if err := s.couponRepo.Save(ctx, coupon); err != nil {
		return nil, err
	}

	response := ToCouponResponse(coupon, s.now())
	return &response, nil
}

// List returns all coupons, newest first
func (s *CouponService) List(ctx context.Context, page, pageSize int) ([]CouponResponse, error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}

	coupons, err := s.couponRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := s.now()
	responses := make([]CouponResponse, 0, len(coupons))
	for i := range coupons {
		responses = append(responses, ToCouponResponse(&coupons[i], now))
	}
	return responses, nil
}

// Delete removes a coupon
func (s *CouponService) Delete(ctx context.Context, couponID uuid.UUID) error {
	return s.couponRepo.Delete(ctx, couponID)
}

func (s *CouponService) findValid(ctx context.Context, code string) (*pricing.Coupon, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Coupon code cannot be empty")
	}

	coupon, err := s.couponRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if coupon.IsExpired(s.now()) {
		return nil, shared.NewDomainError("EXPIRED", "Coupon has expired")
	}
	return coupon, nil
}
