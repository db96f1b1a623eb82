package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
)

// CheckoutService prices carts and places orders. Payment is simulated
// with a configurable delay; there is no real payment gateway.
type CheckoutService struct {
	cartRepo     cart.CartRepository
	productRepo  catalog.ProductRepository
	orderRepo    pricing.OrderRepository
	coupons      *CouponService
	paymentDelay time.Duration
	logger       *zap.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	cartRepo cart.CartRepository,
	productRepo catalog.ProductRepository,
	orderRepo pricing.OrderRepository,
	coupons *CouponService,
	paymentDelay time.Duration,
	logger *zap.Logger,
) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{
		cartRepo:     cartRepo,
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		coupons:      coupons,
		paymentDelay: paymentDelay,
		logger:       logger,
	}
}

// Quote prices the user's current cart, optionally applying a coupon.
// Quantities are clamped against live stock before pricing so the quote
// reflects what checkout would actually charge.
func (s *CheckoutService) Quote(ctx context.Context, userID uuid.UUID, couponCode string) (*QuoteResponse, error) {
	lines, _, err := s.buildQuoteLines(ctx, userID)
	if err != nil {
		return nil, err
	}

	coupon, err := s.resolveCoupon(ctx, couponCode)
	if err != nil {
		return nil, err
	}

	quote := pricing.PriceCart(lines, coupon)
	return ToQuoteResponse(quote, couponCode), nil
}

// PlaceOrder prices the cart, simulates the payment call, persists the
// order, and clears the cart. The coupon is re-verified at placement
// time so an expired code cannot slip through a stale quote.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*OrderResponse, error) {
	lines, userCart, err := s.buildQuoteLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_CART", "Cannot place an order for an empty cart")
	}

	coupon, err := s.resolveCoupon(ctx, req.CouponCode)
	if err != nil {
		return nil, err
	}

	quote := pricing.PriceCart(lines, coupon)

	order, err := pricing.NewOrder(userID, quote, req.CouponCode)
	if err != nil {
		return nil, err
	}

	if err := s.simulatePayment(ctx); err != nil {
		return nil, err
	}
	if err := order.MarkPaid(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	userCart.Clear()
	if err := s.cartRepo.Save(ctx, userCart); err != nil {
		// The order is already placed; leaving the cart behind is
		// recoverable
		s.logger.Warn("failed to clear cart after checkout",
			zap.String("user_id", userID.String()),
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
	}

	s.logger.Info("order placed",
		zap.String("user_id", userID.String()),
		zap.String("order_id", order.ID.String()),
		zap.String("total", order.Total.StringFixed(2)))

	response := ToOrderResponse(order)
	return &response, nil
}

// GetOrder returns one of the user's orders
func (s *CheckoutService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, shared.ErrNotFound
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// ListOrders returns the user's order history, newest first
func (s *CheckoutService) ListOrders(ctx context.Context, userID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.OrderBy = "placed_at"
	domainFilter.OrderDir = "desc"

	orders, err := s.orderRepo.FindByUserID(ctx, userID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, ToOrderResponse(&orders[i]))
	}
	return responses, total, nil
}

// buildQuoteLines loads the user's cart and turns it into priced lines.
// Lines whose product vanished are dropped; quantities clamp to stock.
// The unit price charged is the product's effective price after any
// promotion.
func (s *CheckoutService) buildQuoteLines(ctx context.Context, userID uuid.UUID) ([]pricing.QuoteLine, *cart.Cart, error) {
	userCart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			empty, cerr := cart.NewCart(userID)
			if cerr != nil {
				return nil, nil, cerr
			}
			return nil, empty, nil
		}
		return nil, nil, err
	}

	if len(userCart.Lines) == 0 {
		return nil, userCart, nil
	}

	ids := make([]uuid.UUID, 0, len(userCart.Lines))
	for _, l := range userCart.Lines {
		ids = append(ids, l.ProductID)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	lines := make([]pricing.QuoteLine, 0, len(userCart.Lines))
	for _, l := range userCart.Lines {
		product, ok := byID[l.ProductID]
		if !ok {
			continue
		}
		quantity := product.ClampQuantity(l.Quantity)
		if quantity == 0 {
			continue
		}
		lines = append(lines, pricing.QuoteLine{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.GetEffectivePriceMoney(),
			Quantity:  quantity,
		})
	}

	return lines, userCart, nil
}

func (s *CheckoutService) resolveCoupon(ctx context.Context, code string) (*pricing.Coupon, error) {
	if code == "" {
		return nil, nil
	}
	return s.coupons.Resolve(ctx, code)
}

// simulatePayment stands in for a payment provider round trip. It
// respects context cancellation so a dropped request does not place an
// order.
func (s *CheckoutService) simulatePayment(ctx context.Context) error {
	if s.paymentDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(s.paymentDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
