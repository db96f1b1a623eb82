package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/pricing"
)

// CreateCouponRequest represents a request to create a coupon
type CreateCouponRequest struct {
	Code      string          `json:"code" binding:"required,max=50"`
	Kind      string          `json:"kind" binding:"required,oneof=percentage flat"`
	Value     decimal.Decimal `json:"value" binding:"required"`
	ExpiresAt time.Time       `json:"expires_at" binding:"required"`
}

// CouponResponse represents a coupon in API responses
type CouponResponse struct {
	ID        uuid.UUID       `json:"id"`
	Code      string          `json:"code"`
	Kind      string          `json:"kind"`
	Value     decimal.Decimal `json:"value"`
	ExpiresAt time.Time       `json:"expires_at"`
	Expired   bool            `json:"expired"`
}

// ToCouponResponse converts a domain coupon to a response DTO
func ToCouponResponse(c *pricing.Coupon, now time.Time) CouponResponse {
	return CouponResponse{
		ID:        c.ID,
		Code:      c.Code,
		Kind:      string(c.Kind),
		Value:     c.Value,
		ExpiresAt: c.ExpiresAt,
		Expired:   c.IsExpired(now),
	}
}

// QuoteRequest represents a request to price the caller's cart
type QuoteRequest struct {
	CouponCode string `json:"coupon_code"`
}

// QuoteLineResponse represents one priced line in a quote
type QuoteLineResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// QuoteResponse represents the priced breakdown of a cart
type QuoteResponse struct {
	Lines       []QuoteLineResponse `json:"lines"`
	Subtotal    decimal.Decimal     `json:"subtotal"`
	Tax         decimal.Decimal     `json:"tax"`
	Discount    decimal.Decimal     `json:"discount"`
	ShippingFee decimal.Decimal     `json:"shipping_fee"`
	Total       decimal.Decimal     `json:"total"`
	CouponCode  string              `json:"coupon_code,omitempty"`
}

// ToQuoteResponse converts a domain quote to a response DTO
func ToQuoteResponse(q pricing.Quote, couponCode string) *QuoteResponse {
	lines := make([]QuoteLineResponse, 0, len(q.Lines))
	for _, l := range q.Lines {
		lines = append(lines, QuoteLineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice.Amount(),
			Quantity:  l.Quantity,
			LineTotal: l.LineTotal().Amount(),
		})
	}
	return &QuoteResponse{
		Lines:       lines,
		Subtotal:    q.Subtotal.Amount(),
		Tax:         q.Tax.Amount(),
		Discount:    q.Discount.Amount(),
		ShippingFee: q.ShippingFee.Amount(),
		Total:       q.Total.Amount(),
		CouponCode:  couponCode,
	}
}

// PlaceOrderRequest represents a request to place an order
type PlaceOrderRequest struct {
	CouponCode string `json:"coupon_code"`
}

// OrderLineResponse represents a priced product snapshot in an order
type OrderLineResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

// OrderResponse represents a placed order in API responses
type OrderResponse struct {
	ID          uuid.UUID           `json:"id"`
	UserID      uuid.UUID           `json:"user_id"`
	Lines       []OrderLineResponse `json:"lines"`
	CouponCode  string              `json:"coupon_code,omitempty"`
	Subtotal    decimal.Decimal     `json:"subtotal"`
	Tax         decimal.Decimal     `json:"tax"`
	Discount    decimal.Decimal     `json:"discount"`
	ShippingFee decimal.Decimal     `json:"shipping_fee"`
	Total       decimal.Decimal     `json:"total"`
	Status      string              `json:"status"`
	PlacedAt    time.Time           `json:"placed_at"`
}

// ToOrderResponse converts a domain order to a response DTO
func ToOrderResponse(o *pricing.Order) OrderResponse {
	lines := make([]OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderLineResponse{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
		})
	}
	return OrderResponse{
		ID:          o.ID,
		UserID:      o.UserID,
		Lines:       lines,
		CouponCode:  o.CouponCode,
		Subtotal:    o.Subtotal,
		Tax:         o.Tax,
		Discount:    o.Discount,
		ShippingFee: o.ShippingFee,
		Total:       o.Total,
		Status:      string(o.Status),
		PlacedAt:    o.PlacedAt,
	}
}

// OrderListFilter represents pagination options for order history
type OrderListFilter struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}
