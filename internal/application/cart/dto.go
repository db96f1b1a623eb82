package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
)

// AddItemRequest represents a request to add a product to a cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// SetQuantityRequest represents a request to set a line's quantity.
// Zero removes the line.
type SetQuantityRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// MergeRequest carries the guest cart token to fold into the user's cart
type MergeRequest struct {
	GuestToken string `json:"guest_token" binding:"required"`
}

// CartLineResponse represents one cart line enriched with product data
type CartLineResponse struct {
	ProductID      uuid.UUID       `json:"product_id"`
	Name           string          `json:"name"`
	ImageURL       string          `json:"image_url,omitempty"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	EffectivePrice decimal.Decimal `json:"effective_price"`
	Quantity       int             `json:"quantity"`
	AvailableStock int             `json:"available_stock"`
	LineTotal      decimal.Decimal `json:"line_total"`
}

// CartResponse represents a cart in API responses
type CartResponse struct {
	ID            uuid.UUID          `json:"id"`
	UserID        uuid.UUID          `json:"user_id"`
	Lines         []CartLineResponse `json:"lines"`
	TotalQuantity int                `json:"total_quantity"`
}

// GuestCartResponse represents an anonymous cart in API responses
type GuestCartResponse struct {
	Token         string             `json:"token"`
	Lines         []CartLineResponse `json:"lines"`
	TotalQuantity int                `json:"total_quantity"`
}

func toLineResponse(productID uuid.UUID, quantity int, product *catalog.Product) CartLineResponse {
	line := CartLineResponse{
		ProductID: productID,
		Quantity:  quantity,
	}
	if product != nil {
		effective := product.GetEffectivePriceMoney().Amount()
		line.Name = product.Name
		line.ImageURL = product.ImageURL
		line.UnitPrice = product.Price
		line.EffectivePrice = effective
		line.AvailableStock = product.Stock
		line.LineTotal = effective.Mul(decimal.NewFromInt(int64(quantity)))
	}
	return line
}

func toCartResponse(c *cart.Cart, products map[uuid.UUID]*catalog.Product) *CartResponse {
	lines := make([]CartLineResponse, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, toLineResponse(l.ProductID, l.Quantity, products[l.ProductID]))
	}
	return &CartResponse{
		ID:            c.ID,
		UserID:        c.UserID,
		Lines:         lines,
		TotalQuantity: c.TotalQuantity(),
	}
}

func toGuestCartResponse(g *cart.GuestCart, products map[uuid.UUID]*catalog.Product) *GuestCartResponse {
	lines := make([]CartLineResponse, 0, len(g.Lines))
	total := 0
	for _, l := range g.Lines {
		lines = append(lines, toLineResponse(l.ProductID, l.Quantity, products[l.ProductID]))
		total += l.Quantity
	}
	return &GuestCartResponse{
		Token:         g.Token,
		Lines:         lines,
		TotalQuantity: total,
	}
}
