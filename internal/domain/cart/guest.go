package cart

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// GuestLine is a single entry in a guest cart snapshot. Quantities are
// whatever the client last wrote; they are clamped against live stock
// only when the snapshot is merged or priced.
type GuestLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// GuestCart is the cart of an anonymous visitor, keyed by an opaque
// session token and stored outside the relational database
type GuestCart struct {
	Token     string      `json:"token"`
	Lines     []GuestLine `json:"lines"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewGuestCart creates an empty guest cart for a session token
func NewGuestCart(token string) *GuestCart {
	return &GuestCart{
		Token:     token,
		Lines:     make([]GuestLine, 0),
		UpdatedAt: time.Now(),
	}
}

// Quantity returns the held quantity for a product, zero when absent
func (g *GuestCart) Quantity(productID uuid.UUID) int {
	for _, line := range g.Lines {
		if line.ProductID == productID {
			return line.Quantity
		}
	}
	return 0
}

// TotalQuantity returns the sum of all line quantities
func (g *GuestCart) TotalQuantity() int {
	total := 0
	for _, line := range g.Lines {
		total += line.Quantity
	}
	return total
}

// Add follows the same rules as Cart.Add: sum with the existing line,
// clamp to stock, reject when no stock is available at all.
// Returns the quantity now held.
func (g *GuestCart) Add(productID uuid.UUID, quantity, stock int) (int, error) {
	if productID == uuid.Nil {
		return 0, shared.NewDomainError("INVALID_PRODUCT_ID", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return 0, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if stock <= 0 {
		return 0, shared.NewDomainErrorf("INSUFFICIENT_STOCK", "Only %d items available in stock", 0)
	}

	return g.setQuantity(productID, g.Quantity(productID)+quantity, stock), nil
}

// SetQuantity sets the absolute quantity for a product, clamped to the
// available stock. A resulting quantity of zero removes the line.
func (g *GuestCart) SetQuantity(productID uuid.UUID, quantity, stock int) (int, error) {
	if productID == uuid.Nil {
		return 0, shared.NewDomainError("INVALID_PRODUCT_ID", "Product ID cannot be empty")
	}

	return g.setQuantity(productID, quantity, stock), nil
}

func (g *GuestCart) setQuantity(productID uuid.UUID, quantity, stock int) int {
	applied := ClampQuantity(quantity, stock)
	if applied == 0 {
		g.removeLine(productID)
		g.UpdatedAt = time.Now()
		return 0
	}

	updated := false
	for i := range g.Lines {
		if g.Lines[i].ProductID == productID {
			g.Lines[i].Quantity = applied
			updated = true
			break
		}
	}
	if !updated {
		g.Lines = append(g.Lines, GuestLine{ProductID: productID, Quantity: applied})
	}

	g.UpdatedAt = time.Now()
	return applied
}

// Remove removes the line for a product
func (g *GuestCart) Remove(productID uuid.UUID) error {
	if !g.removeLine(productID) {
		return shared.NewDomainError("NOT_FOUND", "Product is not in the cart")
	}

	g.UpdatedAt = time.Now()
	return nil
}

func (g *GuestCart) removeLine(productID uuid.UUID) bool {
	for i := range g.Lines {
		if g.Lines[i].ProductID == productID {
			g.Lines = append(g.Lines[:i], g.Lines[i+1:]...)
			return true
		}
	}
	return false
}

// GuestCartStore persists guest cart snapshots keyed by session token.
// Implementations are expected to expire entries after a configured TTL.
type GuestCartStore interface {
	// Get returns the guest cart for a token, shared.ErrNotFound when absent
	Get(ctx context.Context, token string) (*GuestCart, error)

	// Put stores the guest cart, refreshing its TTL
	Put(ctx context.Context, guestCart *GuestCart) error

	// Delete removes the guest cart for a token; absent is not an error
	Delete(ctx context.Context, token string) error
}

// NormalizeGuestLines collapses duplicate product entries by summing
// their quantities and drops non-positive lines. First-seen order is
// preserved.
func NormalizeGuestLines(lines []GuestLine) []GuestLine {
	index := make(map[uuid.UUID]int, len(lines))
	normalized := make([]GuestLine, 0, len(lines))

	for _, line := range lines {
		if line.ProductID == uuid.Nil || line.Quantity <= 0 {
			continue
		}
		if i, ok := index[line.ProductID]; ok {
			normalized[i].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(normalized)
		normalized = append(normalized, line)
	}

	return normalized
}
