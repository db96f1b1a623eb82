package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// Cart is the server-persisted cart for an authenticated user.
// It is the aggregate root for cart operations; a user has at most one
// cart and product references are unique within it.
type Cart struct {
	shared.BaseAggregateRoot
	UserID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	Lines  []CartLine `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// CartLine is a single product entry in a cart
type CartLine struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CartID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_cart_product,priority:1"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_product,priority:2"`
	Quantity  int       `gorm:"not null"`
	AddedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// TableName returns the table name for GORM
func (CartLine) TableName() string {
	return "cart_lines"
}

// NewCart creates an empty cart for a user
func NewCart(userID uuid.UUID) (*Cart, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}

	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Lines:             make([]CartLine, 0),
	}, nil
}

// Line returns the line for a product, if present
func (c *Cart) Line(productID uuid.UUID) (*CartLine, bool) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return &c.Lines[i], true
		}
	}
	return nil, false
}

// Quantity returns the quantity held for a product, zero when absent
func (c *Cart) Quantity(productID uuid.UUID) int {
	if line, ok := c.Line(productID); ok {
		return line.Quantity
	}
	return 0
}

// IsEmpty returns true when the cart holds no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// TotalQuantity returns the sum of all line quantities
func (c *Cart) TotalQuantity() int {
	total := 0
	for i := range c.Lines {
		total += c.Lines[i].Quantity
	}
	return total
}

// ClampQuantity caps a requested quantity to the available stock.
// Negative requests clamp to zero.
func ClampQuantity(requested, stock int) int {
	if requested <= 0 || stock <= 0 {
		return 0
	}
	if requested > stock {
		return stock
	}
	return requested
}

// Add adds quantity of a product, summing with any existing line and
// clamping the result to the available stock. Adding when no stock is
// available is rejected so the caller can report it; a partially
// available request is clamped silently. Returns the quantity now held.
func (c *Cart) Add(productID uuid.UUID, quantity, stock int) (int, error) {
	if productID == uuid.Nil {
		return 0, shared.NewDomainError("INVALID_PRODUCT_ID", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return 0, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if stock <= 0 {
		return 0, shared.NewDomainErrorf("INSUFFICIENT_STOCK", "Only %d items available in stock", 0)
	}

	return c.setQuantity(productID, c.Quantity(productID)+quantity, stock), nil
}

// SetQuantity sets the absolute quantity for a product, clamped to the
// available stock. A resulting quantity of zero removes the line.
// Returns the quantity now held.
func (c *Cart) SetQuantity(productID uuid.UUID, quantity, stock int) (int, error) {
	if productID == uuid.Nil {
		return 0, shared.NewDomainError("INVALID_PRODUCT_ID", "Product ID cannot be empty")
	}

	return c.setQuantity(productID, quantity, stock), nil
}

func (c *Cart) setQuantity(productID uuid.UUID, quantity, stock int) int {
	applied := ClampQuantity(quantity, stock)
	if applied == 0 {
		c.removeLine(productID)
		c.Touch()
		return 0
	}

	if line, ok := c.Line(productID); ok {
		line.Quantity = applied
	} else {
		c.Lines = append(c.Lines, CartLine{
			ID:        uuid.New(),
			CartID:    c.ID,
			ProductID: productID,
			Quantity:  applied,
			AddedAt:   time.Now(),
		})
	}

	c.Touch()
	return applied
}

// Remove removes the line for a product
func (c *Cart) Remove(productID uuid.UUID) error {
	if !c.removeLine(productID) {
		return shared.NewDomainError("NOT_FOUND", "Product is not in the cart")
	}

	c.Touch()
	return nil
}

// Clear removes every line from the cart
func (c *Cart) Clear() {
	c.Lines = make([]CartLine, 0)
	c.Touch()
}

// Prune drops lines whose product no longer exists. Returns true when
// any line was removed.
func (c *Cart) Prune(exists func(productID uuid.UUID) bool) bool {
	kept := make([]CartLine, 0, len(c.Lines))
	for _, line := range c.Lines {
		if exists(line.ProductID) {
			kept = append(kept, line)
		}
	}
	if len(kept) == len(c.Lines) {
		return false
	}

	c.Lines = kept
	c.Touch()
	return true
}

// Merge reconciles a guest cart snapshot into this cart. Guest lines
// for the same product sum with the existing line and clamp to current
// stock; lines whose product has vanished from the stocks map are
// skipped. Merging an empty snapshot leaves the cart unchanged.
func (c *Cart) Merge(guestLines []GuestLine, stocks map[uuid.UUID]int) {
	for _, gl := range NormalizeGuestLines(guestLines) {
		stock, ok := stocks[gl.ProductID]
		if !ok {
			continue
		}
		c.setQuantity(gl.ProductID, c.Quantity(gl.ProductID)+gl.Quantity, stock)
	}
}

func (c *Cart) removeLine(productID uuid.UUID) bool {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return true
		}
	}
	return false
}
