package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Product represents an item offered in the storefront catalog.
// It is the aggregate root for catalog operations; Stock on this record
// is the single source of truth the cart clamps against.
type Product struct {
	shared.BaseAggregateRoot
	Name               string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description        string          `gorm:"type:text"`
	Price              decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Stock              int             `gorm:"not null;default:1"`
	ImageURL           string          `gorm:"type:varchar(500)"`
	Category           string          `gorm:"type:varchar(100);index"`
	PromotionCode      string          `gorm:"type:varchar(50)"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	CreatedBy          *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new catalog product
func NewProduct(name, description string, price valueobject.Money, stock int) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if price.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	return &Product{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		Name:               name,
		Description:        description,
		Price:              price.Amount(),
		Stock:              stock,
		DiscountPercentage: decimal.Zero,
	}, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.Touch()

	return nil
}

// SetPrice updates the selling price
func (p *Product) SetPrice(price valueobject.Money) error {
	if price.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	p.Price = price.Amount()
	p.Touch()

	return nil
}

// SetStock replaces the available stock count
func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	p.Stock = stock
	p.Touch()

	return nil
}

// SetCategory assigns the product to a category
func (p *Product) SetCategory(category string) error {
	if len(category) > 100 {
		return shared.NewDomainError("INVALID_CATEGORY", "Category cannot exceed 100 characters")
	}

	p.Category = category
	p.Touch()

	return nil
}

// SetImageURL sets the product image location
func (p *Product) SetImageURL(url string) error {
	if len(url) > 500 {
		return shared.NewDomainError("INVALID_IMAGE_URL", "Image URL cannot exceed 500 characters")
	}

	p.ImageURL = url
	p.Touch()

	return nil
}

// SetPromotion attaches a promotion code with a percentage discount
func (p *Product) SetPromotion(code string, discountPercentage decimal.Decimal) error {
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_PROMOTION", "Promotion code cannot exceed 50 characters")
	}
	if discountPercentage.IsNegative() || discountPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_PROMOTION", "Discount percentage must be between 0 and 100")
	}

	p.PromotionCode = code
	p.DiscountPercentage = discountPercentage
	p.Touch()

	return nil
}

// ClearPromotion removes any promotion from the product
func (p *Product) ClearPromotion() {
	p.PromotionCode = ""
	p.DiscountPercentage = decimal.Zero
	p.Touch()
}

// IsInStock returns true if at least one unit is available
func (p *Product) IsInStock() bool {
	return p.Stock > 0
}

// ClampQuantity caps a requested quantity at the available stock.
// A non-positive request clamps to zero.
func (p *Product) ClampQuantity(requested int) int {
	if requested <= 0 {
		return 0
	}
	if requested > p.Stock {
		return p.Stock
	}
	return requested
}

// GetPriceMoney returns the price as a Money value object
func (p *Product) GetPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.Price)
}

// GetEffectivePriceMoney returns the price after the product's own
// promotion discount, if any
func (p *Product) GetEffectivePriceMoney() valueobject.Money {
	if p.DiscountPercentage.IsZero() {
		return p.GetPriceMoney()
	}
	return p.GetPriceMoney().ApplyDiscount(p.DiscountPercentage)
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if len(name) < 2 {
		return shared.NewDomainError("INVALID_NAME", "Product name must be at least 2 characters")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 100 characters")
	}
	return nil
}
