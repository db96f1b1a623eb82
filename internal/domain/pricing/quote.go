package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Pricing rules applied to every quote
var (
	// TaxRate is the flat tax applied to the subtotal
	TaxRate = decimal.NewFromFloat(0.10)
	// FreeShippingThreshold is the subtotal above which shipping is free.
	// Shipping is charged at exactly the threshold; only strictly greater
	// subtotals ship free.
	FreeShippingThreshold = decimal.NewFromInt(100)
	// FlatShippingFee is charged below the free-shipping threshold
	FlatShippingFee = decimal.NewFromInt(10)
)

// QuoteLine is a cart line annotated with the unit price it is charged at
type QuoteLine struct {
	ProductID uuid.UUID
	Name      string
	UnitPrice valueobject.Money
	Quantity  int
}

// LineTotal returns unit price times quantity
func (l QuoteLine) LineTotal() valueobject.Money {
	return l.UnitPrice.MultiplyByInt(int64(l.Quantity))
}

// Quote is the priced breakdown of a cart
type Quote struct {
	Lines       []QuoteLine
	Subtotal    valueobject.Money
	Tax         valueobject.Money
	Discount    valueobject.Money
	ShippingFee valueobject.Money
	Total       valueobject.Money
}

// PriceCart computes the quote for a set of lines and an optional
// coupon. It is a pure function; the same inputs always produce the
// same quote. The total never goes below zero.
func PriceCart(lines []QuoteLine, coupon *Coupon) Quote {
	subtotal := valueobject.ZeroUSD()
	for _, line := range lines {
		subtotal = subtotal.MustAdd(line.LineTotal())
	}

	tax := subtotal.Multiply(TaxRate).Round(2)

	shipping := valueobject.NewMoneyUSD(FlatShippingFee)
	if subtotal.Amount().GreaterThan(FreeShippingThreshold) {
		shipping = valueobject.ZeroUSD()
	}

	discount := valueobject.ZeroUSD()
	if coupon != nil {
		discount = coupon.Discount(subtotal).Round(2)
	}

	total := subtotal.MustAdd(tax).MustAdd(shipping).MustSubtract(discount)
	if total.IsNegative() {
		total = valueobject.ZeroUSD()
	}

	return Quote{
		Lines:       lines,
		Subtotal:    subtotal.Round(2),
		Tax:         tax,
		Discount:    discount,
		ShippingFee: shipping.Round(2),
		Total:       total.Round(2),
	}
}
