package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
)

// Order is a placed order with a snapshot of the priced cart. Line
// prices are copied at placement time so later catalog edits do not
// rewrite order history.
type Order struct {
	shared.BaseAggregateRoot
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Lines       []OrderLine     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CouponCode  string          `gorm:"type:varchar(50)"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Tax         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Discount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ShippingFee decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status      OrderStatus     `gorm:"type:varchar(20);not null;default:'pending'"`
	PlacedAt    time.Time       `gorm:"not null"`
}

// OrderLine is a priced product snapshot within an order
type OrderLine struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(100);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Quantity    int             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// TableName returns the table name for GORM
func (OrderLine) TableName() string {
	return "order_lines"
}

// NewOrder creates an order from a priced quote
func NewOrder(userID uuid.UUID, quote Quote, couponCode string) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}
	if len(quote.Lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_CART", "Cannot place an order for an empty cart")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		CouponCode:        couponCode,
		Subtotal:          quote.Subtotal.Amount(),
		Tax:               quote.Tax.Amount(),
		Discount:          quote.Discount.Amount(),
		ShippingFee:       quote.ShippingFee.Amount(),
		Total:             quote.Total.Amount(),
		Status:            OrderStatusPending,
		PlacedAt:          time.Now(),
	}

	order.Lines = make([]OrderLine, 0, len(quote.Lines))
	for _, line := range quote.Lines {
		order.Lines = append(order.Lines, OrderLine{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   line.ProductID,
			ProductName: line.Name,
			UnitPrice:   line.UnitPrice.Amount(),
			Quantity:    line.Quantity,
		})
	}

	return order, nil
}

// MarkPaid transitions the order to paid
func (o *Order) MarkPaid() error {
	if o.Status == OrderStatusPaid {
		return shared.NewDomainError("ALREADY_PAID", "Order is already paid")
	}

	o.Status = OrderStatusPaid
	o.Touch()

	return nil
}
