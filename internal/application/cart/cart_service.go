package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// CartService handles cart operations for authenticated users.
// Every quantity that enters a cart is clamped against the product's
// current stock before it is persisted.
type CartService struct {
	cartRepo    cart.CartRepository
	productRepo catalog.ProductRepository
	guestStore  cart.GuestCartStore
	logger      *zap.Logger
}

// NewCartService creates a new CartService
func NewCartService(
	cartRepo cart.CartRepository,
	productRepo catalog.ProductRepository,
	guestStore cart.GuestCartStore,
	logger *zap.Logger,
) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		guestStore:  guestStore,
		logger:      logger,
	}
}

// GetCart returns the user's cart, creating an empty one if none exists.
// Lines referencing products that no longer exist are dropped.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	c, err := s.loadOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	products, err := s.loadProducts(ctx, c)
	if err != nil {
		return nil, err
	}

	if c.Prune(func(productID uuid.UUID) bool {
		_, ok := products[productID]
		return ok
	}) {
		if err := s.cartRepo.Save(ctx, c); err != nil {
			return nil, err
		}
	}

	return toCartResponse(c, products), nil
}

// AddItem adds a product to the cart. The stored quantity is the sum of
// the existing line and the request, capped at available stock. Adding a
// product with zero stock fails.
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartResponse, error) {
	product, err := s.findProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	c, err := s.loadOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := c.Add(product.ID, req.Quantity, product.Stock); err != nil {
		return nil, err
	}

	return s.saveAndRespond(ctx, c)
}

// SetQuantity sets a line's quantity, clamped at available stock.
// Quantity zero removes the line.
func (s *CartService) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartResponse, error) {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	c, err := s.loadOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := c.SetQuantity(product.ID, quantity, product.Stock); err != nil {
		return nil, err
	}

	return s.saveAndRespond(ctx, c)
}

// IncrementItem raises a line's quantity by one, clamped at stock.
// Incrementing when the product has no stock left is rejected and the
// existing line is kept as is.
func (s *CartService) IncrementItem(ctx context.Context, userID, productID uuid.UUID) (*CartResponse, error) {
	c, err := s.loadOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.adjustQuantity(ctx, c, productID, c.Quantity(productID)+1)
}

// DecrementItem lowers a line's quantity by one; reaching zero removes
// the line
func (s *CartService) DecrementItem(ctx context.Context, userID, productID uuid.UUID) (*CartResponse, error) {
	c, err := s.loadOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, ok := c.Line(productID); !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "Product is not in the cart")
	}
	return s.adjustQuantity(ctx, c, productID, c.Quantity(productID)-1)
}

// RemoveItem removes a line from the cart
func (s *CartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartResponse, error) {
	c, err := s.loadOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := c.Remove(productID); err != nil {
		return nil, err
	}

	return s.saveAndRespond(ctx, c)
}

// ClearCart removes every line from the cart
func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	c, err := s.loadOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.Clear()
	return s.saveAndRespond(ctx, c)
}

// MergeGuestCart folds a guest cart into the user's cart. Quantities for
// the same product are summed and clamped at current stock; guest lines
// whose product no longer exists are skipped. The guest cart is deleted
// only after the merged cart has been persisted, so a failed merge
// leaves both carts untouched.
func (s *CartService) MergeGuestCart(ctx context.Context, userID uuid.UUID, guestToken string) (*CartResponse, error) {
	if guestToken == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Guest cart token is required")
	}

	c, err := s.loadOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	guest, err := s.guestStore.Get(ctx, guestToken)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// Nothing to merge; an expired or unknown token is not an error
			products, perr := s.loadProducts(ctx, c)
			if perr != nil {
				return nil, perr
			}
			return toCartResponse(c, products), nil
		}
		return nil, err
	}

	guestLines := cart.NormalizeGuestLines(guest.Lines)
	ids := make([]uuid.UUID, 0, len(guestLines))
	for _, l := range guestLines {
		ids = append(ids, l.ProductID)
	}

	stocks := make(map[uuid.UUID]int, len(ids))
	if len(ids) > 0 {
		products, err := s.productRepo.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range products {
			stocks[products[i].ID] = products[i].Stock
		}
	}

	c.Merge(guestLines, stocks)

	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	if err := s.guestStore.Delete(ctx, guestToken); err != nil {
		// The merge itself succeeded; the orphaned guest cart will
		// expire via TTL
		s.logger.Warn("failed to delete merged guest cart",
			zap.String("token", guestToken),
			zap.Error(err))
	}

	products, err := s.loadProducts(ctx, c)
	if err != nil {
		return nil, err
	}
	return toCartResponse(c, products), nil
}

func (s *CartService) adjustQuantity(ctx context.Context, c *cart.Cart, productID uuid.UUID, quantity int) (*CartResponse, error) {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	// Raising a line needs stock to raise into; otherwise the clamp
	// would silently drop the line the user already holds.
	if quantity > c.Quantity(productID) && product.Stock <= 0 {
		return nil, shared.NewDomainErrorf("INSUFFICIENT_STOCK", "Only %d items available in stock", 0)
	}

	if _, err := c.SetQuantity(product.ID, quantity, product.Stock); err != nil {
		return nil, err
	}

	return s.saveAndRespond(ctx, c)
}

func (s *CartService) loadOrCreateCart(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	c, err := s.cartRepo.FindByUserID(ctx, userID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return cart.NewCart(userID)
}

func (s *CartService) findProduct(ctx context.Context, productID uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Product not found")
		}
		return nil, err
	}
	return product, nil
}

func (s *CartService) saveAndRespond(ctx context.Context, c *cart.Cart) (*CartResponse, error) {
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	products, err := s.loadProducts(ctx, c)
	if err != nil {
		return nil, err
	}
	return toCartResponse(c, products), nil
}

func (s *CartService) loadProducts(ctx context.Context, c *cart.Cart) (map[uuid.UUID]*catalog.Product, error) {
	ids := make([]uuid.UUID, 0, len(c.Lines))
	for _, l := range c.Lines {
		ids = append(ids, l.ProductID)
	}
	return s.loadProductsByIDs(ctx, ids)
}

func (s *CartService) loadProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
	result := make(map[uuid.UUID]*catalog.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range products {
		result[products[i].ID] = &products[i]
	}
	return result, nil
}
